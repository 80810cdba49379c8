package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/brimdata/zexpr/api"
	"github.com/brimdata/zexpr/zqe"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

// withRequestID tags the request context and the response with the
// request's X-Request-ID header, generating a ksuid when the client did not
// send one.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(api.RequestIDHeader)
		if id == "" {
			id = ksuid.New().String()
		}
		w.Header().Set(api.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(api.ContextWithRequestID(r.Context(), id)))
	})
}

func (c *Core) logRequests(next http.Handler) http.Handler {
	logger := c.conf.Logger.Named("http.access")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		logger := logger.With(
			zap.String("request_id", api.RequestIDFromContext(r.Context())),
			zap.String("method", r.Method),
			zap.Stringer("url", r.URL),
			zap.String("remote_addr", r.RemoteAddr),
		)
		logger.Debug("Request started", zap.Int64("request_content_length", r.ContentLength))
		next.ServeHTTP(rec, r)
		c.requests.WithLabelValues(strconv.Itoa(rec.status)).Inc()
		logger.Info("Request completed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Int("response_content_length", rec.written),
			zap.Int("status_code", rec.status),
		)
	})
}

func (c *Core) catchPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				c.requestLogger(r).Error("Panic", zap.Error(zqe.RecoverError(v)), zap.Stack("stack"))
				w.WriteHeader(http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// statusRecorder remembers the status code and body size of a response.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	n, err := s.ResponseWriter.Write(b)
	s.written += n
	return n, err
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
