// Package httpd runs an http.Server until its context is canceled.
package httpd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ShutdownTimeout bounds how long in-flight requests may run after the
// server's context is canceled.
const ShutdownTimeout = 5 * time.Second

type Server struct {
	srv    *http.Server
	logger *zap.Logger
	addr   string
	done   chan struct{}
	err    error
}

func New(addr string, h http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: 15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: zap.NewNop(),
		done:   make(chan struct{}),
	}
}

func (s *Server) SetLogger(logger *zap.Logger) {
	s.logger = logger
	s.srv.ErrorLog, _ = zap.NewStdLogAt(logger, zap.WarnLevel)
}

// Start listens on the server's address and serves requests in the
// background until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.addr = ln.Addr().String()
	s.logger.Info("Listening", zap.String("addr", s.addr))
	go func() {
		err := s.srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.err = err
		close(s.done)
	}()
	go func() {
		select {
		case <-ctx.Done():
		case <-s.done:
			return
		}
		s.logger.Info("Shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(sctx); err != nil {
			s.logger.Warn("Shutdown", zap.Error(err))
			s.srv.Close()
		}
	}()
	return nil
}

// Addr returns the address the server is listening on, which differs from
// the configured address when that names port 0.
func (s *Server) Addr() string {
	return s.addr
}

// Wait blocks until the server has stopped.
func (s *Server) Wait() error {
	<-s.done
	return s.err
}
