package service

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/brimdata/zexpr/api"
	"github.com/brimdata/zexpr/driver"
	"github.com/brimdata/zexpr/zio"
	"github.com/brimdata/zexpr/zio/anyio"
	"github.com/brimdata/zexpr/zqe"
	"go.uber.org/zap"
)

func errorResponse(e error) (status int, ae *api.Error) {
	status = http.StatusInternalServerError
	ae = &api.Error{Type: "Error"}

	var ze *zqe.Error
	if !errors.As(e, &ze) {
		ae.Message = e.Error()
		return
	}

	switch ze.Kind {
	case zqe.Invalid:
		status = http.StatusBadRequest
	case zqe.NotFound:
		status = http.StatusNotFound
	case zqe.Conflict:
		status = http.StatusConflict
	}

	ae.Kind = ze.Kind.String()
	ae.Message = e.Error()
	return
}

func respond(c *Core, w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", api.MediaTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		c.requestLogger(r).Warn("Error writing response", zap.Error(err))
	}
}

func respondError(c *Core, w http.ResponseWriter, r *http.Request, err error) {
	status, ae := errorResponse(err)
	if status >= 500 {
		c.requestLogger(r).Warn("Error", zap.Int("status", status), zap.Error(err))
	}
	respond(c, w, r, status, ae)
}

func request(c *Core, w http.ResponseWriter, r *http.Request, apiobj interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(apiobj); err != nil {
		respondError(c, w, r, zqe.E(zqe.Invalid, err))
		return false
	}
	return true
}

func handleStatus(c *Core, w http.ResponseWriter, r *http.Request) {
	respond(c, w, r, http.StatusOK, api.StatusResponse{
		Status:   c.filter.Status(),
		Progress: c.progress.Copy(),
		Recent:   c.rate.Rate(),
	})
}

func handleConfigGet(c *Core, w http.ResponseWriter, r *http.Request) {
	respond(c, w, r, http.StatusOK, c.filter.Config())
}

// handleConfigPut replaces the filter configuration.  Settings missing from
// the request keep their current values.
func handleConfigPut(c *Core, w http.ResponseWriter, r *http.Request) {
	conf := c.filter.Config()
	if !request(c, w, r, &conf) {
		return
	}
	if err := c.filter.Reconfigure(conf); err != nil {
		respondError(c, w, r, err)
		return
	}
	respond(c, w, r, http.StatusOK, c.filter.Config())
}

func readingsFormat(r *http.Request) (string, error) {
	if format := r.URL.Query().Get("format"); format != "" {
		return format, nil
	}
	format, err := api.MediaTypeToFormat(r.Header.Get("Accept"), "ndjson")
	if err != nil {
		return "", zqe.E(zqe.Invalid, err)
	}
	return format, nil
}

// handleReadingsPost applies the filter to the readings in the request
// body.  The whole body is read before any reading is processed so that a
// malformed request is rejected without side effects.
func handleReadingsPost(c *Core, w http.ResponseWriter, r *http.Request) {
	format, err := readingsFormat(r)
	if err != nil {
		respondError(c, w, r, err)
		return
	}
	zw, err := anyio.NewWriter(format, zio.NopCloser(w))
	if err != nil {
		respondError(c, w, r, err)
		return
	}
	body, err := anyio.NewFile(r.Body)
	if err != nil {
		respondError(c, w, r, zqe.E(zqe.Invalid, err))
		return
	}
	var readings zio.Array
	if err := zio.Copy(r.Context(), &readings, body); err != nil {
		respondError(c, w, r, zqe.E(zqe.Invalid, err))
		return
	}
	w.Header().Set("Content-Type", api.FormatToMediaType(format))
	w.WriteHeader(http.StatusOK)
	batchSize := int(atomic.LoadInt64(&c.batchSize))
	c.rate.Incr(int64(len(readings.Readings())))
	if err := driver.RunWithProgress(r.Context(), c.filter, &readings, zw, batchSize, &c.progress); err != nil {
		c.requestLogger(r).Warn("Error writing response", zap.Error(err))
	}
}
