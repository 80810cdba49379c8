// Package api defines the types exchanged with the zexpr service.
package api

import (
	"context"

	"github.com/brimdata/zexpr/filter"
	"github.com/brimdata/zexpr/zbuf"
)

const RequestIDHeader = "X-Request-ID"

type contextKey string

const requestIDKey = contextKey(RequestIDHeader)

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

type Error struct {
	Type    string      `json:"type"`
	Kind    string      `json:"kind"`
	Message string      `json:"error"`
	Info    interface{} `json:"info,omitempty"`
}

func (e Error) Error() string {
	return e.Message
}

type VersionResponse struct {
	Version string `json:"version"`
}

// StatusResponse describes the filter installed in the service and the
// readings it has processed.
type StatusResponse struct {
	filter.Status
	Progress zbuf.Progress `json:"progress"`
	// Recent is the number of readings posted in the last minute.
	Recent int64 `json:"recent"`
}
