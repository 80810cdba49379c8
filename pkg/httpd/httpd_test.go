package httpd

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServer(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})
	srv := New("localhost:0", h)
	srv.SetLogger(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, srv.Start(ctx))

	res, err := http.Get("http://" + srv.Addr())
	require.NoError(t, err)
	b, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "ok", string(b))

	cancel()
	assert.NoError(t, srv.Wait())
}

func TestStartBadAddr(t *testing.T) {
	assert.Error(t, New("localhost:-1", http.NotFoundHandler()).Start(context.Background()))
}
