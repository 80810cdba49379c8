package anyio

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brimdata/zexpr"
	"github.com/brimdata/zexpr/zio"
	"github.com/brimdata/zexpr/zqe"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const input = `{"asset":"pump","timestamp":"2023-11-14T22:13:20Z","readings":{"flow":4.5}}
`

func readAll(t *testing.T, r zio.Reader) []*zexpr.Reading {
	var a zio.Array
	require.NoError(t, zio.Copy(context.Background(), &a, r))
	return a.Readings()
}

func TestOpenPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.ndjson")
	require.NoError(t, os.WriteFile(path, []byte(input), 0644))
	rc, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer rc.Close()
	readings := readAll(t, rc)
	require.Len(t, readings, 1)
	assert.Equal(t, "pump", readings[0].Asset)
}

func TestOpenCompressed(t *testing.T) {
	newZstd := func(w io.Writer) io.WriteCloser {
		zw, err := zstd.NewWriter(w)
		require.NoError(t, err)
		return zw
	}
	newGzip := func(w io.Writer) io.WriteCloser { return gzip.NewWriter(w) }
	for name, newWriter := range map[string]func(io.Writer) io.WriteCloser{
		"gzip": newGzip,
		"zstd": newZstd,
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			zw := newWriter(&buf)
			_, err := zw.Write([]byte(input))
			require.NoError(t, err)
			require.NoError(t, zw.Close())
			rc, err := NewFile(io.NopCloser(&buf))
			require.NoError(t, err)
			defer rc.Close()
			readings := readAll(t, rc)
			require.Len(t, readings, 1)
			v, ok := readings[0].Lookup("flow")
			require.True(t, ok)
			assert.Equal(t, 4.5, v.Float())
		})
	}
}

func TestOpenEmpty(t *testing.T) {
	rc, err := NewFile(io.NopCloser(strings.NewReader("")))
	require.NoError(t, err)
	assert.Empty(t, readAll(t, rc))
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestNewWriter(t *testing.T) {
	for _, format := range Formats {
		_, err := NewWriter(format, zio.NopCloser(io.Discard))
		assert.NoError(t, err, format)
	}
	_, err := NewWriter("csv", zio.NopCloser(io.Discard))
	assert.True(t, zqe.IsInvalid(err))
}
