// Package anyio opens reading sources and creates writers by format name.
package anyio

import (
	"context"
	"io"
	"os"

	"github.com/brimdata/zexpr/pkg/s3io"
	"github.com/brimdata/zexpr/zio"
	"github.com/brimdata/zexpr/zio/ndjsonio"
	"go.uber.org/multierr"
)

// Open opens path for reading newline-delimited JSON readings.  A path of
// "-" reads standard input and an s3://bucket/key URL reads an S3 object.
// Gzip- and zstd-compressed input is detected and decompressed.
func Open(ctx context.Context, path string) (zio.ReadCloser, error) {
	var f io.ReadCloser
	var err error
	switch {
	case path == "-":
		f = io.NopCloser(os.Stdin)
	case s3io.IsS3Path(path):
		f, err = s3io.NewReader(ctx, path, nil)
	default:
		f, err = os.Open(path)
	}
	if err != nil {
		return nil, err
	}
	rc, err := NewFile(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return rc, nil
}

func NewFile(rc io.ReadCloser) (zio.ReadCloser, error) {
	r, err := Decompress(rc)
	if err != nil {
		return nil, err
	}
	return zio.NewReadCloser(ndjsonio.NewReader(r), closers{r, rc}), nil
}

// closers closes each of its elements in order.
type closers []io.Closer

func (c closers) Close() error {
	var err error
	for _, closer := range c {
		err = multierr.Append(err, closer.Close())
	}
	return err
}
