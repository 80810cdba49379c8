package inputflags

import (
	"context"
	"fmt"

	"github.com/brimdata/zexpr/zio"
	"github.com/brimdata/zexpr/zio/anyio"
	"go.uber.org/multierr"
)

// Open opens each of paths, reading standard input when paths is empty.
// Paths may be file names, "-" or s3:// URLs.  If any path cannot be
// opened, readers already opened are closed.
func Open(ctx context.Context, paths []string) ([]zio.Reader, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	var readers []zio.Reader
	for _, path := range paths {
		r, err := anyio.Open(ctx, path)
		if err != nil {
			err = fmt.Errorf("%s: %w", path, err)
			return nil, multierr.Append(err, zio.CloseReaders(readers))
		}
		readers = append(readers, r)
	}
	return readers, nil
}
