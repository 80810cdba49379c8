// Package zio defines the interfaces used to read and write streams of
// readings and helpers for combining them.
package zio

import (
	"context"
	"io"

	"github.com/brimdata/zexpr"
	"go.uber.org/multierr"
	"golang.org/x/exp/slices"
)

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NopCloser is like io.NopCloser for writers.  The service uses it so that
// closing a reading writer leaves the HTTP response open.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}

// Reader wraps the Read method.
//
// Read returns the next reading and a nil error, a nil reading and the next
// error, or a nil reading and nil error to indicate that no readings remain.
//
// Read never returns a non-nil reading and non-nil error together, and it
// never returns io.EOF.
type Reader interface {
	Read() (*zexpr.Reading, error)
}

type Writer interface {
	Write(*zexpr.Reading) error
}

type ReadCloser interface {
	Reader
	io.Closer
}

type WriteCloser interface {
	Writer
	io.Closer
}

func NewReadCloser(r Reader, c io.Closer) ReadCloser {
	return extReadCloser{r, c}
}

type extReadCloser struct {
	Reader
	io.Closer
}

// ConcatReader returns a Reader that is the logical concatenation of readers,
// which are read sequentially.  Its Read methed returns any non-nil error
// returned by a reader and returns end of stream after all readers have
// returned end of stream.
func ConcatReader(readers ...Reader) Reader {
	if len(readers) == 1 {
		return readers[0]
	}
	return &concatReader{slices.Clone(readers)}
}

type concatReader struct {
	readers []Reader
}

func (c *concatReader) Read() (*zexpr.Reading, error) {
	for len(c.readers) > 0 {
		r, err := c.readers[0].Read()
		if r != nil || err != nil {
			return r, err
		}
		c.readers = c.readers[1:]
	}
	return nil, nil
}

// Copy copies src to dst a la io.Copy, checking ctx between readings.
func Copy(ctx context.Context, dst Writer, src Reader) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := src.Read()
		if err != nil || r == nil {
			return err
		}
		if err := dst.Write(r); err != nil {
			return err
		}
	}
}

// CloseReaders closes every reader that implements io.Closer and returns
// the combined errors.
func CloseReaders(readers []Reader) error {
	var err error
	for _, reader := range readers {
		if closer, ok := reader.(io.Closer); ok {
			err = multierr.Append(err, closer.Close())
		}
	}
	return err
}

// Array is a Reader and Writer over an in-memory slice of readings.
type Array struct {
	readings []*zexpr.Reading
}

func NewArray(readings []*zexpr.Reading) *Array {
	return &Array{readings}
}

func (a *Array) Read() (*zexpr.Reading, error) {
	if len(a.readings) == 0 {
		return nil, nil
	}
	r := a.readings[0]
	a.readings = a.readings[1:]
	return r, nil
}

func (a *Array) Write(r *zexpr.Reading) error {
	a.readings = append(a.readings, r)
	return nil
}

func (a *Array) Readings() []*zexpr.Reading {
	return a.readings
}
