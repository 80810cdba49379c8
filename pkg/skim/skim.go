// Package skim provides a line scanner that reads directly out of a
// buffer that grows up to a fixed limit.
package skim

import (
	"bytes"
	"errors"
	"io"
)

var ErrLineTooLong = errors.New("line too long")

type Stats struct {
	Bytes int64
	Lines int
}

type Scanner struct {
	Stats
	reader io.Reader
	buffer []byte
	window []byte
	limit  int
	eof    bool
}

// NewScanner returns a Scanner that reads from r into buffer, growing
// buffer as needed to hold a line of at most limit bytes.
func NewScanner(r io.Reader, buffer []byte, limit int) *Scanner {
	return &Scanner{
		reader: r,
		buffer: buffer,
		window: buffer[:0],
		limit:  limit,
	}
}

// ScanLine returns the next line including its terminating newline, if
// any.  At EOF, it returns a nil slice and nil error.  The returned slice
// is valid only until the next call to ScanLine.
func (s *Scanner) ScanLine() ([]byte, error) {
	for {
		if i := bytes.IndexByte(s.window, '\n'); i >= 0 {
			return s.take(i + 1), nil
		}
		if s.eof {
			if len(s.window) == 0 {
				return nil, nil
			}
			return s.take(len(s.window)), nil
		}
		if len(s.window) >= s.limit {
			return nil, ErrLineTooLong
		}
		if err := s.fill(); err != nil {
			return nil, err
		}
	}
}

func (s *Scanner) take(n int) []byte {
	line := s.window[:n]
	s.window = s.window[n:]
	s.Bytes += int64(n)
	s.Lines++
	return line
}

func (s *Scanner) fill() error {
	n := copy(s.buffer, s.window)
	if n == len(s.buffer) {
		size := len(s.buffer) * 2
		if size == 0 {
			size = 4096
		}
		if size > s.limit {
			size = s.limit
		}
		buffer := make([]byte, size)
		copy(buffer, s.buffer[:n])
		s.buffer = buffer
	}
	cc, err := s.reader.Read(s.buffer[n:])
	s.window = s.buffer[:n+cc]
	if err == io.EOF {
		s.eof = true
		err = nil
	}
	return err
}
