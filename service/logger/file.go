package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/units"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileMode says what happens to an existing log file when it is opened.
type FileMode string

const (
	FileModeAppend   FileMode = "append"
	FileModeTruncate FileMode = "truncate"
	// FileModeRotate rotates the file with lumberjack according to a
	// Rotation.
	FileModeRotate FileMode = "rotate"
)

func (m *FileMode) Set(s string) error {
	mode := FileMode(s)
	if mode == "" {
		mode = FileModeAppend
	}
	switch mode {
	case FileModeAppend, FileModeTruncate, FileModeRotate:
		*m = mode
		return nil
	}
	return fmt.Errorf("invalid log file mode: %s", s)
}

func (m *FileMode) UnmarshalText(text []byte) error {
	return m.Set(string(text))
}

func (m FileMode) String() string {
	return string(m)
}

// Size is a byte count written as, e.g., "10MB" or "1GiB".
type Size int64

func (s *Size) UnmarshalText(text []byte) error {
	n, err := units.ParseStrictBytes(string(text))
	if err != nil {
		return err
	}
	*s = Size(n)
	return nil
}

func (s Size) MarshalText() ([]byte, error) {
	return []byte(units.Base2Bytes(s).String()), nil
}

// megabytes rounds s up to the whole megabytes lumberjack expects.
func (s Size) megabytes() int {
	const mb = 1024 * 1024
	return int((s + mb - 1) / mb)
}

// Rotation limits the files kept in FileModeRotate.
type Rotation struct {
	MaxSize    Size `yaml:"maxsize"`
	MaxBackups int  `yaml:"maxbackups"`
	// MaxAge is in days.
	MaxAge int `yaml:"maxage"`
}

func DefaultRotation() Rotation {
	return Rotation{
		MaxSize:    10 * 1024 * 1024,
		MaxBackups: 5,
		MaxAge:     14,
	}
}

// OpenFile opens the log destination path, which is a file name or one of
// "stdout", "stderr" and "/dev/null".
func OpenFile(path string, mode FileMode, rot Rotation) (zapcore.WriteSyncer, error) {
	switch path {
	case "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	case "/dev/null":
		return zapcore.AddSync(io.Discard), nil
	}
	flag := os.O_WRONLY | os.O_CREATE
	switch mode {
	case FileModeRotate:
		if _, err := os.Stat(filepath.Dir(path)); err != nil {
			return nil, err
		}
		// lumberjack serializes writes itself.
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    rot.MaxSize.megabytes(),
			MaxBackups: rot.MaxBackups,
			MaxAge:     rot.MaxAge,
			Compress:   true,
		}), nil
	case FileModeTruncate:
		flag |= os.O_TRUNC
	default:
		flag |= os.O_APPEND
	}
	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, err
	}
	return zapcore.Lock(f), nil
}
