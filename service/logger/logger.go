// Package logger builds the zap loggers used by the command line tools and
// the service.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Path  string        `yaml:"path"`
	Mode  FileMode      `yaml:"mode"`
	Level zapcore.Level `yaml:"level"`
	// Name, if set, restricts output to loggers whose name begins with
	// Name.
	Name    string `yaml:"name,omitempty"`
	DevMode bool   `yaml:"devmode,omitempty"`
	// Rotate applies when Mode is FileModeRotate.  Zero fields take
	// their values from DefaultRotation.
	Rotate Rotation `yaml:"rotate,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Path:   "stderr",
		Mode:   FileModeAppend,
		Level:  zap.InfoLevel,
		Rotate: DefaultRotation(),
	}
}

// New returns a logger writing JSON to the destination described by conf.
func New(conf Config) (*zap.Logger, error) {
	core, err := NewCore(conf)
	if err != nil {
		return nil, err
	}
	var opts []zap.Option
	if conf.DevMode {
		opts = append(opts, zap.Development())
	}
	return zap.New(core, opts...), nil
}

func NewCore(conf Config) (zapcore.Core, error) {
	path := conf.Path
	if path == "" {
		path = "stderr"
	}
	rot := conf.Rotate
	dflt := DefaultRotation()
	if rot.MaxSize <= 0 {
		rot.MaxSize = dflt.MaxSize
	}
	if rot.MaxBackups <= 0 {
		rot.MaxBackups = dflt.MaxBackups
	}
	if rot.MaxAge <= 0 {
		rot.MaxAge = dflt.MaxAge
	}
	w, err := OpenFile(path, conf.Mode, rot)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), w, conf.Level)
	if conf.Name != "" {
		core = &nameFilter{Core: core, name: conf.Name}
	}
	return core, nil
}

func encoderConfig() zapcore.EncoderConfig {
	c := zap.NewProductionEncoderConfig()
	c.EncodeTime = zapcore.ISO8601TimeEncoder
	c.EncodeDuration = zapcore.StringDurationEncoder
	return c
}

// nameFilter drops entries from loggers outside the named subtree.
type nameFilter struct {
	zapcore.Core
	name string
}

func (n *nameFilter) With(fields []zapcore.Field) zapcore.Core {
	return &nameFilter{Core: n.Core.With(fields), name: n.name}
}

func (n *nameFilter) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !strings.HasPrefix(e.LoggerName, n.name) {
		return ce
	}
	if n.Enabled(e.Level) {
		return ce.AddCore(e, n)
	}
	return ce
}
