package logflags

import (
	"flag"

	"github.com/brimdata/zexpr/service/logger"
	"go.uber.org/zap"
)

type Flags struct {
	Config logger.Config
	fs     *flag.FlagSet
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	f.fs = fs
	fs.BoolVar(&f.Config.DevMode, "log.devmode", false, "development mode (if enabled dpanic level logs will cause a panic)")
	f.Config.Level = zap.InfoLevel
	fs.Var(&f.Config.Level, "log.level", "logging level")
	fs.StringVar(&f.Config.Path, "log.path", "stderr", "path to send logs (values: stderr, stdout, path in file system)")
	f.Config.Mode = logger.FileModeAppend
	fs.Var(&f.Config.Mode, "log.filemode", "logger file write mode (values: append, truncate, rotate)")
	fs.StringVar(&f.Config.Name, "log.name", "", "only log messages from loggers with this name prefix")
}

func (f *Flags) Open() (*zap.Logger, error) {
	return logger.New(f.Config)
}

// OpenWith returns a logger configured by base, typically read from a
// configuration file, overridden by any log flags given on the command
// line.
func (f *Flags) OpenWith(base logger.Config) (*zap.Logger, error) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "log.devmode":
			base.DevMode = f.Config.DevMode
		case "log.level":
			base.Level = f.Config.Level
		case "log.path":
			base.Path = f.Config.Path
		case "log.filemode":
			base.Mode = f.Config.Mode
		case "log.name":
			base.Name = f.Config.Name
		}
	})
	return logger.New(base)
}
