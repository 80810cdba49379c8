// Package configflags binds the configuration file and the filter settings
// that may override it on the command line.
package configflags

import (
	"flag"

	"github.com/brimdata/zexpr/config"
	"github.com/brimdata/zexpr/zqe"
)

type Flags struct {
	Path  string
	Watch bool

	fs         *flag.FlagSet
	expression string
	name       string
	maxVars    int
	batchSize  int
	disable    bool
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	def := config.Default()
	f.fs = fs
	fs.StringVar(&f.Path, "c", "", "path to YAML configuration file")
	fs.BoolVar(&f.Watch, "watch", false, "reload the configuration file (-c) when it changes")
	fs.StringVar(&f.expression, "e", def.Filter.Expression, "expression to evaluate")
	fs.StringVar(&f.name, "name", def.Filter.Name, "name of the datapoint holding the result")
	fs.IntVar(&f.maxVars, "maxvars", def.Filter.MaxVars, "maximum number of bound variables")
	fs.IntVar(&f.batchSize, "batch", def.BatchSize, "number of readings per batch")
	fs.BoolVar(&f.disable, "disable", false, "pass readings through without evaluating the expression")
}

func (f *Flags) Init() error {
	if f.Watch && f.Path == "" {
		return zqe.E(zqe.Invalid, "-watch requires -c")
	}
	return nil
}

// Load returns the configuration file's settings, or the defaults when no
// file was given, with any filter flags set on the command line applied
// on top.  Without a file the filter is enabled.  With one, the file's
// enable setting holds unless -e or -disable is given.
func (f *Flags) Load() (config.Config, error) {
	c := config.Default()
	c.Filter.Enable = true
	if f.Path != "" {
		var err error
		if c, err = config.Load(f.Path); err != nil {
			return config.Config{}, err
		}
	}
	f.Apply(&c)
	return c, c.Validate()
}

// Apply overrides c with the flags set explicitly on the command line.
func (f *Flags) Apply(c *config.Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "e":
			c.Filter.Expression = f.expression
			c.Filter.Enable = true
		case "name":
			c.Filter.Name = f.name
		case "maxvars":
			c.Filter.MaxVars = f.maxVars
		case "batch":
			c.BatchSize = f.batchSize
		}
	})
	if f.disable {
		c.Filter.Enable = false
	}
}
