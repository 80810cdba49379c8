package run

import (
	"context"
	"flag"

	"github.com/brimdata/zexpr/cli/configflags"
	"github.com/brimdata/zexpr/cli/inputflags"
	"github.com/brimdata/zexpr/cli/outputflags"
	"github.com/brimdata/zexpr/cmd/zexpr/root"
	"github.com/brimdata/zexpr/config"
	"github.com/brimdata/zexpr/driver"
	"github.com/brimdata/zexpr/filter"
	"github.com/brimdata/zexpr/pkg/charm"
	"github.com/brimdata/zexpr/zbuf"
	"github.com/brimdata/zexpr/zio"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var Cmd = &charm.Spec{
	Name:  "run",
	Usage: "run [options] [file ...]",
	Short: "apply the expression filter to readings",
	Long: `
The run command reads newline delimited JSON readings from the named files
or s3:// URLs, or from standard input if none are given or a file is "-".
It applies the expression filter to them and writes them to standard output
or to the file or s3:// URL given by -o.  Gzip- and zstd-compressed input is
detected automatically.

Readings are processed in batches of -batch readings.  Within a batch,
datapoints seen for the first time are bound as they appear.

The filter is configured by the YAML file given by -c, if any, and by the
-e, -name and -maxvars flags, which take precedence over the file.  With
-watch, changes to the file are applied while the command runs.

With -influx.url, results are written to an InfluxDB bucket rather than
to a file.  -f influx writes InfluxDB line protocol.`,
	RedactedFlags: "influx.token",
	New:           New,
}

type Command struct {
	*root.Command
	configFlags configflags.Flags
	outputFlags outputflags.Flags
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.configFlags.SetFlags(f)
	c.outputFlags.SetFlags(f)
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init(&c.configFlags, &c.outputFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	conf, err := c.configFlags.Load()
	if err != nil {
		return err
	}
	logger, err := c.LogFlags.OpenWith(conf.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()
	f, err := filter.New(conf.Filter, logger, nil)
	if err != nil {
		return err
	}
	readers, err := inputflags.Open(ctx, args)
	if err != nil {
		return err
	}
	defer zio.CloseReaders(readers)
	c.outputFlags.SetInflux(conf.Influx)
	w, err := c.outputFlags.Open(ctx)
	if err != nil {
		return err
	}
	group, gctx := errgroup.WithContext(ctx)
	gctx, cancel := context.WithCancel(gctx)
	if c.configFlags.Watch {
		group.Go(func() error {
			return config.Watch(gctx, c.configFlags.Path, logger.Named("config"), func(next config.Config) {
				c.configFlags.Apply(&next)
				if err := f.Reconfigure(next.Filter); err != nil {
					logger.Warn("Ignoring invalid configuration", zap.Error(err))
				}
			})
		})
	}
	var progress zbuf.Progress
	group.Go(func() error {
		defer cancel()
		return driver.RunWithProgress(gctx, f, zio.ConcatReader(readers...), w, conf.BatchSize, &progress)
	})
	err = group.Wait()
	logger.Debug("Done", zap.Any("progress", progress.Copy()))
	return multierr.Append(err, w.Close())
}
