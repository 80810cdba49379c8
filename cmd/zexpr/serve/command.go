package serve

import (
	"flag"
	"strconv"
	"syscall"

	"github.com/brimdata/zexpr/api/client"
	"github.com/brimdata/zexpr/cli"
	"github.com/brimdata/zexpr/cli/configflags"
	"github.com/brimdata/zexpr/cmd/zexpr/root"
	"github.com/brimdata/zexpr/config"
	"github.com/brimdata/zexpr/pkg/charm"
	"github.com/brimdata/zexpr/pkg/httpd"
	"github.com/brimdata/zexpr/service"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var Cmd = &charm.Spec{
	Name:  "serve",
	Usage: "serve [options]",
	Short: "run the expression filter as an HTTP service",
	Long: `
The serve command listens on the interface and port given by -l and
applies the expression filter to readings posted to /readings.  The
filter configuration may be read with GET /config and replaced with
PUT /config.  /status reports the variables bound so far, /metrics
exposes Prometheus metrics, and /version reports the service version.

The filter is configured by the YAML file given by -c, if any, and by the
-e, -name and -maxvars flags.  With -watch, changes to the file are
applied while the service runs.

The -log.level option controls log verbosity. Available levels,
ordered from most to least verbose, are debug, info (the default),
warn, error, dpanic, panic, and fatal.`,
	New: New,
}

type Command struct {
	*root.Command
	configFlags configflags.Flags
	listenAddr  string
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.configFlags.SetFlags(f)
	f.StringVar(&c.listenAddr, "l", ":"+strconv.Itoa(client.DefaultPort), "[addr]:port to listen on")
	return c, nil
}

func (c *Command) Run(args []string) error {
	// Don't include SIGPIPE here or else a write to a closed socket (i.e.,
	// a broken network connection) will cancel the context on Linux.
	ctx, cleanup, err := c.InitWithSignals([]cli.Initializer{&c.configFlags}, syscall.SIGINT, syscall.SIGTERM)
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
	core, err := service.NewCore(ctx, service.Config{
		Filter:    conf.Filter,
		BatchSize: conf.BatchSize,
		Logger:    logger,
		Version:   cli.Version(),
	})
	if err != nil {
		return err
	}
	defer core.Shutdown()
	srv := httpd.New(c.listenAddr, core)
	srv.SetLogger(logger.Named("httpd"))
	if err := srv.Start(ctx); err != nil {
		return err
	}
	group, ctx := errgroup.WithContext(ctx)
	if c.configFlags.Watch {
		group.Go(func() error {
			return config.Watch(ctx, c.configFlags.Path, logger.Named("config"), func(next config.Config) {
				c.configFlags.Apply(&next)
				if err := core.Reconfigure(next); err != nil {
					logger.Warn("Ignoring invalid configuration", zap.Error(err))
				}
			})
		})
	}
	group.Go(srv.Wait)
	return group.Wait()
}
