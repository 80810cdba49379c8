package root

import (
	"flag"

	"github.com/brimdata/zexpr/cli"
	"github.com/brimdata/zexpr/cli/logflags"
	"github.com/brimdata/zexpr/pkg/charm"
)

var Zexpr = &charm.Spec{
	Name:  "zexpr",
	Usage: "zexpr <command> [options] [arguments...]",
	Short: "evaluate expressions over sensor readings",
	Long: `
zexpr evaluates an arithmetic expression against the numeric datapoints of
each reading in a stream and appends the result to the reading as a new
datapoint.  Datapoints are available to the expression by name and by name
qualified with the reading's asset, as in "pump.flow".  Names that are not
valid identifiers are rewritten, e.g., "flow rate" becomes "flow0X20rate".

Readings are newline delimited JSON objects of the form

  {"asset":"pump","timestamp":"2024-05-01T12:00:00Z","readings":{"flow":4.5}}

The run command filters files or standard input, the serve command runs the
filter as an HTTP service, and the eval command evaluates an expression
once.`,
	New: New,
}

type Command struct {
	charm.Command
	cli.Flags
	LogFlags logflags.Flags
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{}
	c.SetFlags(f)
	c.LogFlags.SetFlags(f)
	return c, nil
}

func (c *Command) Run(args []string) error {
	_, cancel, err := c.Init()
	if err != nil {
		return err
	}
	defer cancel()
	if len(args) == 0 {
		return charm.NeedHelp
	}
	return charm.ErrNoRun
}
