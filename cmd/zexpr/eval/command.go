package eval

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/brimdata/zexpr"
	"github.com/brimdata/zexpr/binding"
	"github.com/brimdata/zexpr/cmd/zexpr/root"
	"github.com/brimdata/zexpr/expr"
	"github.com/brimdata/zexpr/pkg/charm"
)

var Cmd = &charm.Spec{
	Name:  "eval",
	Usage: "eval [-asset name] expression [name=value ...]",
	Short: "evaluate an expression once",
	Long: `
The eval command binds each name=value argument as a variable, evaluates
the expression, and prints the result.  Names are rewritten into
identifiers in the same way as datapoint names, so

  zexpr eval 'flow0X20rate * 2' 'flow rate=3'

prints 6.0.  With -asset, each variable is also bound under its name
qualified by the asset.  Unlike the filter, eval prints results that are
not finite numbers.`,
	New: New,
}

type Command struct {
	*root.Command
	asset string
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	f.StringVar(&c.asset, "asset", "", "asset used to qualify variable names")
	return c, nil
}

func (c *Command) Run(args []string) error {
	_, cleanup, err := c.Init()
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) == 0 {
		return errors.New("eval: expression required")
	}
	result, err := Evaluate(args[0], c.asset, args[1:])
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, zexpr.FormatFloat(result))
	return nil
}

// Evaluate evaluates expression with the variables given as name=value
// assignments.
func Evaluate(expression, asset string, assignments []string) (float64, error) {
	rewriter := binding.NewRewriter(expression)
	table := binding.NewTable(0)
	for _, a := range assignments {
		i := strings.LastIndexByte(a, '=')
		if i < 1 {
			return 0, fmt.Errorf("%q: assignment must have the form name=value", a)
		}
		name := a[:i]
		val, err := strconv.ParseFloat(a[i+1:], 64)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", a, err)
		}
		ids := []string{rewriter.Identifier(name)}
		if asset != "" {
			ids = append([]string{rewriter.Qualified(asset, name)}, ids...)
		}
		for _, id := range ids {
			slot, ok := table.Lookup(id)
			if !ok {
				if slot, err = table.Declare(id); err != nil {
					return 0, err
				}
			}
			slot.Set(val)
		}
	}
	e, err := expr.Compile(rewriter.Source(), table)
	if err != nil {
		return 0, err
	}
	return e.Eval()
}
