// Package charm is a minimalist CLI framework inspired by cobra and
// urfave/cli.
package charm

import (
	"errors"
	"flag"
	"io"
)

var (
	NeedHelp = errors.New("help")
	ErrNoRun = errors.New("no run method")
)

type Constructor func(Command, *flag.FlagSet) (Command, error)

type Command interface {
	Run([]string) error
}

type Spec struct {
	Name  string
	Usage string
	Short string
	Long  string
	New   Constructor
	// Hidden hides this command from help.
	Hidden bool
	// Hidden flags (comma-separated) marks these flags as hidden.
	HiddenFlags string
	// Redacted flags (comma-separated) marks these flags as redacted,
	// where a flag is shown (if not hidden) but its default value is hidden,
	// e.g., as is useful for a token flag.
	RedactedFlags string
	children      []*Spec
	parent        *Spec
}

func (c *Spec) Add(child *Spec) {
	c.children = append(c.children, child)
	child.parent = c
}

func (c *Spec) Root() *Spec {
	for c.parent != nil {
		c = c.parent
	}
	return c
}

func (c *Spec) lookupSub(name string) *Spec {
	for _, child := range c.children {
		if name == child.Name {
			return child
		}
	}
	return nil
}

func (c *Spec) visibleChildren() []string {
	var names []string
	for _, child := range c.children {
		if !child.Hidden {
			names = append(names, child.Name)
		}
	}
	return names
}

// ExecRoot parses args against the command tree rooted at s and runs the
// command they select.  A -h or -help flag displays help for the selected
// command instead.
func (s *Spec) ExecRoot(args []string) error {
	path, rest, err := parse(s, args, nil)
	if err == nil {
		err = path.run(rest)
	}
	if err == NeedHelp {
		displayHelp(path, false)
		return nil
	}
	return err
}

// parse walks args down the command tree, creating an instance for each
// command named and parsing its flags.  It returns the instances along
// with the arguments left for the last one.
func parse(spec *Spec, args []string, parent Command) (path, []string, error) {
	var p path
	for {
		inst, err := newInstance(parent, spec)
		if err != nil {
			return p, nil, err
		}
		p = append(p, inst)
		rest, err := parseFlags(inst.flags, args)
		if err != nil || len(rest) == 0 {
			return p, rest, err
		}
		child := spec.lookupSub(rest[0])
		if child == nil {
			return p, rest, nil
		}
		spec, parent, args = child, inst.command, rest[1:]
	}
}

func parseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, NeedHelp
		}
		return nil, err
	}
	return fs.Args(), nil
}
