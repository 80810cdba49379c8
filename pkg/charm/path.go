package charm

import (
	"flag"
	"fmt"
	"strings"
)

// An instance is a command constructed from its Spec along with the flag set
// its constructor registered flags on.
type instance struct {
	spec    *Spec
	command Command
	flags   *flag.FlagSet
}

func newInstance(parent Command, spec *Spec) (*instance, error) {
	if spec.New == nil {
		return nil, fmt.Errorf("charm: command %q has no constructor", spec.Name)
	}
	fs := flag.NewFlagSet(spec.Name, flag.ContinueOnError)
	cmd, err := spec.New(parent, fs)
	if err != nil {
		return nil, err
	}
	return &instance{spec: spec, command: cmd, flags: fs}, nil
}

// options describes each flag of the instance on one line.  Hidden flags are
// shown in brackets when vflag is set and omitted otherwise.
func (i *instance) options(vflag bool) []string {
	hidden := nameSet(i.spec.HiddenFlags)
	redacted := nameSet(i.spec.RedactedFlags)
	var lines []string
	i.flags.VisitAll(func(f *flag.Flag) {
		name := "-" + f.Name
		if hidden[f.Name] {
			if !vflag {
				return
			}
			name = "[" + name + "]"
		}
		var b strings.Builder
		b.WriteString(name)
		b.WriteByte(' ')
		b.WriteString(f.Usage)
		if f.DefValue != "" && !redacted[f.Name] {
			fmt.Fprintf(&b, " (default %q)", f.DefValue)
		}
		lines = append(lines, b.String())
	})
	return lines
}

// nameSet turns a comma-separated list of names into a set.
func nameSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			set[name] = true
		}
	}
	return set
}

// A path is the chain of instances from the root command to the one
// selected on the command line.
type path []*instance

func (p path) last() *instance {
	return p[len(p)-1]
}

func (p path) run(args []string) error {
	err := p.last().command.Run(args)
	if err != ErrNoRun {
		return err
	}
	subs := strings.Join(p.last().spec.visibleChildren(), " ")
	if len(args) == 0 {
		return fmt.Errorf("%q: requires a sub-command: %s", p.pathname(), subs)
	}
	return fmt.Errorf("%q: no such sub-command %q: options are: %s", p.pathname(), args[0], subs)
}

func (p path) pathname() string {
	var b strings.Builder
	for k, inst := range p {
		if k > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(inst.spec.Name)
	}
	return b.String()
}
