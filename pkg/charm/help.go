package charm

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kr/text"
	"golang.org/x/term"
)

var Help = &Spec{
	Name:  "help",
	Usage: "help [command ...]",
	Short: "display help for a command",
	Long: `
With no arguments, help describes the top-level command.  Otherwise, the
arguments name a command and help describes it, e.g., "help run" or, for a
nested command, "help cmd1 cmd2".`,
	HiddenFlags: "v",
	New: func(parent Command, f *flag.FlagSet) (Command, error) {
		c := &HelpCommand{}
		f.BoolVar(&c.vflag, "v", false, "show hidden commands and flags")
		return c, nil
	},
}

// helpOutput is where help text is written.
var helpOutput io.Writer = os.Stderr

type HelpCommand struct {
	vflag bool
}

func (c *HelpCommand) Run(args []string) error {
	p, err := lookupPath(Help.Root(), args)
	if err != nil {
		return err
	}
	displayHelp(p, c.vflag)
	return nil
}

// lookupPath instantiates the commands named by args, starting at root,
// without parsing any flags.
func lookupPath(root *Spec, args []string) (path, error) {
	inst, err := newInstance(nil, root)
	if err != nil {
		return nil, err
	}
	p := path{inst}
	for _, name := range args {
		spec := inst.spec.lookupSub(name)
		if spec == nil {
			return nil, fmt.Errorf("no such command %q", name)
		}
		if inst, err = newInstance(inst.command, spec); err != nil {
			return nil, err
		}
		p = append(p, inst)
	}
	return p, nil
}

const tab = "    "

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// formatParagraph wraps each paragraph of body that does not fit in width
// and indents every line with indent.
func formatParagraph(body, indent string, width int) string {
	var out []string
	for _, para := range strings.Split(body, "\n\n") {
		if len(para) >= width {
			para = text.Wrap(strings.TrimSpace(para), width)
		}
		out = append(out, text.Indent(strings.TrimRight(para, " \t\n"), indent))
	}
	return strings.Join(out, "\n\n") + "\n\n"
}

type helpWriter struct {
	w     io.Writer
	width int
	bold  bool
}

func newHelpWriter(w io.Writer) *helpWriter {
	h := &helpWriter{w: w, width: terminalWidth() - len(tab) - 5}
	if f, ok := w.(*os.File); ok {
		h.bold = term.IsTerminal(int(f.Fd()))
	}
	return h
}

func (h *helpWriter) heading(s string) {
	if h.bold {
		s = "\033[1m" + s + "\033[0m"
	}
	fmt.Fprintln(h.w, s)
}

func (h *helpWriter) list(heading string, lines []string) {
	h.heading(heading)
	fmt.Fprint(h.w, tab+strings.Join(lines, "\n"+tab)+"\n\n")
}

func (h *helpWriter) paragraph(heading, body string) {
	h.heading(heading)
	fmt.Fprint(h.w, formatParagraph(strings.TrimSpace(body), tab, h.width))
}

func commands(spec *Spec, vflag bool) []string {
	var lines []string
	for _, child := range spec.children {
		name := child.Name
		if child.Hidden {
			if !vflag {
				continue
			}
			name = "[" + name + "]"
		}
		lines = append(lines, name+" - "+child.Short)
	}
	return lines
}

// buildOptions lists the flags of the last command in p followed by those
// of each of its ancestors under a "[command flags]" heading.
func buildOptions(p path, vflag bool) []string {
	options := p.last().options(vflag)
	if len(options) == 0 {
		options = []string{"no flags for this command"}
	}
	for k := len(p) - 2; k >= 0; k-- {
		if parent := p[k].options(vflag); len(parent) > 0 {
			options = append(options, "", "["+p[:k+1].pathname()+" flags]")
			options = append(options, parent...)
		}
	}
	return options
}

func displayHelp(p path, vflag bool) {
	spec := p.last().spec
	h := newHelpWriter(helpOutput)
	h.list("NAME", []string{spec.Name + " - " + spec.Short})
	h.paragraph("USAGE", spec.Usage)
	h.list("OPTIONS", buildOptions(p, vflag))
	if len(spec.children) > 0 {
		h.list("COMMANDS", commands(spec, vflag))
	}
	h.paragraph("DESCRIPTION", spec.Long)
}
