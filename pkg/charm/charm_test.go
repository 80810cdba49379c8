package charm

import (
	"bytes"
	"flag"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type root struct {
	verbose bool
}

func (*root) Run([]string) error { return ErrNoRun }

type greet struct {
	parent *root
	name   string
	ran    []string
}

func (g *greet) Run(args []string) error {
	g.ran = args
	return nil
}

func newTree(t *testing.T) (*Spec, **greet) {
	var last *greet
	top := &Spec{
		Name:  "top",
		Usage: "top [options] sub-command",
		Short: "test command",
		Long:  "A long description.",
		New: func(_ Command, fs *flag.FlagSet) (Command, error) {
			r := &root{}
			fs.BoolVar(&r.verbose, "v", false, "verbose")
			return r, nil
		},
	}
	top.Add(&Spec{
		Name:          "greet",
		Usage:         "greet [-name n] args",
		Short:         "say hello",
		RedactedFlags: "name",
		New: func(parent Command, fs *flag.FlagSet) (Command, error) {
			g := &greet{parent: parent.(*root)}
			fs.StringVar(&g.name, "name", "secret", "who to greet")
			last = g
			return g, nil
		},
	})
	top.Add(Help)
	return top, &last
}

func TestExecRoot(t *testing.T) {
	top, last := newTree(t)
	require.NoError(t, top.ExecRoot([]string{"-v", "greet", "-name", "bob", "a", "b"}))
	g := *last
	assert.True(t, g.parent.verbose)
	assert.Equal(t, "bob", g.name)
	assert.Equal(t, []string{"a", "b"}, g.ran)
}

func TestNoSubCommand(t *testing.T) {
	top, _ := newTree(t)
	err := top.ExecRoot(nil)
	assert.EqualError(t, err, `"top": requires a sub-command: greet help`)
	err = top.ExecRoot([]string{"bogus"})
	assert.EqualError(t, err, `"top": no such sub-command "bogus": options are: greet help`)
}

func TestBadFlag(t *testing.T) {
	top, _ := newTree(t)
	err := top.ExecRoot([]string{"greet", "-nope"})
	assert.EqualError(t, err, "flag provided but not defined: -nope")
}

func TestHelp(t *testing.T) {
	var buf bytes.Buffer
	defer func(w io.Writer) { helpOutput = w }(helpOutput)
	helpOutput = &buf

	top, _ := newTree(t)
	require.NoError(t, top.ExecRoot([]string{"help", "greet"}))
	out := buf.String()
	assert.Contains(t, out, "NAME\n    greet - say hello")
	assert.Contains(t, out, "-name who to greet\n")
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "[top flags]\n    -v verbose (default \"false\")")

	buf.Reset()
	require.NoError(t, top.ExecRoot([]string{"-h"}))
	assert.Contains(t, buf.String(), "COMMANDS\n    greet - say hello\n    help - display help for a command")

	assert.EqualError(t, top.ExecRoot([]string{"help", "x", "y"}), `no such command "x"`)
}

func TestFormatParagraph(t *testing.T) {
	out := formatParagraph(strings.Repeat("word ", 20), tab, 30)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		assert.LessOrEqual(t, len(strings.TrimSpace(line)), 30)
	}
}
