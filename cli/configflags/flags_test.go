package configflags

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/brimdata/zexpr/zqe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) *Flags {
	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	return &f
}

func TestDefaults(t *testing.T) {
	c, err := parse(t).Load()
	require.NoError(t, err)
	assert.True(t, c.Filter.Enable)
	assert.Equal(t, "log(x)", c.Filter.Expression)
	assert.Equal(t, "calculated", c.Filter.Name)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("filter:\n  expression: a\n  name: n\n  maxvars: 8\nbatchsize: 5\n"), 0644))

	c, err := parse(t, "-c", path).Load()
	require.NoError(t, err)
	assert.False(t, c.Filter.Enable)
	assert.Equal(t, "a", c.Filter.Expression)
	assert.Equal(t, 8, c.Filter.MaxVars)
	assert.Equal(t, 5, c.BatchSize)

	c, err = parse(t, "-c", path, "-e", "b * 2", "-batch", "50").Load()
	require.NoError(t, err)
	assert.True(t, c.Filter.Enable)
	assert.Equal(t, "b * 2", c.Filter.Expression)
	assert.Equal(t, "n", c.Filter.Name)
	assert.Equal(t, 8, c.Filter.MaxVars)
	assert.Equal(t, 50, c.BatchSize)
}

func TestInvalid(t *testing.T) {
	_, err := parse(t, "-maxvars", "1").Load()
	assert.True(t, zqe.IsInvalid(err))
	assert.True(t, zqe.IsInvalid(parse(t, "-watch").Init()))
}
