package cli

import (
	"errors"
	"flag"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type initFunc func() error

func (f initFunc) Init() error { return f() }

func TestInitCollectsErrors(t *testing.T) {
	var f Flags
	f.SetFlags(flag.NewFlagSet("test", flag.ContinueOnError))
	fail := initFunc(func() error { return errors.New("bad flag") })
	ok := initFunc(func() error { return nil })
	_, _, err := f.Init(fail, ok, fail)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
}

func TestInterruptedContext(t *testing.T) {
	var f Flags
	ctx, cleanup, err := f.InitWithSignals(nil, syscall.SIGUSR1)
	require.NoError(t, err)
	assert.NoError(t, ctx.Err())
	cleanup()
	<-ctx.Done()
	assert.EqualError(t, ctx.Err(), "interrupted")
}

func TestVersion(t *testing.T) {
	defer func(v string) { version = v }(version)
	version = "v9.9.9"
	assert.Equal(t, "v9.9.9", Version())
}
