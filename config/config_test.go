package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/brimdata/zexpr/service/logger"
	"github.com/brimdata/zexpr/zqe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefault(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, "log(x)", c.Filter.Expression)
	assert.Equal(t, "calculated", c.Filter.Name)
	assert.False(t, c.Filter.Enable)
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`
filter:
  enable: true
  expression: a + b
  name: sum
batchsize: 10
log:
  level: debug
  mode: rotate
`))
	require.NoError(t, err)
	assert.True(t, c.Filter.Enable)
	assert.Equal(t, "a + b", c.Filter.Expression)
	assert.Equal(t, "sum", c.Filter.Name)
	assert.Equal(t, 1024, c.Filter.MaxVars)
	assert.Equal(t, 10, c.BatchSize)
	assert.Equal(t, zap.DebugLevel, c.Log.Level)
	assert.Equal(t, logger.FileModeRotate, c.Log.Mode)
	assert.Equal(t, "stderr", c.Log.Path)
}

func TestParseUnknownKey(t *testing.T) {
	_, err := Parse([]byte("filter:\n  expresion: x\n"))
	assert.True(t, zqe.IsInvalid(err))
	assert.ErrorContains(t, err, "expresion")
}

func TestValidateCollectsErrors(t *testing.T) {
	_, err := Parse([]byte(`
filter:
  name: ""
batchsize: 0
influx:
  token: t
`))
	require.Error(t, err)
	errs := multierr.Errors(err)
	assert.Len(t, errs, 4)
	for _, err := range errs {
		assert.True(t, zqe.IsInvalid(err), err.Error())
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zexpr.yaml")
	_, err := Load(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, os.WriteFile(path, []byte("batchsize: -1\n"), 0644))
	_, err = Load(path)
	assert.ErrorContains(t, err, path)
	assert.ErrorContains(t, err, "batchsize must be positive (got -1)")
}

func TestWatch(t *testing.T) {
	DebounceWindow = 10 * time.Millisecond
	dir := t.TempDir()
	path := filepath.Join(dir, "zexpr.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batchsize: 1\n"), 0644))

	core, logs := observer.New(zap.InfoLevel)
	var mu sync.Mutex
	var got []Config
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- Watch(ctx, path, zap.New(core), func(c Config) {
			mu.Lock()
			got = append(got, c)
			mu.Unlock()
		})
	}()
	last := func() (Config, bool) {
		mu.Lock()
		defer mu.Unlock()
		if len(got) == 0 {
			return Config{}, false
		}
		return got[len(got)-1], true
	}
	// The watcher may not be ready when the first write lands, so keep
	// rewriting until a reload is seen.
	require.Eventually(t, func() bool {
		require.NoError(t, os.WriteFile(path, []byte("batchsize: 7\n"), 0644))
		c, ok := last()
		return ok && c.BatchSize == 7
	}, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("batchsize: nope\n"), 0644))
	require.Eventually(t, func() bool {
		return logs.FilterMessage("Ignoring invalid configuration").Len() > 0
	}, 5*time.Second, 10*time.Millisecond)
	c, _ := last()
	assert.Equal(t, 7, c.BatchSize)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0644))
	cancel()
	assert.NoError(t, <-done)
}
