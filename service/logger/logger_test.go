package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func TestFileModeSet(t *testing.T) {
	var m FileMode
	require.NoError(t, m.Set("rotate"))
	assert.Equal(t, FileModeRotate, m)
	require.NoError(t, m.Set(""))
	assert.Equal(t, FileModeAppend, m)
	assert.EqualError(t, m.Set("bogus"), "invalid log file mode: bogus")
}

func TestRotationYAML(t *testing.T) {
	var c Config
	require.NoError(t, yaml.Unmarshal([]byte("mode: rotate\nrotate:\n  maxsize: 1536KiB\n  maxbackups: 2\n"), &c))
	assert.Equal(t, Size(1536*1024), c.Rotate.MaxSize)
	assert.Equal(t, 2, c.Rotate.MaxBackups)
	assert.Equal(t, 2, c.Rotate.MaxSize.megabytes())
	assert.Error(t, yaml.Unmarshal([]byte("rotate:\n  maxsize: lots\n"), &c))
}

func TestConfigYAML(t *testing.T) {
	var c Config
	require.NoError(t, yaml.Unmarshal([]byte("path: /tmp/x.log\nmode: truncate\nlevel: debug\n"), &c))
	assert.Equal(t, Config{Path: "/tmp/x.log", Mode: FileModeTruncate, Level: zap.DebugLevel}, c)
}

func readLines(t *testing.T, path string) []map[string]interface{} {
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(string(b)), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestNewWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zexpr.log")
	l, err := New(Config{Path: path, Mode: FileModeTruncate, Level: zap.InfoLevel})
	require.NoError(t, err)
	l.Named("filter").Info("hello", zap.Int("n", 1))
	l.Debug("dropped")
	require.NoError(t, l.Sync())
	lines := readLines(t, path)
	require.Len(t, lines, 1)
	assert.Equal(t, "hello", lines[0]["msg"])
	assert.Equal(t, "filter", lines[0]["logger"])
	assert.EqualValues(t, 1, lines[0]["n"])
}

func TestNameFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zexpr.log")
	l, err := New(Config{Path: path, Level: zap.InfoLevel, Name: "filter"})
	require.NoError(t, err)
	l.Named("filter").Info("kept")
	l.Named("service").Info("dropped")
	l.Named("filter").With(zap.String("k", "v")).Info("kept too")
	require.NoError(t, l.Sync())
	lines := readLines(t, path)
	require.Len(t, lines, 2)
	assert.Equal(t, "kept", lines[0]["msg"])
	assert.Equal(t, "v", lines[1]["k"])
}

func TestOpenFileMissingDir(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "no", "such", "x.log"), FileModeRotate, DefaultRotation())
	assert.Error(t, err)
}
