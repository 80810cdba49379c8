package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DebounceWindow is how long Watch waits after the last change to the
// file before reloading it.
var DebounceWindow = 100 * time.Millisecond

// Watch reloads the configuration in path whenever the file changes and
// passes each valid result to fn.  Invalid configurations are logged and
// otherwise ignored.  Watch returns when ctx is done.
//
// The directory containing path is watched rather than the file itself so
// that editors which replace the file on save are handled.
func Watch(ctx context.Context, path string, logger *zap.Logger, fn func(Config)) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	path = filepath.Clean(path)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}
	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(DebounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(DebounceWindow)
			}
		case <-timerC:
			timer, timerC = nil, nil
			c, err := Load(path)
			if err != nil {
				logger.Warn("Ignoring invalid configuration", zap.String("path", path), zap.Error(err))
				continue
			}
			logger.Info("Configuration reloaded", zap.String("path", path))
			fn(c)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Configuration watcher error", zap.Error(err))
		}
	}
}
