// Package reload watches the configuration file and applies the settings
// that can change without a restart. Only the log level qualifies today.
package reload

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	pkgconfig "github.com/starford/recallify/pkg/config"
)

// Debounce is how long the watcher waits after the last file event before
// re-reading the configuration. Editors often write a file in several steps.
const Debounce = 200 * time.Millisecond

type levelDocument struct {
	App struct {
		LogLevel *slog.Level `yaml:"log_level"`
	} `yaml:"app"`
}

// readLevel returns the log level declared in the config file at path.
// A file without app.log_level yields ok == false.
func readLevel(path string) (level slog.Level, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false, fmt.Errorf("read config %s: %w", path, err)
	}
	var doc levelDocument
	if err := pkgconfig.Decode(data, &doc); err != nil {
		return 0, false, fmt.Errorf("parse config %s: %w", path, err)
	}
	if doc.App.LogLevel == nil {
		return 0, false, nil
	}
	return *doc.App.LogLevel, true, nil
}

// WatchConfig watches the directory holding path and updates level whenever
// the file is written, created or renamed into place. It blocks until ctx
// is cancelled. Invalid files are logged and the current level is kept.
func WatchConfig(ctx context.Context, path string, level *slog.LevelVar, logger *slog.Logger) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory, not the file: atomic saves replace the inode.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info("config watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(Debounce)
			timerCh = timer.C
		} else {
			timer.Reset(Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("config watcher: stopped")
			return nil

		case <-timerCh:
			apply(abs, level, logger)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("config watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func apply(path string, level *slog.LevelVar, logger *slog.Logger) {
	next, ok, err := readLevel(path)
	if err != nil {
		logger.Warn("config watcher: reload failed", slog.String("error", err.Error()))
		return
	}
	if !ok || next == level.Level() {
		return
	}
	prev := level.Level()
	level.Set(next)
	logger.Info("config watcher: log level changed",
		slog.String("from", prev.String()),
		slog.String("to", next.String()))
}
