// SPDX-License-Identifier: MIT

// Package watch re-runs the linter whenever a watched file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/ManuGH/conflint/internal/lint"
	xlog "github.com/ManuGH/conflint/internal/log"
)

// RunFunc is invoked after the debounce window when watched files changed.
type RunFunc func(ctx context.Context) error

// Watcher observes a set of lint targets and triggers re-runs on change.
type Watcher struct {
	targets  map[string]struct{}
	debounce time.Duration
	run      RunFunc
	watcher  *fsnotify.Watcher
	logger   zerolog.Logger
}

// New creates a watcher for the given targets. The run callback is executed
// once per debounce window, no matter how many events arrive within it.
func New(targets []lint.Target, debounce time.Duration, run RunFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		targets:  make(map[string]struct{}, len(targets)),
		debounce: debounce,
		run:      run,
		watcher:  fsw,
		logger:   xlog.WithComponent("watch"),
	}

	// Watch parent directories rather than the files themselves so
	// rename-based saves (vim, atomic writers) keep being observed.
	dirs := make(map[string]struct{})
	for _, t := range targets {
		abs, err := filepath.Abs(t.Path)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", t.Path, err)
		}
		w.targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	return w, nil
}

// Run blocks until ctx is cancelled, re-running the linter on changes.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		_ = w.watcher.Close()
	}()

	w.logger.Info().
		Str("event", "watch.started").
		Int("targets", len(w.targets)).
		Dur("debounce", w.debounce).
		Msg("watching files for changes")

	// Debounce timer to avoid multiple runs for rapid file changes
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str("event", "watch.stopped").Msg("watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}

			w.logger.Debug().
				Str("event", "watch.file_changed").
				Str("path", event.Name).
				Str("op", event.Op.String()).
				Msg("watched file changed")

			// Debounce: reset timer on each event
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				if err := w.run(ctx); err != nil {
					w.logger.Error().
						Err(err).
						Str("event", "watch.run_failed").
						Msg("lint run failed")
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().
				Err(err).
				Str("event", "watch.error").
				Msg("watcher error")
		}
	}
}

// relevant reports whether the event concerns a watched target with an
// operation that changes its content.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := w.targets[abs]
	return ok
}
