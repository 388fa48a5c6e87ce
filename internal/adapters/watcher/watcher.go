// Package watcher reports edits to a project's manifest using fsnotify.
package watcher

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/dem/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultDebounceWindow is the default time window for coalescing manifest events.
const DefaultDebounceWindow = 200 * time.Millisecond

var _ ports.Watcher = (*Watcher)(nil)

// Watcher implements ports.Watcher.
type Watcher struct {
	logger ports.Logger
	window time.Duration
}

// NewWatcher creates a Watcher that coalesces events within window.
func NewWatcher(logger ports.Logger, window time.Duration) *Watcher {
	return &Watcher{logger: logger, window: window}
}

// Watch watches the manifest files in root. Editors often replace files by
// renaming, so the directory is watched rather than the files themselves.
func (w *Watcher) Watch(ctx context.Context, root string) (<-chan []string, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create file watcher")
	}
	if err := fsw.Add(root); err != nil {
		_ = fsw.Close()
		return nil, zerr.With(zerr.Wrap(err, "failed to watch project root"), "dir", root)
	}

	out := make(chan []string)
	debouncer := NewDebouncer(w.window)

	go func() {
		defer close(out)
		defer fsw.Close() //nolint:errcheck // shutting down
		defer debouncer.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				debouncer.Observe(event)

			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				w.logger.Warn("file watcher: " + err.Error())

			case <-debouncer.Ready():
				paths := debouncer.Take()
				if len(paths) == 0 {
					continue
				}
				select {
				case out <- paths:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
