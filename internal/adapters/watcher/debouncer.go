package watcher

import (
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/dem/internal/core/domain"
)

// Debouncer collects manifest events and releases them as one batch once the
// window passes without a further event. Released batches that were not taken
// yet are merged, so a slow consumer sees every path exactly once.
type Debouncer struct {
	mu      sync.Mutex
	pending map[string]struct{}
	ready   map[string]struct{}
	timer   *time.Timer
	window  time.Duration
	notify  chan struct{}
}

// NewDebouncer creates a Debouncer with the given window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		pending: make(map[string]struct{}),
		ready:   make(map[string]struct{}),
		window:  window,
		notify:  make(chan struct{}, 1),
	}
}

// Observe records event if it writes, creates or renames a manifest file and
// reports whether it did. Recording restarts the window.
func (d *Debouncer) Observe(event fsnotify.Event) bool {
	if !isManifestEvent(event) {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending[event.Name] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.release)
	return true
}

// Ready is signalled when a batch can be taken.
func (d *Debouncer) Ready() <-chan struct{} {
	return d.notify
}

// Take returns the released manifest paths sorted and clears them.
func (d *Debouncer) Take() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	paths := make([]string, 0, len(d.ready))
	for p := range d.ready {
		paths = append(paths, p)
	}
	clear(d.ready)
	slices.Sort(paths)
	return paths
}

// Stop drops pending events and cancels the window.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	clear(d.pending)
}

func (d *Debouncer) release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.timer = nil
	if len(d.pending) == 0 {
		return
	}
	for p := range d.pending {
		d.ready[p] = struct{}{}
	}
	clear(d.pending)

	select {
	case d.notify <- struct{}{}:
	default:
	}
}

func isManifestEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	return slices.Contains(domain.ManifestFileNames(), filepath.Base(event.Name))
}
