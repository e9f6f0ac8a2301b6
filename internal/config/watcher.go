package config

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a spec file and re-runs the registered callback on change.
type Watcher struct {
	path       string
	schemaPath string
	onReload   func(*Spec, error)
	current    *Spec
	mu         sync.RWMutex
	reloads    atomic.Uint32
}

// NewWatcher creates a spec watcher. The initial load must succeed.
func NewWatcher(path string, schemaPath string, onReload func(*Spec, error)) (*Watcher, error) {
	watcher := &Watcher{
		path:       path,
		schemaPath: schemaPath,
		onReload:   onReload,
	}

	spec, err := LoadAndValidate(path, schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial spec: %w", err)
	}
	watcher.current = spec

	go watcher.watch()

	return watcher, nil
}

// watch watches for spec file changes.
func (w *Watcher) watch() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Error("Failed to create file watcher", "error", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(w.path); err != nil {
		slog.Error("Failed to watch spec file", "path", w.path, "error", err)
		return
	}

	var timer *time.Timer
	const debounce = 500 * time.Millisecond

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Write == fsnotify.Write {
				if timer != nil {
					timer.Stop()
				}

				timer = time.AfterFunc(debounce, func() {
					w.reload()
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}

			slog.Error("Watcher error", "error", err)
		}
	}
}

// reload reloads the spec file.
func (w *Watcher) reload() {
	count := w.reloads.Add(1)
	slog.Info("Reloading spec file", "path", w.path, "count", count)

	spec, err := LoadAndValidate(w.path, w.schemaPath)
	if err != nil {
		slog.Error("Failed to reload spec", "error", err)
		w.onReload(nil, err)
		return
	}

	w.mu.Lock()
	w.current = spec
	w.mu.Unlock()

	slog.Info("Spec reloaded successfully", "count", count)
	w.onReload(spec, nil)
}

// Snapshot returns the current spec snapshot (thread-safe).
func (w *Watcher) Snapshot() *Spec {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.current
}

// ReloadCount returns the number of times the spec has been reloaded.
func (w *Watcher) ReloadCount() uint32 {
	return w.reloads.Load()
}
