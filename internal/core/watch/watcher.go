package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/agentlens/agentlens/internal/core/model"
	"github.com/agentlens/agentlens/internal/util"
)

// debounceInterval batches bursts of writes to the same log file into a
// single notification.
const debounceInterval = 500 * time.Millisecond

// PathResolver maps a scope to its backing log file path, or "" if no
// such file exists.
type PathResolver interface {
	ScopePath(scope model.Scope) string
}

// Watcher owns one filesystem watcher per watched scope and publishes
// debounced change notifications to the bus. Watch is idempotent;
// Unwatch is best-effort.
type Watcher struct {
	resolver PathResolver
	bus      *Bus

	mu      sync.Mutex
	entries map[string]*watchEntry
}

type watchEntry struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

// NewWatcher creates a Watcher publishing to the given bus.
func NewWatcher(resolver PathResolver, bus *Bus) *Watcher {
	return &Watcher{
		resolver: resolver,
		bus:      bus,
		entries:  make(map[string]*watchEntry),
	}
}

// Watch starts watching the log file behind a scope. Watching an
// already-watched scope is a no-op.
func (w *Watcher) Watch(scope model.Scope) error {
	key := scope.Key()

	w.mu.Lock()
	if _, ok := w.entries[key]; ok {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	path := w.resolver.ScopePath(scope)
	if path == "" {
		return &ScopeNotFoundError{Scope: scope}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory, not the file: appends arrive as writes to the
	// file but the file can also be replaced.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return err
	}

	entry := &watchEntry{fsw: fsw, done: make(chan struct{})}

	w.mu.Lock()
	if _, ok := w.entries[key]; ok {
		// Lost the race with a concurrent Watch for the same scope
		w.mu.Unlock()
		fsw.Close()
		return nil
	}
	w.entries[key] = entry
	w.mu.Unlock()

	go w.loop(scope, path, entry)
	util.LogDebugf("Watching %s (%s)", key, path)
	return nil
}

// Unwatch stops watching a scope. Errors are logged, never surfaced.
func (w *Watcher) Unwatch(scope model.Scope) {
	key := scope.Key()

	w.mu.Lock()
	entry, ok := w.entries[key]
	if ok {
		delete(w.entries, key)
	}
	w.mu.Unlock()

	if !ok {
		return
	}
	close(entry.done)
	if err := entry.fsw.Close(); err != nil {
		util.LogWarnf("Failed to close watcher for %s: %v", key, err)
	}
}

// Close tears down all active watchers.
func (w *Watcher) Close() {
	w.mu.Lock()
	entries := w.entries
	w.entries = make(map[string]*watchEntry)
	w.mu.Unlock()

	for key, entry := range entries {
		close(entry.done)
		if err := entry.fsw.Close(); err != nil {
			util.LogWarnf("Failed to close watcher for %s: %v", key, err)
		}
	}
}

func (w *Watcher) loop(scope model.Scope, path string, entry *watchEntry) {
	var timer *time.Timer
	base := filepath.Base(path)
	for {
		select {
		case <-entry.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-entry.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// Debounce: reset the timer on each write
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceInterval, func() {
				w.bus.Publish(scope)
			})
		case err, ok := <-entry.fsw.Errors:
			if !ok {
				return
			}
			util.LogErrorf("Watch error for %s: %v", scope.Key(), err)
		}
	}
}

// ScopeNotFoundError reports a watch request for a scope whose log file
// does not exist.
type ScopeNotFoundError struct {
	Scope model.Scope
}

func (e *ScopeNotFoundError) Error() string {
	return "no log file for " + e.Scope.Key()
}
