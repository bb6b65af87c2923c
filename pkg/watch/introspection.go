package watch

import (
	"time"

	"github.com/aretw0/introspection"
)

// WatcherState exposes internal state for observability.
type WatcherState struct {
	Dir      string    `json:"dir"`
	Pattern  string    `json:"pattern"`
	Schedule string    `json:"schedule,omitempty"`
	Running  bool      `json:"running"`
	Tracked  int       `json:"tracked_files"`
	Calls    uint64    `json:"handler_calls"`
	Failures uint64    `json:"handler_failures"`
	Scans    uint64    `json:"scans"`
	LastScan time.Time `json:"last_scan,omitzero"`
}

// State implements introspection.Introspectable.
func (w *Watcher) State() any {
	w.mu.Lock()
	defer w.mu.Unlock()
	return WatcherState{
		Dir:      w.dir,
		Pattern:  w.opts.pattern,
		Schedule: w.opts.schedule,
		Running:  w.running,
		Tracked:  len(w.handled),
		Calls:    w.calls,
		Failures: w.failures,
		Scans:    w.scans,
		LastScan: w.lastScan,
	}
}

// ComponentType implements introspection.Component.
func (w *Watcher) ComponentType() string {
	return "folder-watcher"
}

var _ introspection.Introspectable = (*Watcher)(nil)
var _ introspection.Component = (*Watcher)(nil)
