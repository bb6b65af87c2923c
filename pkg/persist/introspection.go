package persist

import (
	"time"

	"github.com/aretw0/introspection"
)

// FileState exposes internal state for observability.
type FileState struct {
	Path      string     `json:"path"`
	Format    string     `json:"format"`
	ReadOnly  bool       `json:"read_only"`
	Saves     uint64     `json:"saves"`
	Loads     uint64     `json:"loads"`
	Reloads   uint64     `json:"reloads"`
	Watching  bool       `json:"watching"`
	LastSave  *time.Time `json:"last_save,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (f *File) State() any {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := FileState{
		Path:     f.Path,
		Format:   string(f.format),
		ReadOnly: f.readOnly,
		Saves:    f.saves,
		Loads:    f.loads,
		Reloads:  f.reloads,
		Watching: f.watching,
		LastSave: f.lastSave,
	}
	if f.lastErr != nil {
		st.LastError = f.lastErr.Error()
	}
	return st
}

// ComponentType implements introspection.Component.
func (f *File) ComponentType() string {
	return "snapshot"
}

var _ introspection.Introspectable = (*File)(nil)
var _ introspection.Component = (*File)(nil)
