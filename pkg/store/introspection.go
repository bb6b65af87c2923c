package store

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Product     string         `json:"product"`
	Seq         uint64         `json:"seq"`
	DataMode    string         `json:"data_mode"`
	Collections map[string]int `json:"collections"`
	Observers   int            `json:"observers"`
	Subscribers int            `json:"subscribers"`
	Dropped     uint64         `json:"dropped_events"`
	EventBuffer int            `json:"event_buffer_size"`
}

// State implements introspection.Introspectable.
// Use Current for the application state itself.
func (s *Store) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return StoreState{
		Product:     s.product.Name,
		Seq:         s.seq,
		DataMode:    string(s.state.DataMode),
		Collections: s.state.Counts(),
		Observers:   len(s.observers),
		Subscribers: len(s.subs),
		Dropped:     s.dropped,
		EventBuffer: s.eventBuffer,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
