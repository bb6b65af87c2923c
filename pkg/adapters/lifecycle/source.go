// Package lifecycle exposes store changes as a lifecycle event source.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/assistant/pkg/store"
)

type changeSource struct {
	changes <-chan store.Change
	out     chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits store changes.
// Typically changes comes from store.Subscribe.
func NewSource(changes <-chan store.Change) lifecycle.Source {
	return &changeSource{
		changes: changes,
		out:     make(chan lifecycle.Event),
	}
}

func (s *changeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *changeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case c, ok := <-s.changes:
				if !ok {
					return nil
				}
				// store.Change implements lifecycle.Event.
				select {
				case s.out <- c:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
