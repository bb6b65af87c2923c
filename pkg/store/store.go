// Package store is the single legal path to change application state.
//
// Reduce is the pure transition function. Store wraps it for one product
// instance: it owns the current State, serializes Dispatch calls in arrival
// order, and notifies observers and subscribers after each transition.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"go.uber.org/zap"
)

// Change describes one applied transition.
type Change struct {
	Seq    uint64
	Action Action
	Prev   State
	Next   State
	At     time.Time
}

// String implements lifecycle.Event.
func (c Change) String() string {
	return fmt.Sprintf("#%d %s", c.Seq, c.Action.Type())
}

// Store holds the state of one product instance.
// It is safe for concurrent use; transitions never interleave.
type Store struct {
	mu        sync.Mutex
	product   Product
	state     State
	seq       uint64
	observers map[uint64]func(Change)
	subs      map[uint64]chan Change
	nextID    uint64
	dropped   uint64

	logger      *zap.Logger
	eventBuffer int
	clock       func() time.Time
}

// New creates a store for product p, seeded from p unless WithInitialState is given.
func New(p Product, opts ...Option) *Store {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	initial := p.InitialState()
	if o.initial != nil {
		initial = *o.initial
	}

	return &Store{
		product:     p,
		state:       initial,
		observers:   make(map[uint64]func(Change)),
		subs:        make(map[uint64]chan Change),
		logger:      o.logger.With(zap.String("product", p.Name)),
		eventBuffer: o.eventBuffer,
		clock:       o.clock,
	}
}

// Product returns the product this store was created for.
func (s *Store) Product() Product {
	return s.product
}

// Current returns the current state.
func (s *Store) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies a and returns the resulting state.
//
// Observers run synchronously before Dispatch returns and must not call
// Dispatch themselves. Subscribers receive the change without blocking the
// store; a subscriber whose buffer is full misses it.
func (s *Store) Dispatch(a Action) State {
	if a == nil {
		return s.Current()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	next := Reduce(prev, a)
	s.state = next
	s.seq++

	change := Change{
		Seq:    s.seq,
		Action: a,
		Prev:   prev,
		Next:   next,
		At:     s.clock(),
	}
	s.logger.Debug("dispatch", zap.String("action", string(a.Type())), zap.Uint64("seq", s.seq))

	for _, fn := range s.observers {
		fn(change)
	}
	for id, ch := range s.subs {
		select {
		case ch <- change:
		default:
			s.dropped++
			s.logger.Warn("subscriber buffer full, change dropped",
				zap.Uint64("subscriber", id),
				zap.Uint64("seq", change.Seq),
			)
		}
	}
	return next
}

// DispatchAll applies actions in order and returns the final state.
func (s *Store) DispatchAll(actions ...Action) State {
	state := s.Current()
	for _, a := range actions {
		state = s.Dispatch(a)
	}
	return state
}

// Observe registers fn to run after every transition.
// The returned function removes it.
func (s *Store) Observe(fn func(Change)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Subscribe streams changes until ctx is done, then closes the channel.
func (s *Store) Subscribe(ctx context.Context) <-chan Change {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	ch := make(chan Change, s.eventBuffer)
	s.subs[id] = ch
	s.mu.Unlock()

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
		close(ch)
		return nil
	})
	return ch
}

// Seq returns the number of transitions applied so far.
func (s *Store) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}
