package store

import (
	"time"

	"go.uber.org/zap"
)

// options holds the configuration of a Store.
type options struct {
	logger      *zap.Logger
	eventBuffer int
	clock       func() time.Time
	initial     *State
}

// Option configures a Store.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger:      zap.NewNop(),
		eventBuffer: 100,
		clock:       time.Now,
	}
}

// WithLogger sets the logger for the store.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEventBuffer sets the per-subscriber channel size.
// Zero or negative means the default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.eventBuffer = size
		}
	}
}

// WithClock replaces time.Now for change timestamps (useful for testing).
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithInitialState starts the store from s instead of the product seed,
// typically a restored snapshot.
func WithInitialState(s State) Option {
	return func(o *options) {
		o.initial = &s
	}
}
