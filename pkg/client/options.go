package client

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type options struct {
	logger   *zap.Logger
	live     Transport
	fixtures Transport
	clock    func() time.Time
	newID    func() string
}

// Option configures a Gateway.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger:   zap.NewNop(),
		fixtures: NewFixtureTransport(),
		clock:    time.Now,
		newID:    uuid.NewString,
	}
}

// WithLogger sets the logger for the gateway.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTransport sets the transport used in live data mode.
func WithTransport(t Transport) Option {
	return func(o *options) {
		o.live = t
	}
}

// WithFixtures replaces the transport used in mock data mode.
func WithFixtures(t Transport) Option {
	return func(o *options) {
		if t != nil {
			o.fixtures = t
		}
	}
}

// WithClock replaces time.Now for timestamps the gateway assigns.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithIDGenerator replaces uuid.NewString for client-assigned ids.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}
