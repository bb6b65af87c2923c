package platform

import (
	"go.uber.org/zap"

	"github.com/aretw0/assistant/pkg/client"
)

type options struct {
	logger       *zap.Logger
	transport    client.Transport
	readOnly     bool
	devSafety    bool
	errorHandler func(error)
}

// Option configures Open.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger:    zap.NewNop(),
		devSafety: true,
	}
}

// WithLogger sets the logger shared by every component.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTransport sets the live-mode transport of the gateway.
func WithTransport(t client.Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithReadOnly opens the snapshot without ever writing it.
// Read-only instances bypass the dev sandbox since they cannot damage the file.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithDevSafety controls the sandbox applied under `go run` and `go test`:
// when enabled (the default), the snapshot path is re-rooted into a
// temporary directory so development runs never touch real state.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithErrorHandler receives background persistence and watcher errors.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
