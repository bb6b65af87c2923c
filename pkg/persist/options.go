package persist

import (
	"time"

	"go.uber.org/zap"
)

type options struct {
	logger       *zap.Logger
	format       Format
	readOnly     bool
	debounce     time.Duration
	errorHandler func(error)
}

// Option configures a File.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger:   zap.NewNop(),
		debounce: 50 * time.Millisecond,
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithFormat overrides the format inferred from the file extension.
func WithFormat(f Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithReadOnly makes Save return ErrReadOnly. Load and Watch still work.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithDebounce sets how long the watcher waits for writes to settle.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithErrorHandler receives save and reload failures that happen outside a
// direct call, such as from an attached store or the watcher.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
