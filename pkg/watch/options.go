package watch

import (
	"time"

	"go.uber.org/zap"
)

type options struct {
	pattern      string
	schedule     string
	debounce     time.Duration
	logger       *zap.Logger
	errorHandler func(error)
	initialScan  bool
}

// Option configures a Watcher.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		pattern:  "**/*",
		debounce: 100 * time.Millisecond,
		logger:   zap.NewNop(),
	}
}

// WithPattern restricts handled files to a doublestar glob relative to the
// watched directory, such as "**/*.{md,txt,pdf}".
func WithPattern(pattern string) Option {
	return func(o *options) {
		if pattern != "" {
			o.pattern = pattern
		}
	}
}

// WithSchedule adds periodic rescans on a standard five-field cron spec.
func WithSchedule(spec string) Option {
	return func(o *options) {
		o.schedule = spec
	}
}

// WithDebounce sets how long a file must stay quiet before it is handled.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithLogger sets the logger for the watcher.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithErrorHandler receives handler failures and watcher errors.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithInitialScan handles files already present when the watcher starts.
func WithInitialScan(enabled bool) Option {
	return func(o *options) {
		o.initialScan = enabled
	}
}
