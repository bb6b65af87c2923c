// Package watch turns a local drop folder into ingest calls.
//
// A Watcher reacts to files created or rewritten under its directory and can
// rescan it on a cron schedule. Each file is handed to the Handler once per
// modification; rescans skip files whose modification time is unchanged.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aretw0/assistant/internal/debounce"
	"github.com/aretw0/assistant/pkg/contract"
)

// Handler processes one file. path is absolute.
type Handler func(ctx context.Context, path string) error

// ErrAlreadyStarted is returned by a second Start.
var ErrAlreadyStarted = errors.New("watcher already started")

// Watcher feeds files dropped into a directory to a Handler.
type Watcher struct {
	dir     string
	handler Handler
	opts    *options
	logger  *zap.Logger

	mu       sync.Mutex
	started  bool
	running  bool
	handled  map[string]time.Time
	calls    uint64
	failures uint64
	scans    uint64
	lastScan time.Time
}

// New returns a watcher over dir. Start must be called to begin watching.
func New(dir string, handler Handler, opts ...Option) (*Watcher, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if !doublestar.ValidatePattern(o.pattern) {
		return nil, fmt.Errorf("invalid pattern %q", o.pattern)
	}
	if o.schedule != "" {
		if err := contract.ValidSchedule(o.schedule); err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	return &Watcher{
		dir:     abs,
		handler: handler,
		opts:    o,
		logger:  o.logger.With(zap.String("dir", abs)),
		handled: make(map[string]time.Time),
	}, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Start begins watching. It returns once the watch is registered; events are
// handled in the background until ctx is done.
// A Start that fails can be retried.
func (w *Watcher) Start(ctx context.Context) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return ErrAlreadyStarted
	}
	w.started = true
	w.mu.Unlock()
	defer func() {
		if err != nil {
			w.mu.Lock()
			w.started = false
			w.mu.Unlock()
		}
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := addRecursive(watcher, w.dir); err != nil {
		_ = watcher.Close()
		return err
	}

	var scheduler *cron.Cron
	if w.opts.schedule != "" {
		scheduler = cron.New()
		if _, err := scheduler.AddFunc(w.opts.schedule, func() { w.rescan(ctx) }); err != nil {
			_ = watcher.Close()
			return fmt.Errorf("schedule %q: %w", w.opts.schedule, err)
		}
		scheduler.Start()
	}

	if w.opts.initialScan {
		w.rescan(ctx)
	}

	w.setRunning(true)
	d := debounce.NewKeyed(w.opts.debounce)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer w.setRunning(false)
		defer watcher.Close()
		defer d.Stop()
		if scheduler != nil {
			defer func() { <-scheduler.Stop().Done() }()
		}

		for {
			select {
			case <-ctx.Done():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				w.onEvent(ctx, watcher, d, event)

			case wErr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				w.logger.Error("fsnotify error", zap.Error(wErr))
				w.report(wErr)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		w.logger.Error("folder watcher panic", zap.Error(err))
		w.report(fmt.Errorf("folder watcher panic: %w", err))
	}))
	return nil
}

func (w *Watcher) onEvent(ctx context.Context, watcher *fsnotify.Watcher, d *debounce.Keyed, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := addRecursive(watcher, event.Name); err != nil {
				w.logger.Warn("cannot watch new directory", zap.String("path", event.Name), zap.Error(err))
			}
			// Files may land before the watch is registered.
			w.rescan(ctx)
		}
		return
	}
	if !w.matches(event.Name) {
		return
	}
	path := event.Name
	d.Trigger(path, func() { w.handle(ctx, path) })
}

// Scan handles every matching file changed since it was last handled and
// returns how many were handed to the Handler.
func (w *Watcher) Scan(ctx context.Context) (int, error) {
	matches, err := doublestar.Glob(os.DirFS(w.dir), w.opts.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", w.dir, err)
	}

	w.mu.Lock()
	w.scans++
	w.lastScan = time.Now()
	w.mu.Unlock()

	n := 0
	for _, rel := range matches {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if w.handle(ctx, filepath.Join(w.dir, filepath.FromSlash(rel))) {
			n++
		}
	}
	return n, nil
}

func (w *Watcher) rescan(ctx context.Context) {
	n, err := w.Scan(ctx)
	if err != nil && ctx.Err() == nil {
		w.logger.Error("rescan failed", zap.Error(err))
		w.report(err)
		return
	}
	w.logger.Debug("rescan finished", zap.Int("handled", n))
}

// handle runs the Handler unless path is unchanged since its last success.
func (w *Watcher) handle(ctx context.Context, path string) bool {
	if ctx.Err() != nil {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	w.mu.Lock()
	last, seen := w.handled[path]
	if seen && last.Equal(info.ModTime()) {
		w.mu.Unlock()
		return false
	}
	w.handled[path] = info.ModTime()
	w.calls++
	w.mu.Unlock()

	logger := w.logger.With(zap.String("path", path))
	if err := w.handler(ctx, path); err != nil {
		w.mu.Lock()
		w.failures++
		delete(w.handled, path)
		w.mu.Unlock()
		logger.Warn("handler failed", zap.Error(err))
		w.report(err)
		return true
	}
	logger.Info("file handled")
	return true
}

func (w *Watcher) matches(path string) bool {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		return false
	}
	ok, err := doublestar.Match(w.opts.pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

func (w *Watcher) report(err error) {
	if w.opts.errorHandler != nil {
		w.opts.errorHandler(err)
	}
}

func (w *Watcher) setRunning(active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.running = active
}

// addRecursive watches root and every directory below it.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
