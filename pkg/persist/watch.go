package persist

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/aretw0/assistant/internal/debounce"
	"github.com/aretw0/assistant/pkg/store"
)

// Watch reloads the snapshot into s whenever another writer replaces it.
//
// Writes made by this File are recognized and skipped. A rewritten snapshot
// that fails validation is logged and ignored, so s keeps its last valid
// state. Watching stops when ctx is done.
func (f *File) Watch(ctx context.Context, s *store.Store) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	// Atomic saves replace the file, so the directory is watched.
	dir := filepath.Dir(f.Path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	f.setWatching(true)
	d := debounce.New(f.debounce)
	target := filepath.Clean(f.Path)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer f.setWatching(false)
		defer watcher.Close()
		defer d.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				d.Trigger(func() { f.reload(ctx, s) })

			case wErr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				f.logger.Error("fsnotify error", zap.Error(wErr))
				f.handle(wErr)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		f.logger.Error("snapshot watcher panic", zap.Error(err))
		f.handle(fmt.Errorf("snapshot watcher panic: %w", err))
	}))
	return nil
}

func (f *File) reload(ctx context.Context, s *store.Store) {
	if ctx.Err() != nil {
		return
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		f.logger.Debug("snapshot vanished before reload", zap.Error(err))
		return
	}
	if f.isOwnWrite(data) {
		return
	}

	snap, err := f.decode(data)
	if err != nil {
		f.recordErr(err)
		f.logger.Error("external snapshot rejected", zap.Error(err))
		f.handle(err)
		return
	}

	f.mu.Lock()
	f.reloads++
	f.mu.Unlock()

	f.logger.Info("snapshot changed on disk, reloading")
	s.Dispatch(store.LoadState{Snapshot: snap})
}

func (f *File) setWatching(active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.watching = active
}
