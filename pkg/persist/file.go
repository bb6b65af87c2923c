// Package persist keeps a product's state in a snapshot file.
//
// Persistence observes the store from outside: File.Attach saves a snapshot
// after every transition, Restore replays a saved snapshot through LOAD_STATE,
// and File.Watch reloads the snapshot when another process rewrites it. Every
// snapshot read from disk is validated against the "state.snapshot" contract
// before it reaches the store.
package persist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aretw0/assistant/pkg/contract"
	"github.com/aretw0/assistant/pkg/core"
	"github.com/aretw0/assistant/pkg/store"
)

// Common errors.
var (
	ErrReadOnly = errors.New("snapshot file is in read-only mode")
)

// File is a snapshot file on disk.
type File struct {
	Path string

	format       Format
	readOnly     bool
	debounce     time.Duration
	logger       *zap.Logger
	errorHandler func(error)

	mu        sync.Mutex
	lastWrite []byte
	saves     uint64
	loads     uint64
	reloads   uint64
	lastSave  *time.Time
	lastErr   error
	watching  bool
}

// NewFile returns a handle for the snapshot at path. Nothing is read yet.
func NewFile(path string, opts ...Option) *File {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	format := o.format
	if format == "" {
		format = FormatFor(path)
	}
	return &File{
		Path:         path,
		format:       format,
		readOnly:     o.readOnly,
		debounce:     o.debounce,
		logger:       o.logger.With(zap.String("snapshot", path)),
		errorHandler: o.errorHandler,
	}
}

// Format returns the encoding used on disk.
func (f *File) Format() Format {
	return f.format
}

// Exists reports whether the snapshot file is present.
func (f *File) Exists() bool {
	_, err := os.Stat(f.Path)
	return err == nil
}

// Load reads and validates the snapshot.
// A missing file yields an error matching fs.ErrNotExist.
func (f *File) Load(ctx context.Context) (core.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return core.Snapshot{}, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	snap, err := f.decode(data)
	if err != nil {
		f.recordErr(err)
		return core.Snapshot{}, err
	}

	f.mu.Lock()
	f.loads++
	f.mu.Unlock()
	return snap, nil
}

func (f *File) decode(data []byte) (core.Snapshot, error) {
	raw, err := toJSON(f.format, data)
	if err != nil {
		return core.Snapshot{}, err
	}
	return contract.DecodeInto[core.Snapshot]("state.snapshot", raw)
}

// Save validates snap and writes it atomically.
func (f *File) Save(ctx context.Context, snap core.Snapshot) error {
	if f.readOnly {
		return ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := contract.Encode("state.snapshot", snap)
	if err != nil {
		return err
	}
	data, err := fromJSON(f.format, raw)
	if err != nil {
		return fmt.Errorf("encode snapshot as %s: %w", f.format, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := writeFileAtomic(f.Path, data, 0o644); err != nil {
		f.lastErr = err
		return err
	}
	now := time.Now()
	f.lastWrite = data
	f.lastSave = &now
	f.saves++
	f.lastErr = nil
	return nil
}

// Attach saves a snapshot after every transition of s.
// Save failures are logged and passed to the error handler; they never
// affect the store. The returned function detaches.
func (f *File) Attach(s *store.Store) (detach func()) {
	return s.Observe(func(c store.Change) {
		if err := f.Save(context.Background(), c.Next.Snapshot()); err != nil {
			f.logger.Error("snapshot save failed", zap.Uint64("seq", c.Seq), zap.Error(err))
			f.handle(err)
		}
	})
}

// Restore creates a store for p and, when the snapshot exists, loads it by
// dispatching LOAD_STATE. A missing snapshot leaves the seeded state.
func Restore(ctx context.Context, f *File, p store.Product, opts ...store.Option) (*store.Store, error) {
	s := store.New(p, opts...)

	snap, err := f.Load(ctx)
	if errors.Is(err, fs.ErrNotExist) {
		f.logger.Debug("no snapshot, starting from seed", zap.String("product", p.Name))
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	s.Dispatch(store.LoadState{Snapshot: snap})
	return s, nil
}

func (f *File) isOwnWrite(data []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastWrite != nil && bytes.Equal(f.lastWrite, data)
}

func (f *File) recordErr(err error) {
	f.mu.Lock()
	f.lastErr = err
	f.mu.Unlock()
}

func (f *File) handle(err error) {
	if f.errorHandler != nil {
		f.errorHandler(err)
	}
}
