// Package platform wires the store, its snapshot file, the backend gateway
// and the drop-folder watcher from CLI configuration.
package platform

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aretw0/assistant/internal/config"
	"github.com/aretw0/assistant/pkg/client"
	"github.com/aretw0/assistant/pkg/persist"
	"github.com/aretw0/assistant/pkg/store"
	"github.com/aretw0/assistant/pkg/watch"
)

// Instance is one opened product instance.
type Instance struct {
	Config  config.Config
	Store   *store.Store
	File    *persist.File
	Gateway *client.Gateway

	logger       *zap.Logger
	errorHandler func(error)
	detach       func()
}

// Open restores the configured product from its snapshot, or seeds it when
// no snapshot exists, and keeps the snapshot in sync with every transition
// unless the instance is read-only.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*Instance, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	sandbox := o.devSafety && !o.readOnly && IsDevRun()
	path := ResolveStatePath(cfg.State.Path, sandbox)
	logger := o.logger.With(zap.String("product", cfg.Product))
	if path != cfg.State.Path {
		logger.Warn("running in SAFE MODE (dev sandbox)", zap.String("original_path", cfg.State.Path), zap.String("resolved_path", path))
	}

	fileOpts := []persist.Option{
		persist.WithLogger(logger),
		persist.WithReadOnly(o.readOnly),
		persist.WithErrorHandler(o.errorHandler),
	}
	if cfg.State.Format != "" {
		format, err := persist.ParseFormat(cfg.State.Format)
		if err != nil {
			return nil, err
		}
		fileOpts = append(fileOpts, persist.WithFormat(format))
	}
	file := persist.NewFile(path, fileOpts...)

	s, err := persist.Restore(ctx, file, cfg.ProductSeed(), store.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	inst := &Instance{
		Config: cfg,
		Store:  s,
		File:   file,
		Gateway: client.New(s,
			client.WithLogger(logger),
			client.WithTransport(o.transport),
		),
		logger:       logger,
		errorHandler: o.errorHandler,
		detach:       func() {},
	}
	if !o.readOnly {
		inst.detach = file.Attach(s)
	}
	return inst, nil
}

// Save writes the current state to the snapshot file.
func (i *Instance) Save(ctx context.Context) error {
	return i.File.Save(ctx, i.Store.Current().Snapshot())
}

// Follow reloads external edits of the snapshot until ctx is done.
func (i *Instance) Follow(ctx context.Context) error {
	return i.File.Watch(ctx, i.Store)
}

// Watcher builds the drop-folder watcher described by the configuration,
// ingesting into the instance's gateway.
func (i *Instance) Watcher(extra ...watch.Option) (*watch.Watcher, error) {
	wc := i.Config.Watch
	if wc.Dir == "" {
		return nil, fmt.Errorf("watch.dir is not configured")
	}
	opts := []watch.Option{
		watch.WithPattern(wc.Pattern),
		watch.WithSchedule(wc.Schedule),
		watch.WithLogger(i.logger),
		watch.WithErrorHandler(i.errorHandler),
	}
	return watch.New(wc.Dir, watch.IngestInto(i.Gateway, wc.Collection), append(opts, extra...)...)
}

// Close stops persisting transitions.
func (i *Instance) Close() {
	i.detach()
}
