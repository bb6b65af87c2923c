package assistant

import (
	"context"

	"go.uber.org/zap"

	"github.com/aretw0/assistant/pkg/contract"
	"github.com/aretw0/assistant/pkg/persist"
	"github.com/aretw0/assistant/pkg/store"
)

// --- Types ---

// Store holds the state of one product instance.
type Store = store.Store

// State is the canonical application state.
type State = store.State

// Action is a request to change state.
type Action = store.Action

// Change describes one applied transition.
type Change = store.Change

// Product parametrizes a store instance.
type Product = store.Product

// SchemaViolation is returned when a payload does not match its schema.
type SchemaViolation = contract.SchemaViolation

// Actions.
type (
	AddFile            = store.AddFile
	UpdateFile         = store.UpdateFile
	DeleteFile         = store.DeleteFile
	AddTopic           = store.AddTopic
	UpdateTopic        = store.UpdateTopic
	DeleteTopic        = store.DeleteTopic
	AddBehaviorRule    = store.AddBehaviorRule
	UpdateBehaviorRule = store.UpdateBehaviorRule
	DeleteBehaviorRule = store.DeleteBehaviorRule
	AddChatThread      = store.AddChatThread
	UpdateChatThread   = store.UpdateChatThread
	DeleteChatThread   = store.DeleteChatThread
	SetChatThreads     = store.SetChatThreads
	SetProjects        = store.SetProjects
	SetMeetings        = store.SetMeetings
	SetEmails          = store.SetEmails
	SetDigest          = store.SetDigest
	LoadState          = store.LoadState
	SetDataMode        = store.SetDataMode
)

// ErrSchemaViolation matches every SchemaViolation with errors.Is.
var ErrSchemaViolation = contract.ErrSchemaViolation

// --- Configuration ---

// Option configures a Store.
type Option = store.Option

// WithLogger sets the logger for the store.
func WithLogger(logger *zap.Logger) Option {
	return store.WithLogger(logger)
}

// WithEventBuffer sets the per-subscriber channel size.
func WithEventBuffer(size int) Option {
	return store.WithEventBuffer(size)
}

// WithInitialState starts the store from s instead of the product seed.
func WithInitialState(s State) Option {
	return store.WithInitialState(s)
}

// --- Factory ---

// New creates a store for p.
func New(p Product, opts ...Option) *Store {
	return store.New(p, opts...)
}

// NewErika creates a fresh Erika instance.
func NewErika(opts ...Option) *Store {
	return store.New(store.Erika, opts...)
}

// NewMarvin creates a fresh Marvin instance.
func NewMarvin(opts ...Option) *Store {
	return store.New(store.Marvin, opts...)
}

// Reduce is the pure transition function.
func Reduce(s State, a Action) State {
	return store.Reduce(s, a)
}

// Open restores p from the snapshot at path, seeding it when the file does
// not exist, and saves a snapshot after every transition until closed.
func Open(ctx context.Context, path string, p Product, opts ...Option) (s *Store, closeFn func(), err error) {
	f := persist.NewFile(path)
	s, err = persist.Restore(ctx, f, p, opts...)
	if err != nil {
		return nil, nil, err
	}
	return s, f.Attach(s), nil
}

// --- Contract ---

// Decode validates raw against the named schema and returns the typed value.
func Decode(schema string, raw []byte) (any, error) {
	return contract.Decode(schema, raw)
}

// Encode validates value against the named schema and returns its JSON form.
func Encode(schema string, value any) ([]byte, error) {
	return contract.Encode(schema, value)
}

// Schemas lists the registered schema names.
func Schemas() []string {
	return contract.Names()
}
