package persist

import (
	"context"
	"log/slog"

	"github.com/roach88/storefront/internal/ids"
)

// Options is shared by every store constructor.
type Options struct {
	// IDs generates ids for new records. Defaults to UUIDv7.
	IDs ids.Generator

	// Clock stamps new records. Defaults to the system clock.
	Clock ids.Clock

	// Seed populates an absent key with the store's sample dataset.
	// When false an absent key hydrates to an empty store.
	Seed bool

	// OnPersistError, if set, receives every StorageError after it is
	// logged. It never changes the outcome of the mutating call.
	OnPersistError func(error)
}

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if o.IDs == nil {
		o.IDs = ids.UUIDv7Generator{}
	}
	if o.Clock == nil {
		o.Clock = ids.SystemClock{}
	}
	return o
}

func (o Options) report(err error) {
	if o.OnPersistError != nil {
		o.OnPersistError(err)
	}
}

// Hydrate loads r for a store starting up.
//
//   - present: the decoded value is returned
//   - absent: seed (or empty) is returned and written back
//   - unreadable: the failure is logged and reported, seed (or empty) is
//     returned, and nothing is written over the unreadable value
func Hydrate[T any](ctx context.Context, r *Record[T], opts Options, seed, empty func() T) T {
	v, ok, err := r.Load(ctx)
	if err != nil {
		slog.Warn("storage read failed, using fallback state", "key", r.Key(), "error", err)
		opts.report(err)
		return fallback(opts, seed, empty)
	}
	if ok {
		slog.Debug("store hydrated", "key", r.Key())
		return v
	}

	v = fallback(opts, seed, empty)
	slog.Debug("store empty, writing initial state", "key", r.Key(), "seeded", opts.Seed)
	Commit(ctx, r, v, opts)
	return v
}

// Commit writes v as the final step of a mutation.
//
// A failed write is logged and reported but not rolled back: the caller's
// in-memory mutation stands and durable state may lag behind it.
func Commit[T any](ctx context.Context, r *Record[T], v T, opts Options) {
	if err := r.Save(ctx, v); err != nil {
		slog.Error("storage write failed, keeping in-memory state", "key", r.Key(), "error", err)
		opts.report(err)
	}
}

func fallback[T any](opts Options, seed, empty func() T) T {
	if opts.Seed && seed != nil {
		return seed()
	}
	return empty()
}
