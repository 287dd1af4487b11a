package persist

import (
	"context"

	"github.com/roach88/storefront/internal/kv"
)

// Record binds one gateway key to a codec.
type Record[T any] struct {
	key   string
	gw    kv.Gateway
	codec Codec[T]
}

// NewRecord creates a record for key.
func NewRecord[T any](gw kv.Gateway, key string, codec Codec[T]) *Record[T] {
	return &Record[T]{key: key, gw: gw, codec: codec}
}

// Key returns the gateway key.
func (r *Record[T]) Key() string {
	return r.key
}

// Load reads and decodes the record. ok is false when the key is absent.
func (r *Record[T]) Load(ctx context.Context) (v T, ok bool, err error) {
	raw, ok, err := r.gw.Get(ctx, r.key)
	if err != nil {
		return v, false, &StorageError{Op: OpRead, Key: r.key, Err: err}
	}
	if !ok {
		return v, false, nil
	}
	v, err = r.codec.Decode(raw)
	if err != nil {
		return v, false, &StorageError{Op: OpRead, Key: r.key, Err: err}
	}
	return v, true, nil
}

// Save encodes v and writes it, replacing the previous value entirely.
func (r *Record[T]) Save(ctx context.Context, v T) error {
	raw, err := r.codec.Encode(v)
	if err != nil {
		return &StorageError{Op: OpWrite, Key: r.key, Err: err}
	}
	if err := r.gw.Set(ctx, r.key, raw); err != nil {
		return &StorageError{Op: OpWrite, Key: r.key, Err: err}
	}
	return nil
}
