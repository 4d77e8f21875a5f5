package store

import "context"

// KV is the opaque key-value medium the favorites store persists into.
// Values are stored and returned verbatim.
type KV interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	// MultiRemove deletes all keys in one operation. Absent keys are ignored.
	MultiRemove(ctx context.Context, keys ...string) error
	Close() error
}
