package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KV.Get for absent keys
var ErrNotFound = errors.New("key not found")

// KV is the durable key/value port behind saved searches, presets and
// history. Implementations must be safe for concurrent use. Values are
// opaque bytes; callers own the encoding.
type KV interface {
	// Get returns the value stored under key or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying resources
	Close() error
}
