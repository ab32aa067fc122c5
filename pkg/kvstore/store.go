package kvstore

import "context"

// Store is a uniform key/value abstraction over whatever persistence is
// available on the running platform. Values are opaque strings.
//
// Backend implementations report failures through errors; Get returns
// ErrKeyNotFound for missing keys. Callers that need the fail-soft contract
// (errors swallowed, logged and degraded to safe defaults) should wrap a
// backend with NewFailSoft.
type Store interface {
	// Get retrieves the value stored under key.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any existing value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes the value stored under key. Removing a missing key
	// is not an error.
	Remove(ctx context.Context, key string) error

	// Clear removes every key managed by this store.
	Clear(ctx context.Context) error
}
