// Package cache provides pluggable byte caches used for HTTP responses and
// the persisted PyPI name list.
//
// Three backends are provided: [FileCache] (default for CLI use),
// [RedisCache] (shared cache across processes), and [NullCache] (caching
// disabled). All backends store opaque bytes under string keys with a
// per-entry TTL.
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss
	// (including expired entries); in that case data is nil.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
