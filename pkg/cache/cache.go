// Package cache provides a byte-oriented cache for rendered board artifacts.
//
// Exporting a board to SVG or PNG is deterministic: the same snapshot with
// the same render options always produces the same bytes. The CLI caches
// artifacts keyed by a hash of both, so re-exporting an unchanged board is a
// file read instead of a render (which, for PNG and DOT output, involves
// rasterization or Graphviz).
//
// Two implementations exist: [FileCache] stores entries under a directory
// (~/.cache/tabula by default), and [NullCache] disables caching for tests
// and --no-cache runs.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by helpers that require a cached entry to exist.
// Plain Get reports misses through its boolean instead.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores opaque byte blobs under string keys.
type Cache interface {
	// Get retrieves a value. The boolean reports whether the key was
	// present; absence is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
