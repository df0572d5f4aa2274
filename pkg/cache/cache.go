// Package cache stores generated layouts and rendered artifacts.
//
// Three backends implement [Cache]:
//
//   - [FileCache] keeps entries as JSON files under a directory (CLI default)
//   - [RedisCache] shares entries between API servers
//   - [NullCache] disables caching
//
// Keys are produced by a [Keyer] so that callers never build key strings by
// hand. Generation is deterministic for a given set of options, so a layout
// key derived from the options hash identifies the layout exactly.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per entry kind.
const (
	// TTLLayout is how long a generated layout stays cached.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered output (SVG, ASCII, DOT) stays cached.
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the stored data and whether the key was present.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// NullCache disables caching: every Get misses and writes are dropped.
type NullCache struct{}

var _ Cache = (*NullCache)(nil)

// NewNullCache returns a cache that stores nothing.
func NewNullCache() *NullCache { return &NullCache{} }

// Get always misses.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (*NullCache) Delete(context.Context, string) error {
	return nil
}

func (*NullCache) Close() error {
	return nil
}
