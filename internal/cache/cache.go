// Package cache provides record caching for marketd: a key/value store
// with per-entry expiry and glob-pattern bulk invalidation, plus the
// read-through / write-invalidate wrappers the application services use.
//
// Backend failures never propagate: Get degrades to a miss and Set/Delete
// report failure, so the underlying read/write path keeps working when
// the cache is down.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is applied when a caller passes a non-positive TTL.
const DefaultTTL = 5 * time.Minute

// Cache is the interface for record caching.
type Cache interface {
	// Get retrieves a cached value by key. A key that was never set,
	// has expired, or was invalidated reports a miss.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores a value with the given TTL, replacing any existing entry
	// and resetting its expiry. Reports whether the value was stored.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) bool
	// Delete removes a cached value. Deleting a missing key is a no-op success.
	Delete(ctx context.Context, key string) bool
	// DeleteMatching removes every entry whose key matches a glob pattern
	// (e.g. "sellers*"). Reports whether the sweep completed.
	DeleteMatching(ctx context.Context, pattern string) bool
	// Purge removes all cached values.
	Purge(ctx context.Context)
}

// Nop is a Cache that stores nothing. Used when caching is disabled in config.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool)              { return nil, false }
func (Nop) Set(context.Context, string, []byte, time.Duration) bool { return true }
func (Nop) Delete(context.Context, string) bool                     { return true }
func (Nop) DeleteMatching(context.Context, string) bool             { return true }
func (Nop) Purge(context.Context)                                   {}
