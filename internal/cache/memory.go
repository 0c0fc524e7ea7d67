package cache

import (
	"context"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/maypok86/otter/v2"
)

// entry wraps a cached value with its expiration time.
type entry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is an in-memory W-TinyLFU cache backed by otter.
//
// A side registry of live keys supports glob invalidation, which otter
// does not expose. The registry may briefly retain keys otter has already
// evicted; invalidating an evicted key is a no-op.
type Memory struct {
	cache *otter.Cache[string, entry]
	keys  sync.Map // key -> struct{}
}

// NewMemory creates an in-memory cache with the given max entry count and default TTL.
func NewMemory(maxSize int, defaultTTL time.Duration) (*Memory, error) {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	c, err := otter.New[string, entry](&otter.Options[string, entry]{
		MaximumSize:      maxSize,
		ExpiryCalculator: otter.ExpiryWriting[string, entry](defaultTTL),
	})
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &Memory{cache: c}, nil
}

// Get retrieves a value from the cache if present and not expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	e, ok := m.cache.GetIfPresent(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		m.cache.Invalidate(key)
		m.keys.Delete(key)
		return nil, false
	}
	return e.data, true
}

// Set stores a value with per-entry TTL, replacing any existing entry.
func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m.cache.Set(key, entry{
		data:      val,
		expiresAt: time.Now().Add(ttl),
	})
	m.keys.Store(key, struct{}{})
	return true
}

// Delete removes a value from the cache.
func (m *Memory) Delete(_ context.Context, key string) bool {
	m.cache.Invalidate(key)
	m.keys.Delete(key)
	return true
}

// DeleteMatching removes every entry whose key matches the glob pattern.
func (m *Memory) DeleteMatching(_ context.Context, pattern string) bool {
	if _, err := path.Match(pattern, ""); err != nil {
		return false
	}
	m.keys.Range(func(k, _ any) bool {
		key := k.(string)
		if ok, _ := path.Match(pattern, key); ok {
			m.cache.Invalidate(key)
			m.keys.Delete(key)
		}
		return true
	})
	return true
}

// Purge removes all values from the cache.
func (m *Memory) Purge(_ context.Context) {
	m.cache.InvalidateAll()
	m.keys.Range(func(k, _ any) bool {
		m.keys.Delete(k)
		return true
	})
}
