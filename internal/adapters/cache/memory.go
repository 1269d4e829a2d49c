// Package cache provides ports.Cache implementations for the rendered page.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jsamuelsen/daily-quote/internal/ports"
)

const (
	// DefaultMemorySize is the number of entries kept when no size is configured.
	DefaultMemorySize = 16

	// maxEntryAge bounds every entry, including those stored without a TTL.
	maxEntryAge = 48 * time.Hour
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process LRU cache with per-entry deadlines.
// Safe for concurrent use.
type MemoryCache struct {
	lru *expirable.LRU[string, memoryEntry]
	now func() time.Time
}

// NewMemoryCache creates a cache holding at most size entries.
func NewMemoryCache(size int) *MemoryCache {
	if size <= 0 {
		size = DefaultMemorySize
	}

	return &MemoryCache{
		lru: expirable.NewLRU[string, memoryEntry](size, nil, maxEntryAge),
		now: time.Now,
	}
}

// Get implements ports.Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := c.lru.Get(key)
	if !ok {
		return nil, ports.ErrCacheMiss
	}

	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		c.lru.Remove(key)
		return nil, ports.ErrCacheMiss
	}

	return entry.value, nil
}

// Set implements ports.Cache. The value is copied.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttlSeconds int) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttlSeconds > 0 {
		entry.expiresAt = c.now().Add(time.Duration(ttlSeconds) * time.Second)
	}

	c.lru.Add(key, entry)

	return nil
}

// Delete implements ports.Cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Len returns the number of entries, including any past their deadline.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}
