// Package memory provides in-process implementations of the cache and
// session ports. State is lost when the process exits.
package memory

import (
	"context"
	"slices"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jsamuelsen/quote-generator/internal/domain"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Cache implements ports.Cache on a size-bounded expirable LRU. Entries
// expire after the cache TTL, or earlier when Set is given a shorter one.
// Once maxEntries is reached the least recently used entry is evicted.
type Cache struct {
	lru *expirable.LRU[string, entry]
	now func() time.Time
}

// NewCache creates a cache holding at most maxEntries entries, each kept for
// at most ttl. maxEntries <= 0 means unbounded and ttl <= 0 means no
// cache-wide expiry.
func NewCache(maxEntries int, ttl time.Duration) *Cache {
	return &Cache{
		lru: expirable.NewLRU[string, entry](max(maxEntries, 0), nil, ttl),
		now: time.Now,
	}
}

// Get implements ports.Cache.
func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, domain.NewNotFoundError("cache entry", key)
	}

	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.lru.Remove(key)
		return nil, domain.NewNotFoundError("cache entry", key)
	}

	return slices.Clone(e.value), nil
}

// Set implements ports.Cache.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: slices.Clone(value)}
	if e.value == nil {
		e.value = []byte{}
	}

	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}

	c.lru.Add(key, e)

	return nil
}

// Delete implements ports.Cache.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Close drops every entry.
func (c *Cache) Close() error {
	c.lru.Purge()
	return nil
}
