// ABOUTME: In-memory store implementation backed by patrickmn/go-cache
// ABOUTME: Provides a single-process response cache with TTL support and usage counters

package memory

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"ai-search-api/core/domain"
	"ai-search-api/core/interfaces"
)

// MemoryCache implements interfaces.Store in process memory
type MemoryCache struct {
	items    *gocache.Cache
	counters *gocache.Cache

	// mu serializes create-or-increment on counters
	mu sync.Mutex
}

// NewMemoryCache creates a new in-memory store. Expired entries are purged
// every cleanupInterval.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}
	return &MemoryCache{
		items:    gocache.New(gocache.NoExpiration, cleanupInterval),
		counters: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, ok := c.items.Get(key)
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}
	data, ok := value.([]byte)
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}

	// Return a copy of the value
	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

// Set stores a value in the cache with the given TTL; zero means no expiry
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.items.Set(key, valueCopy, ttl)
	return nil
}

// Delete removes a key from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.items.Delete(key)
	return nil
}

// IncrementCounter adds amount to the named counter
func (c *MemoryCache) IncrementCounter(ctx context.Context, name string, amount float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.counters.IncrementFloat64(name, amount); err != nil {
		c.counters.Set(name, amount, gocache.NoExpiration)
	}
	return nil
}

// Counters returns a snapshot of the usage counters
func (c *MemoryCache) Counters(ctx context.Context) (domain.CounterSnapshot, error) {
	snap := domain.CounterSnapshot{QueriesByIntent: map[string]int64{}}
	if err := ctx.Err(); err != nil {
		return snap, err
	}

	for name, item := range c.counters.Items() {
		value, ok := item.Object.(float64)
		if !ok {
			continue
		}
		snap.Apply(name, value)
	}
	return snap, nil
}

// Ping always succeeds for the in-process store
func (c *MemoryCache) Ping(ctx context.Context) error {
	return ctx.Err()
}

// ItemCount returns the number of cached responses, including expired ones not yet purged
func (c *MemoryCache) ItemCount() int {
	return c.items.ItemCount()
}

// Clear drops all cached responses; counters are kept
func (c *MemoryCache) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.items.Flush()
	return nil
}

// Stats returns cache statistics
func (c *MemoryCache) Stats(ctx context.Context) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"total_entries": c.ItemCount(),
	}, nil
}
