// Package interfaces defines the core interfaces used throughout the application.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"
	"errors"
	"time"

	"ai-search-api/core/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent or expired
var ErrCacheMiss = errors.New("cache: key not found")

// Cache defines the interface for cache operations.
// Implementations can be Redis, in-memory, SQLite or any other caching solution.
//
// Example usage:
//
//	cache := someCache // implements Cache interface
//
//	// Store a value
//	err := cache.Set(ctx, "9f86d081...", responseJSON, 24*time.Hour)
//
//	// Retrieve a value
//	data, err := cache.Get(ctx, "9f86d081...")
//	if errors.Is(err, interfaces.ErrCacheMiss) {
//		// run the pipeline
//	}
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns ErrCacheMiss if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given TTL.
	// If ttl is 0, the value should be stored indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}

// CounterStore holds the best-effort usage counters.
// Each increment is atomic per key; there is no cross-counter transaction.
type CounterStore interface {
	// IncrementCounter adds amount to the named counter, creating it at zero if needed.
	IncrementCounter(ctx context.Context, name string, amount float64) error

	// Counters returns a snapshot of the usage counters.
	Counters(ctx context.Context) (domain.CounterSnapshot, error)
}

// CacheMaintainer is implemented by stores that can report on and drop their
// cached responses. Usage counters are never touched by Clear.
type CacheMaintainer interface {
	Stats(ctx context.Context) (map[string]interface{}, error)
	Clear(ctx context.Context) error
}

// Store is the shared key-value backend: response cache plus usage counters.
// Implementations must be safe for concurrent use.
type Store interface {
	Cache
	CounterStore

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}
