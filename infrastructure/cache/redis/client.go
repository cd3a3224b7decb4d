// ABOUTME: Redis store implementation using go-redis client
// ABOUTME: Provides the shared response cache with TTL support and atomic usage counters

package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"ai-search-api/core/domain"
	"ai-search-api/core/interfaces"
	"ai-search-api/pkg/config"
)

// RedisCache implements interfaces.Store using Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis store. REDIS_URL takes precedence over
// the address fields. The connection is checked before returning.
func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisCacheFromClient(client), nil
}

// NewRedisCacheFromClient wraps an existing client without checking it
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func redisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opts, nil
	}
	if cfg.Address == "" {
		return nil, errors.New("redis address cannot be empty")
	}
	return &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	}, nil
}

// Get retrieves a value from Redis
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, interfaces.ErrCacheMiss
		}
		return nil, err
	}

	return val, nil
}

// Set stores a value in Redis with the given TTL
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	// Redis SET with 0 TTL means no expiration
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes a key from Redis
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// IncrementCounter atomically adds amount to a float counter
func (c *RedisCache) IncrementCounter(ctx context.Context, name string, amount float64) error {
	return c.client.IncrByFloat(ctx, name, amount).Err()
}

// Counters reads the usage counters. Per-intent counters are found with SCAN.
func (c *RedisCache) Counters(ctx context.Context) (domain.CounterSnapshot, error) {
	snap := domain.CounterSnapshot{QueriesByIntent: map[string]int64{}}

	names := []string{domain.CounterQueriesTotal, domain.CounterCacheHits, domain.CounterTotalLatencyMS}
	values, err := c.client.MGet(ctx, names...).Result()
	if err != nil {
		return snap, fmt.Errorf("failed to read counters: %w", err)
	}
	for i, name := range names {
		snap.Apply(name, parseCounter(values[i]))
	}

	iter := c.client.Scan(ctx, 0, domain.CounterIntentPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		raw, err := c.client.Get(ctx, key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return snap, fmt.Errorf("failed to read %s: %w", key, err)
		}
		snap.Apply(key, parseCounter(raw))
	}
	if err := iter.Err(); err != nil {
		return snap, fmt.Errorf("failed to scan intent counters: %w", err)
	}

	return snap, nil
}

// Ping checks that Redis is reachable
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// parseCounter reads a counter value written by INCRBYFLOAT; missing or
// malformed values count as zero
func parseCounter(v interface{}) float64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
