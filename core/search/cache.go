// ABOUTME: Fail-open cache lookup and best-effort cache and stats writes
// ABOUTME: Store errors are logged and absorbed, never surfaced to callers

package search

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"ai-search-api/core/domain"
	"ai-search-api/core/interfaces"
	"ai-search-api/pkg/featureflags"
)

// lookupCache returns the cached response for query, or nil on a miss.
// Any store or decode error is treated as a miss.
func (s *SearchService) lookupCache(ctx context.Context, query string) *domain.SearchResponse {
	if s.deps.Store == nil {
		return nil
	}

	key := CacheKey(query)
	data, err := s.deps.Store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, interfaces.ErrCacheMiss) {
			s.deps.Logger.Warn("Cache lookup failed", map[string]interface{}{
				"key":   key[:8],
				"error": err.Error(),
			})
		}
		return nil
	}
	if data == nil {
		return nil
	}

	var cached domain.SearchResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		s.deps.Logger.Warn("Discarding undecodable cache entry", map[string]interface{}{
			"key":   key[:8],
			"error": err.Error(),
		})
		if err := s.deps.Store.Delete(ctx, key); err != nil {
			s.deps.Logger.Warn("Failed to delete undecodable cache entry", map[string]interface{}{
				"key":   key[:8],
				"error": err.Error(),
			})
		}
		return nil
	}
	if cached.Results == nil {
		cached.Results = []domain.SearchResult{}
	}

	cached.CacheHit = true
	s.deps.Logger.Debug("Cache hit", map[string]interface{}{
		"key": key[:8],
	})
	return &cached
}

// writeCache persists the response under the query's key with the configured TTL
func (s *SearchService) writeCache(ctx context.Context, query string, resp *domain.SearchResponse) {
	if s.deps.Store == nil {
		return
	}

	key := CacheKey(query)
	data, err := json.Marshal(resp)
	if err != nil {
		s.deps.Logger.Warn("Failed to encode cache entry", map[string]interface{}{
			"key":   key[:8],
			"error": err.Error(),
		})
		return
	}

	if err := s.deps.Store.Set(ctx, key, data, s.cfg.CacheTTL); err != nil {
		s.deps.Logger.Warn("Cache write failed", map[string]interface{}{
			"key":   key[:8],
			"error": err.Error(),
		})
		return
	}

	s.deps.Logger.Debug("Cached response", map[string]interface{}{
		"key":       key[:8],
		"ttl_hours": s.cfg.CacheTTL.Hours(),
	})
}

// recordUsage increments the usage counters. Each increment is independent;
// a failure stops nothing but is logged.
func (s *SearchService) recordUsage(ctx context.Context, intent domain.Intent, elapsed time.Duration, cacheHit bool) {
	if s.deps.Store == nil || !s.flagEnabled(ctx, featureflags.StatsEnabled) {
		return
	}

	increments := []struct {
		name   string
		amount float64
	}{
		{domain.CounterQueriesTotal, 1},
		{domain.IntentCounter(intent), 1},
		{domain.CounterTotalLatencyMS, float64(elapsed) / float64(time.Millisecond)},
	}
	if cacheHit {
		increments = append(increments, struct {
			name   string
			amount float64
		}{domain.CounterCacheHits, 1})
	}

	for _, inc := range increments {
		if err := s.deps.Store.IncrementCounter(ctx, inc.name, inc.amount); err != nil {
			s.deps.Logger.Warn("Failed to increment usage counter", map[string]interface{}{
				"counter": inc.name,
				"error":   err.Error(),
			})
		}
	}
}
