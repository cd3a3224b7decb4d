// ABOUTME: LRU memoization of query analysis results
// ABOUTME: Repeated queries skip the model call; fallback results are never remembered

package analyzer

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"ai-search-api/core/domain"
	"ai-search-api/core/interfaces"
)

// Memoized caches successful analyses keyed by the normalized query
type Memoized struct {
	next  interfaces.QueryAnalyzer
	cache *lru.Cache[string, domain.QueryIntelligence]
}

// NewMemoized wraps next with an LRU of the given size
func NewMemoized(next interfaces.QueryAnalyzer, size int) (*Memoized, error) {
	cache, err := lru.New[string, domain.QueryIntelligence](size)
	if err != nil {
		return nil, err
	}
	return &Memoized{next: next, cache: cache}, nil
}

// Analyze returns a remembered analysis or delegates
func (m *Memoized) Analyze(ctx context.Context, query string) domain.QueryIntelligence {
	key := strings.ToLower(strings.TrimSpace(query))
	if intel, ok := m.cache.Get(key); ok {
		return intel
	}

	intel := m.next.Analyze(ctx, query)
	if !intel.Fallback && ctx.Err() == nil {
		m.cache.Add(key, intel)
	}
	return intel
}

// Len returns the number of remembered analyses
func (m *Memoized) Len() int {
	return m.cache.Len()
}
