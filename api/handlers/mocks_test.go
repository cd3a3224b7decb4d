package handlers

import (
	"context"

	"ai-search-api/core/domain"
	"ai-search-api/core/search"
)

// mockSearchService is a mock implementation of the search service
type mockSearchService struct {
	searchFunc func(ctx context.Context, req search.SearchRequest) (*domain.SearchResponse, error)
	statsFunc  func(ctx context.Context) (*domain.StatsSummary, error)
	healthFunc func(ctx context.Context) domain.HealthStatus
}

func (m *mockSearchService) Search(ctx context.Context, req search.SearchRequest) (*domain.SearchResponse, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, req)
	}
	return &domain.SearchResponse{Query: req.Query, Intent: domain.IntentGeneral, Results: []domain.SearchResult{}}, nil
}

func (m *mockSearchService) Stats(ctx context.Context) (*domain.StatsSummary, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return &domain.StatsSummary{QueriesByIntent: map[string]int64{}}, nil
}

func (m *mockSearchService) Health(ctx context.Context) domain.HealthStatus {
	if m.healthFunc != nil {
		return m.healthFunc(ctx)
	}
	return domain.HealthStatus{Status: "ok", Redis: "connected", SearXNG: "reachable", CrossEncoder: "unavailable"}
}
