package api

import (
	"context"

	"ai-search-api/core/domain"
	"ai-search-api/core/search"
)

type mockSearchService struct{}

func (m *mockSearchService) Search(ctx context.Context, req search.SearchRequest) (*domain.SearchResponse, error) {
	return &domain.SearchResponse{Query: req.Query, ExpandedQuery: req.Query, Intent: domain.IntentGeneral, Results: []domain.SearchResult{}}, nil
}

func (m *mockSearchService) Stats(ctx context.Context) (*domain.StatsSummary, error) {
	return &domain.StatsSummary{QueriesByIntent: map[string]int64{}}, nil
}

func (m *mockSearchService) Health(ctx context.Context) domain.HealthStatus {
	return domain.HealthStatus{Status: "ok", Redis: "connected", SearXNG: "reachable", CrossEncoder: "unavailable"}
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}
