// ABOUTME: Collaborator interfaces consumed by the search pipeline
// ABOUTME: Query analysis, multi-engine retrieval and pairwise relevance scoring

package interfaces

import (
	"context"

	"ai-search-api/core/domain"
)

// QueryAnalyzer classifies and expands a raw query.
// Analyze never fails: on any internal error it returns domain.FallbackIntelligence.
type QueryAnalyzer interface {
	Analyze(ctx context.Context, query string) domain.QueryIntelligence
}

// SearchAggregator fetches candidates from the upstream multi-engine aggregator.
// Results are returned in aggregator rank order. Malformed records are dropped
// by the implementation; a returned error means the whole fetch failed.
type SearchAggregator interface {
	Search(ctx context.Context, query string, engines, categories []string) ([]domain.RawResult, error)

	// Ping checks that the aggregator is reachable.
	Ping(ctx context.Context) error
}

// RelevanceModel scores (query, text) pairs with a pairwise relevance model.
// The returned slice has one raw score per text, in input order.
// Implementations must be safe for concurrent use.
type RelevanceModel interface {
	Score(ctx context.Context, query string, texts []string) ([]float64, error)

	// Ping reports whether the model is loaded and able to score.
	Ping(ctx context.Context) error
}
