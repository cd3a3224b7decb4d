// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by the core business logic

package interfaces

// Dependencies holds all external dependencies required by the core business logic
type Dependencies struct {
	// Store provides the response cache and usage counters
	Store Store

	// Logger provides structured logging
	Logger Logger

	// Analyzer classifies and expands queries
	Analyzer QueryAnalyzer

	// Aggregator fetches raw candidates from the search engines
	Aggregator SearchAggregator

	// Relevance is the optional pairwise relevance model; nil disables semantic scoring
	Relevance RelevanceModel
}
