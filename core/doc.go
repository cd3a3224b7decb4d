// Package core contains the business logic for the AI Search API.
// It is designed to be framework-agnostic and can be used independently
// of any web framework or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Pure domain models (RawResult, ScoredResult, SearchResponse, etc.)
// - ranking: Deduplication, coarse metadata scoring and semantic reranking
// - routing: Intent to engine routing table
// - search: The pipeline service plus stats and health reporting
// - errors: Custom error types for better error handling
// - interfaces: Contracts for external dependencies (store, HTTP, logger, analyzer)
//
// # Design Principles
//
// The core package follows clean architecture principles:
// - No external framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
// - Domain models are free from persistence concerns
//
// # Usage Example
//
//	import (
//	    "ai-search-api/core/interfaces"
//	    "ai-search-api/core/search"
//	)
//
//	// Create dependencies
//	deps := interfaces.Dependencies{
//	    Store:      myStore,      // implements interfaces.Store
//	    Logger:     myLogger,     // implements interfaces.Logger
//	    Analyzer:   myAnalyzer,   // implements interfaces.QueryAnalyzer
//	    Aggregator: myAggregator, // implements interfaces.SearchAggregator
//	}
//
//	// Create service with built-in routes and reranker
//	service := search.NewSearchService(deps, nil, nil, search.DefaultConfig())
//
//	// Run a search
//	resp, err := service.Search(ctx, search.SearchRequest{
//	    Query: "crispr off-target effects",
//	    Limit: 8,
//	})
package core
