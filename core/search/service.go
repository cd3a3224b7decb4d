// ABOUTME: Search service orchestrates the aggregation and ranking pipeline
// ABOUTME: Cache check, analysis, routing, fetch, scoring, assembly and write-back

package search

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ai-search-api/core/domain"
	coreerrors "ai-search-api/core/errors"
	"ai-search-api/core/interfaces"
	"ai-search-api/core/ranking"
	"ai-search-api/core/routing"
	"ai-search-api/pkg/featureflags"
)

// TracerName identifies the pipeline spans
const TracerName = "ai-search-api/search"

// Request bounds
const (
	DefaultLimit          = 8
	DefaultMaxLimit       = 20
	DefaultMaxQueryLength = 512
	DefaultCacheTTL       = 24 * time.Hour
)

// Config tunes the search service
type Config struct {
	// CacheTTL is the lifetime of cached responses
	CacheTTL time.Duration

	// DefaultLimit is used when a request does not set a limit
	DefaultLimit int

	// MaxLimit is the largest accepted limit
	MaxLimit int

	// MaxQueryLength is the longest accepted query, in characters
	MaxQueryLength int

	// Ranking tunes the ranking stages
	Ranking ranking.Options

	// Flags toggles optional stages; nil enables everything
	Flags featureflags.Manager

	// TracerProvider receives the stage spans; nil uses the global provider
	TracerProvider trace.TracerProvider
}

// DefaultConfig returns the production configuration
func DefaultConfig() Config {
	return Config{
		CacheTTL:       DefaultCacheTTL,
		DefaultLimit:   DefaultLimit,
		MaxLimit:       DefaultMaxLimit,
		MaxQueryLength: DefaultMaxQueryLength,
		Ranking:        ranking.DefaultOptions(),
	}
}

// SearchRequest is one search invocation
type SearchRequest struct {
	Query string
	Limit int

	// DomainHint is accepted for forward compatibility and only logged
	DomainHint string
}

// SearchService runs the search pipeline
type SearchService struct {
	deps      interfaces.Dependencies
	router    *routing.Router
	reranker  *ranking.Reranker
	cfg       Config
	tracer    trace.Tracer
	now       func() time.Time
	startedAt time.Time
}

// NewSearchService creates a new search service instance. A nil router uses
// the built-in routes and a nil reranker wraps deps.Relevance with defaults.
func NewSearchService(deps interfaces.Dependencies, router *routing.Router, reranker *ranking.Reranker, cfg Config) *SearchService {
	defaults := DefaultConfig()
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaults.CacheTTL
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = defaults.MaxLimit
	}
	if cfg.DefaultLimit <= 0 || cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = min(defaults.DefaultLimit, cfg.MaxLimit)
	}
	if cfg.MaxQueryLength <= 0 {
		cfg.MaxQueryLength = defaults.MaxQueryLength
	}

	if router == nil {
		router = routing.NewRouter(routing.DefaultTable(), deps.Logger)
	}
	if reranker == nil {
		reranker = ranking.NewReranker(deps.Relevance, deps.Logger, ranking.WithRankingOptions(cfg.Ranking))
	}

	provider := cfg.TracerProvider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}

	now := time.Now
	return &SearchService{
		deps:      deps,
		router:    router,
		reranker:  reranker,
		cfg:       cfg,
		tracer:    provider.Tracer(TracerName),
		now:       now,
		startedAt: now(),
	}
}

// validateRequest checks the query and resolves the effective limit
func (s *SearchService) validateRequest(req SearchRequest) (int, error) {
	if strings.TrimSpace(req.Query) == "" {
		return 0, &coreerrors.ValidationError{Field: "q", Message: "query cannot be blank"}
	}
	if utf8.RuneCountInString(req.Query) > s.cfg.MaxQueryLength {
		return 0, &coreerrors.ValidationError{
			Field:   "q",
			Message: fmt.Sprintf("query cannot exceed %d characters", s.cfg.MaxQueryLength),
		}
	}

	limit := req.Limit
	if limit == 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit < 1 || limit > s.cfg.MaxLimit {
		return 0, &coreerrors.ValidationError{
			Field:   "limit",
			Message: fmt.Sprintf("limit must be between 1 and %d", s.cfg.MaxLimit),
		}
	}
	return limit, nil
}

// Search runs the pipeline for one query. The only pipeline failure returned
// is an UpstreamError from the fetch stage; every other stage degrades. A
// cancelled context stops the pipeline at the next stage boundary and
// nothing is written to the cache.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*domain.SearchResponse, error) {
	limit, err := s.validateRequest(req)
	if err != nil {
		return nil, err
	}

	start := s.now()
	ctx, span := s.tracer.Start(ctx, "search.pipeline")
	defer span.End()
	span.SetAttributes(
		attribute.String("search.query", truncateForAttribute(req.Query)),
		attribute.Int("search.limit", limit),
	)

	fields := map[string]interface{}{
		"query": truncateForAttribute(req.Query),
		"limit": limit,
	}
	if req.DomainHint != "" {
		fields["domain_hint"] = req.DomainHint
	}
	s.deps.Logger.Info("Search pipeline started", fields)

	// Cache check
	if s.flagEnabled(ctx, featureflags.CacheEnabled) {
		if cached := s.lookupCache(ctx, req.Query); cached != nil {
			elapsed := s.now().Sub(start)
			span.SetAttributes(attribute.Bool("search.cache_hit", true))
			s.recordUsage(ctx, cached.Intent, elapsed, true)
			s.deps.Logger.Info("Search served from cache", map[string]interface{}{
				"intent":     string(cached.Intent),
				"latency_ms": roundTo(float64(elapsed)/float64(time.Millisecond), 1),
			})
			return limitResponse(cached, limit), nil
		}
	}
	if err := checkpoint(ctx, span, "analyze"); err != nil {
		return nil, err
	}

	// Analyze
	intel := s.analyze(ctx, req.Query)
	span.SetAttributes(
		attribute.String("search.intent", string(intel.Intent)),
		attribute.Bool("search.analyzer_fallback", intel.Fallback),
	)
	if err := checkpoint(ctx, span, "route"); err != nil {
		return nil, err
	}

	// Route
	engines := s.router.Route(intel.Intent)

	// Fetch and deduplicate
	raw, err := s.fetch(ctx, intel.ExpandedQuery, engines)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch_failed")
		s.deps.Logger.Error("Search aggregator fetch failed", map[string]interface{}{
			"error":      err.Error(),
			"latency_ms": roundTo(float64(s.now().Sub(start))/float64(time.Millisecond), 1),
		})
		return nil, err
	}
	unique := ranking.Deduplicate(raw, s.cfg.Ranking)
	if err := checkpoint(ctx, span, "coarse"); err != nil {
		return nil, err
	}

	// Coarse score
	coarse := ranking.CoarseFilter(unique, s.now(), s.cfg.Ranking)
	if err := checkpoint(ctx, span, "rerank"); err != nil {
		return nil, err
	}

	// Rerank
	ranked, outcome := s.rerank(ctx, coarse, intel.ExpandedQuery)
	span.SetAttributes(
		attribute.Int("search.fetched", len(raw)),
		attribute.Int("search.unique", len(unique)),
		attribute.Int("search.ranked", len(ranked)),
		attribute.String("search.semantic", string(outcome)),
	)
	if err := checkpoint(ctx, span, "assemble"); err != nil {
		return nil, err
	}

	// Assemble and write back
	elapsed := s.now().Sub(start)
	full := BuildResponse(ResponseParams{
		Query:         req.Query,
		ExpandedQuery: intel.ExpandedQuery,
		Intent:        intel.Intent,
		CacheHit:      false,
		Elapsed:       elapsed,
		Results:       ranked,
	})

	if s.flagEnabled(ctx, featureflags.CacheEnabled) {
		s.writeCache(ctx, req.Query, full)
	}
	s.recordUsage(ctx, intel.Intent, elapsed, false)

	s.deps.Logger.Info("Search pipeline complete", map[string]interface{}{
		"intent":     string(intel.Intent),
		"fetched":    len(raw),
		"results":    min(len(full.Results), limit),
		"semantic":   string(outcome),
		"latency_ms": full.QueryTimeMS,
	})

	return limitResponse(full, limit), nil
}

// analyze runs the query analyzer, normalizing whatever it returns
func (s *SearchService) analyze(ctx context.Context, query string) domain.QueryIntelligence {
	if s.deps.Analyzer == nil || !s.flagEnabled(ctx, featureflags.QueryAnalysis) {
		return domain.FallbackIntelligence(query)
	}

	_, span := s.tracer.Start(ctx, "search.analyze")
	defer span.End()

	intel := s.deps.Analyzer.Analyze(ctx, query)
	if intent, ok := domain.ParseIntent(string(intel.Intent)); ok {
		intel.Intent = intent
	} else {
		intel.Intent = domain.IntentGeneral
	}
	if strings.TrimSpace(intel.ExpandedQuery) == "" {
		intel.ExpandedQuery = query
	}
	if strings.TrimSpace(intel.RewrittenQuery) == "" {
		intel.RewrittenQuery = query
	}
	return intel
}

// fetch calls the aggregator. Any failure is terminal for the request.
func (s *SearchService) fetch(ctx context.Context, query string, engines domain.EngineConfig) ([]domain.RawResult, error) {
	ctx, span := s.tracer.Start(ctx, "search.fetch", trace.WithAttributes(
		attribute.StringSlice("search.engines", engines.Engines),
		attribute.StringSlice("search.categories", engines.Categories),
	))
	defer span.End()

	if s.deps.Aggregator == nil {
		return nil, &coreerrors.UpstreamError{Service: "searxng", Err: fmt.Errorf("search aggregator not configured")}
	}

	results, err := s.deps.Aggregator.Search(ctx, query, engines.Engines, engines.Categories)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("search cancelled during fetch: %w", ctxErr)
		}
		span.RecordError(err)
		return nil, &coreerrors.UpstreamError{Service: "searxng", Retryable: true, Err: err}
	}
	span.SetAttributes(attribute.Int("search.results", len(results)))
	return results, nil
}

// rerank applies semantic scoring, honoring the semantic rerank flag
func (s *SearchService) rerank(ctx context.Context, results []domain.ScoredResult, query string) ([]domain.ScoredResult, ranking.SemanticOutcome) {
	ctx, span := s.tracer.Start(ctx, "search.rerank")
	defer span.End()

	reranker := s.reranker
	if !s.flagEnabled(ctx, featureflags.SemanticRerank) {
		reranker = reranker.WithoutModel()
	}
	ranked, outcome := reranker.Rerank(ctx, results, query)
	span.SetAttributes(
		attribute.Int("search.candidates", len(results)),
		attribute.String("search.semantic", string(outcome)),
	)
	return ranked, outcome
}

// flagEnabled consults the configured flag manager, or the request-scoped one
func (s *SearchService) flagEnabled(ctx context.Context, flag featureflags.FeatureFlag) bool {
	if s.cfg.Flags != nil {
		return s.cfg.Flags.IsEnabled(ctx, flag)
	}
	return featureflags.IsEnabled(ctx, flag)
}

// checkpoint aborts the pipeline when the caller has gone away
func checkpoint(ctx context.Context, span trace.Span, next string) error {
	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, "cancelled")
		return fmt.Errorf("search cancelled before %s: %w", next, err)
	}
	return nil
}

func truncateForAttribute(s string) string {
	const maxLen = 80
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen])
}
