// ABOUTME: Semantic re-ranking of coarse candidates with a pairwise relevance model
// ABOUTME: Isolates the model call and falls back to uniform scores on any failure

package ranking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/semaphore"

	"ai-search-api/core/domain"
	"ai-search-api/core/interfaces"
)

// Final score weights
const (
	finalSemanticWeight    = 0.45
	finalAuthorityWeight   = 0.20
	finalRecencyWeight     = 0.15
	finalEngineTrustWeight = 0.10
	finalPositionWeight    = 0.10
)

const (
	// DefaultRerankTimeout bounds a single relevance model call
	DefaultRerankTimeout = 10 * time.Second

	// DefaultRerankConcurrency is the number of model calls allowed in flight
	DefaultRerankConcurrency = 2
)

// SemanticOutcome records how semantic scores were obtained
type SemanticOutcome string

const (
	// SemanticScored means the relevance model produced the scores
	SemanticScored SemanticOutcome = "scored"

	// SemanticFallback means the model failed and uniform scores were used
	SemanticFallback SemanticOutcome = "fallback"

	// SemanticSkipped means there was nothing to score
	SemanticSkipped SemanticOutcome = "skipped"
)

var errNoModel = errors.New("relevance model not configured")

// Reranker applies the relevance model to coarse candidates
type Reranker struct {
	model   interfaces.RelevanceModel
	logger  interfaces.Logger
	sem     *semaphore.Weighted
	timeout time.Duration
	opts    Options
}

// RerankerOption configures a Reranker
type RerankerOption func(*Reranker)

// WithRerankTimeout bounds each model call
func WithRerankTimeout(d time.Duration) RerankerOption {
	return func(r *Reranker) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithRerankConcurrency limits concurrent model calls
func WithRerankConcurrency(n int64) RerankerOption {
	return func(r *Reranker) {
		if n > 0 {
			r.sem = semaphore.NewWeighted(n)
		}
	}
}

// WithRankingOptions overrides the stage caps
func WithRankingOptions(opts Options) RerankerOption {
	return func(r *Reranker) {
		r.opts = opts.withDefaults()
	}
}

// NewReranker creates a reranker. A nil model is allowed and always takes the
// uniform fallback path.
func NewReranker(model interfaces.RelevanceModel, logger interfaces.Logger, options ...RerankerOption) *Reranker {
	r := &Reranker{
		model:   model,
		logger:  logger,
		sem:     semaphore.NewWeighted(DefaultRerankConcurrency),
		timeout: DefaultRerankTimeout,
		opts:    DefaultOptions(),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// WithoutModel returns a reranker sharing r's limits that always uses
// uniform semantic scores
func (r *Reranker) WithoutModel() *Reranker {
	clone := *r
	clone.model = nil
	return &clone
}

// HasModel reports whether a relevance model is configured
func (r *Reranker) HasModel() bool {
	return r.model != nil
}

// Ping checks that the configured model is loaded
func (r *Reranker) Ping(ctx context.Context) error {
	if r.model == nil {
		return errNoModel
	}
	return r.model.Ping(ctx)
}

// Normalize min-max scales scores into [0,1]. When every score is equal
// (including a single score) each maps to 0.5.
func Normalize(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}

	lo, hi := scores[0], scores[0]
	for _, s := range scores[1:] {
		lo = math.Min(lo, s)
		hi = math.Max(hi, s)
	}

	spread := hi - lo
	if spread == 0 {
		for i := range out {
			out[i] = DefaultUniformSemantic
		}
		return out
	}

	for i, s := range scores {
		out[i] = (s - lo) / spread
	}
	return out
}

// FinalScore combines the normalized semantic score with the metadata signals
func FinalScore(semantic float64, r domain.ScoredResult) float64 {
	return finalSemanticWeight*semantic +
		finalAuthorityWeight*r.AuthorityScore +
		finalRecencyWeight*r.RecencyScore +
		finalEngineTrustWeight*r.EngineTrustScore +
		finalPositionWeight*r.PositionScore
}

// Rerank scores candidate titles against the query, sorts them by final score
// descending and keeps the top RerankLimit. It never fails: model errors,
// timeouts and malformed outputs all degrade to uniform semantic scores.
// The input slice is not modified.
func (r *Reranker) Rerank(ctx context.Context, results []domain.ScoredResult, query string) ([]domain.ScoredResult, SemanticOutcome) {
	if len(results) == 0 {
		return []domain.ScoredResult{}, SemanticSkipped
	}

	texts := make([]string, len(results))
	for i, res := range results {
		texts[i] = res.Title
	}

	outcome := SemanticScored
	semantic, err := r.score(ctx, query, texts)
	if err != nil {
		if !errors.Is(err, errNoModel) {
			r.logger.Warn("Relevance model failed, using uniform semantic scores", map[string]interface{}{
				"error":      err.Error(),
				"candidates": len(results),
			})
		}
		outcome = SemanticFallback
		semantic = make([]float64, len(results))
		for i := range semantic {
			semantic[i] = DefaultUniformSemantic
		}
	} else {
		semantic = Normalize(semantic)
	}

	ranked := make([]domain.ScoredResult, len(results))
	for i, res := range results {
		res.SemanticScore = semantic[i]
		res.FinalScore = FinalScore(semantic[i], res)
		ranked[i] = res
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})

	if len(ranked) > r.opts.RerankLimit {
		ranked = ranked[:r.opts.RerankLimit]
	}

	// Clamping is monotone so the order above is preserved.
	for i := range ranked {
		ranked[i].FinalScore = clamp01(ranked[i].FinalScore)
	}

	return ranked, outcome
}

type scoreResult struct {
	scores []float64
	err    error
}

// score runs one model call under the concurrency limit and timeout. The call
// runs in its own goroutine and keeps its semaphore slot until it returns, so
// an abandoned call still counts against the limit.
func (r *Reranker) score(ctx context.Context, query string, texts []string) ([]float64, error) {
	if r.model == nil {
		return nil, errNoModel
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.sem.Acquire(callCtx, 1); err != nil {
		return nil, fmt.Errorf("waiting for relevance model slot: %w", err)
	}

	done := make(chan scoreResult, 1)
	go func() {
		defer r.sem.Release(1)
		defer func() {
			if p := recover(); p != nil {
				done <- scoreResult{err: fmt.Errorf("relevance model panicked: %v", p)}
			}
		}()
		scores, err := r.model.Score(callCtx, query, texts)
		done <- scoreResult{scores: scores, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		if len(res.scores) != len(texts) {
			return nil, fmt.Errorf("relevance model returned %d scores for %d texts", len(res.scores), len(texts))
		}
		for _, s := range res.scores {
			if math.IsNaN(s) || math.IsInf(s, 0) {
				return nil, errors.New("relevance model returned a non-finite score")
			}
		}
		return res.scores, nil
	case <-callCtx.Done():
		return nil, fmt.Errorf("relevance model call abandoned: %w", callCtx.Err())
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
