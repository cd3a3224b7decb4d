package ranking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-search-api/core/domain"
)

func scored(title string, authority float64) domain.ScoredResult {
	return domain.ScoredResult{
		RawResult:        domain.RawResult{Title: title, URL: "https://" + title + ".example.com", Content: title + " content"},
		AuthorityScore:   authority,
		RecencyScore:     0.5,
		EngineTrustScore: 0.7,
		PositionScore:    0.9,
	}
}

func TestNormalize(t *testing.T) {
	assert.Empty(t, Normalize(nil))
	assert.Equal(t, []float64{0.5}, Normalize([]float64{3.2}))
	assert.Equal(t, []float64{0.5, 0.5, 0.5}, Normalize([]float64{-1, -1, -1}))

	got := Normalize([]float64{-4, 0, 6})
	assert.InDeltaSlice(t, []float64{0, 0.4, 1}, got, 1e-9)
}

func TestNormalize_Bounds(t *testing.T) {
	inputs := [][]float64{
		{1, 2, 3, 4},
		{-10.5, 7.25, 0, 3},
		{1e9, -1e9},
	}

	for _, in := range inputs {
		out := Normalize(in)
		require.Len(t, out, len(in))
		for _, v := range out {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestRerank_SingleCandidateWeightedSum(t *testing.T) {
	model := &mockRelevanceModel{
		scoreFunc: func(ctx context.Context, query string, texts []string) ([]float64, error) {
			return []float64{7.3}, nil
		},
	}
	r := NewReranker(model, &mockLogger{})

	input := []domain.ScoredResult{{
		RawResult:        domain.RawResult{Title: "only"},
		AuthorityScore:   1.0,
		RecencyScore:     1.0,
		EngineTrustScore: 1.0,
		PositionScore:    1.0,
	}}

	got, outcome := r.Rerank(context.Background(), input, "query")

	require.Len(t, got, 1)
	assert.Equal(t, SemanticScored, outcome)
	assert.InDelta(t, 0.5, got[0].SemanticScore, 1e-9)
	assert.InDelta(t, 0.725, got[0].FinalScore, 1e-9)
}

func TestRerank_OrdersBySemanticScore(t *testing.T) {
	model := &mockRelevanceModel{
		scoreFunc: func(ctx context.Context, query string, texts []string) ([]float64, error) {
			return []float64{-2.0, 5.0, 1.5}, nil
		},
	}
	r := NewReranker(model, &mockLogger{})

	input := []domain.ScoredResult{scored("low", 0.5), scored("high", 0.5), scored("mid", 0.5)}

	got, _ := r.Rerank(context.Background(), input, "query")

	require.Len(t, got, 3)
	assert.Equal(t, "high", got[0].Title)
	assert.Equal(t, "mid", got[1].Title)
	assert.Equal(t, "low", got[2].Title)
	assert.InDelta(t, 1.0, got[0].SemanticScore, 1e-9)
	assert.InDelta(t, 0.0, got[2].SemanticScore, 1e-9)
}

func TestRerank_ScoresTitles(t *testing.T) {
	var seen []string
	model := &mockRelevanceModel{
		scoreFunc: func(ctx context.Context, query string, texts []string) ([]float64, error) {
			assert.Equal(t, "golang generics", query)
			seen = texts
			return make([]float64, len(texts)), nil
		},
	}
	r := NewReranker(model, &mockLogger{})

	r.Rerank(context.Background(), []domain.ScoredResult{scored("alpha", 0.3)}, "golang generics")

	assert.Equal(t, []string{"alpha"}, seen)
}

func TestRerank_ModelErrorFallsBackToUniform(t *testing.T) {
	logger := &mockLogger{}
	model := &mockRelevanceModel{
		scoreFunc: func(ctx context.Context, query string, texts []string) ([]float64, error) {
			return nil, errors.New("model exploded")
		},
	}
	r := NewReranker(model, logger)

	input := make([]domain.ScoredResult, 0, 12)
	for i := 0; i < 12; i++ {
		input = append(input, scored(fmt.Sprintf("r%d", i), float64(i)/12))
	}

	got, outcome := r.Rerank(context.Background(), input, "query")

	assert.Equal(t, SemanticFallback, outcome)
	assert.Len(t, got, DefaultRerankLimit)
	assert.Equal(t, 1, logger.warnCount())
	for _, res := range got {
		assert.InDelta(t, DefaultUniformSemantic, res.SemanticScore, 1e-9)
		assert.GreaterOrEqual(t, res.FinalScore, 0.0)
		assert.LessOrEqual(t, res.FinalScore, 1.0)
	}
	// With uniform semantics, authority decides.
	assert.Equal(t, "r11", got[0].Title)
}

func TestRerank_MalformedModelOutputFallsBack(t *testing.T) {
	cases := map[string][]float64{
		"length mismatch": {1.0},
		"nan score":       {1.0, math.NaN()},
		"inf score":       {math.Inf(1), 0},
	}

	for name, scores := range cases {
		t.Run(name, func(t *testing.T) {
			model := &mockRelevanceModel{
				scoreFunc: func(ctx context.Context, query string, texts []string) ([]float64, error) {
					return scores, nil
				},
			}
			r := NewReranker(model, &mockLogger{})

			got, outcome := r.Rerank(context.Background(), []domain.ScoredResult{scored("a", 0.3), scored("b", 0.4)}, "q")

			assert.Equal(t, SemanticFallback, outcome)
			require.Len(t, got, 2)
			assert.InDelta(t, DefaultUniformSemantic, got[0].SemanticScore, 1e-9)
		})
	}
}

func TestRerank_PanicFallsBack(t *testing.T) {
	model := &mockRelevanceModel{
		scoreFunc: func(ctx context.Context, query string, texts []string) ([]float64, error) {
			panic("boom")
		},
	}
	r := NewReranker(model, &mockLogger{})

	got, outcome := r.Rerank(context.Background(), []domain.ScoredResult{scored("a", 0.3)}, "q")

	assert.Equal(t, SemanticFallback, outcome)
	assert.Len(t, got, 1)
}

func TestRerank_TimeoutFallsBack(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	model := &mockRelevanceModel{
		scoreFunc: func(ctx context.Context, query string, texts []string) ([]float64, error) {
			<-release
			return []float64{1}, nil
		},
	}
	r := NewReranker(model, &mockLogger{}, WithRerankTimeout(20*time.Millisecond))

	start := time.Now()
	got, outcome := r.Rerank(context.Background(), []domain.ScoredResult{scored("a", 0.3)}, "q")

	assert.Equal(t, SemanticFallback, outcome)
	assert.Len(t, got, 1)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestRerank_NilModelFallsBackQuietly(t *testing.T) {
	logger := &mockLogger{}
	r := NewReranker(nil, logger)

	got, outcome := r.Rerank(context.Background(), []domain.ScoredResult{scored("a", 0.3)}, "q")

	assert.Equal(t, SemanticFallback, outcome)
	assert.Len(t, got, 1)
	assert.Equal(t, 0, logger.warnCount())
	assert.False(t, r.HasModel())
}

func TestRerank_WithoutModel(t *testing.T) {
	var calls int32
	model := &mockRelevanceModel{
		scoreFunc: func(ctx context.Context, query string, texts []string) ([]float64, error) {
			atomic.AddInt32(&calls, 1)
			return make([]float64, len(texts)), nil
		},
	}
	r := NewReranker(model, &mockLogger{})

	got, outcome := r.WithoutModel().Rerank(context.Background(), []domain.ScoredResult{scored("a", 0.3)}, "q")

	assert.Equal(t, SemanticFallback, outcome)
	assert.InDelta(t, DefaultUniformSemantic, got[0].SemanticScore, 1e-9)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.True(t, r.HasModel())
}

func TestReranker_Ping(t *testing.T) {
	down := errors.New("model not loaded")
	r := NewReranker(&mockRelevanceModel{pingFunc: func(ctx context.Context) error { return down }}, &mockLogger{})

	assert.ErrorIs(t, r.Ping(context.Background()), down)
	assert.ErrorIs(t, r.WithoutModel().Ping(context.Background()), errNoModel)
	assert.NoError(t, NewReranker(&mockRelevanceModel{}, &mockLogger{}).Ping(context.Background()))
}

func TestRerank_EmptyInputSkipsModel(t *testing.T) {
	var calls int32
	model := &mockRelevanceModel{
		scoreFunc: func(ctx context.Context, query string, texts []string) ([]float64, error) {
			atomic.AddInt32(&calls, 1)
			return nil, nil
		},
	}
	r := NewReranker(model, &mockLogger{})

	got, outcome := r.Rerank(context.Background(), nil, "q")

	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.Equal(t, SemanticSkipped, outcome)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestRerank_ClampsFinalScore(t *testing.T) {
	model := &mockRelevanceModel{
		scoreFunc: func(ctx context.Context, query string, texts []string) ([]float64, error) {
			return []float64{10, 0}, nil
		},
	}
	r := NewReranker(model, &mockLogger{})

	hot := domain.ScoredResult{
		RawResult:        domain.RawResult{Title: "hot"},
		AuthorityScore:   1.0,
		RecencyScore:     1.2,
		EngineTrustScore: 1.0,
		PositionScore:    1.4427,
	}

	got, _ := r.Rerank(context.Background(), []domain.ScoredResult{hot, scored("cold", 0.1)}, "q")

	require.Len(t, got, 2)
	assert.Equal(t, "hot", got[0].Title)
	assert.Equal(t, 1.0, got[0].FinalScore)
}

func TestRerank_DoesNotMutateInput(t *testing.T) {
	r := NewReranker(&mockRelevanceModel{}, &mockLogger{})
	input := []domain.ScoredResult{scored("a", 0.3), scored("b", 0.9)}
	before := append([]domain.ScoredResult(nil), input...)

	r.Rerank(context.Background(), input, "q")

	assert.Equal(t, before, input)
}

func TestRerank_ConcurrencyLimit(t *testing.T) {
	var inFlight, peak int32
	model := &mockRelevanceModel{
		scoreFunc: func(ctx context.Context, query string, texts []string) ([]float64, error) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return make([]float64, len(texts)), nil
		},
	}
	r := NewReranker(model, &mockLogger{}, WithRerankConcurrency(1))

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			r.Rerank(context.Background(), []domain.ScoredResult{scored("a", 0.3)}, "q")
			done <- struct{}{}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&peak))
}
