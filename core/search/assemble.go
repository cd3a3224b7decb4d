// ABOUTME: Response assembly from ranked results
// ABOUTME: Truncates to the caller limit, clamps scores and trims snippets

package search

import (
	"math"
	"time"

	"ai-search-api/core/domain"
	"ai-search-api/pkg/utils/html"
	"ai-search-api/pkg/utils/urls"
)

// MaxSnippetLength is the maximum snippet length in characters
const MaxSnippetLength = 500

// ResponseParams carries everything BuildResponse needs
type ResponseParams struct {
	Query         string
	ExpandedQuery string
	Intent        domain.Intent
	CacheHit      bool
	Elapsed       time.Duration
	Results       []domain.ScoredResult
	Limit         int
}

// BuildResponse converts ranked results into the public response. At most
// Limit results are emitted (all of them when Limit <= 0) and every score is
// clamped into [0,1] and rounded to four decimals.
func BuildResponse(p ResponseParams) *domain.SearchResponse {
	ranked := p.Results
	if p.Limit > 0 && len(ranked) > p.Limit {
		ranked = ranked[:p.Limit]
	}

	results := make([]domain.SearchResult, 0, len(ranked))
	for _, r := range ranked {
		results = append(results, domain.SearchResult{
			Title:         r.Title,
			URL:           r.URL,
			Snippet:       snippet(r.Content),
			Domain:        urls.ExtractDomain(r.URL),
			SourceEngine:  r.Engine,
			PublishedDate: formatMonth(r.PublishedDate),
			FinalScore:    clampScore(r.FinalScore),
			ScoreBreakdown: domain.ScoreBreakdown{
				Semantic:    clampScore(r.SemanticScore),
				Authority:   clampScore(r.AuthorityScore),
				Recency:     clampScore(r.RecencyScore),
				EngineTrust: clampScore(r.EngineTrustScore),
				Position:    clampScore(r.PositionScore),
			},
		})
	}

	return &domain.SearchResponse{
		Query:         p.Query,
		ExpandedQuery: p.ExpandedQuery,
		Intent:        p.Intent,
		CacheHit:      p.CacheHit,
		QueryTimeMS:   roundTo(float64(p.Elapsed)/float64(time.Millisecond), 1),
		Results:       results,
	}
}

// limitResponse returns a shallow copy of resp with at most limit results
func limitResponse(resp *domain.SearchResponse, limit int) *domain.SearchResponse {
	if limit <= 0 || len(resp.Results) <= limit {
		return resp
	}
	limited := *resp
	limited.Results = resp.Results[:limit]
	return &limited
}

func snippet(content string) string {
	text := html.StripHTML(content)
	runes := []rune(text)
	if len(runes) > MaxSnippetLength {
		return string(runes[:MaxSnippetLength])
	}
	return text
}

func formatMonth(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01")
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return roundTo(math.Max(0, math.Min(1, v)), 4)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
