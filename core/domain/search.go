// ABOUTME: Search domain models for the aggregation and ranking pipeline
// ABOUTME: Defines raw candidates, scored candidates, query intelligence and the public response

package domain

import (
	"strings"
	"time"
)

// Intent is the closed-set classification of a query's purpose
type Intent string

const (
	IntentResearch   Intent = "research"
	IntentBiomedical Intent = "biomedical"
	IntentCode       Intent = "code"
	IntentNews       Intent = "news"
	IntentGeneral    Intent = "general"
)

// Intents lists every valid intent in a stable order
var Intents = []Intent{IntentResearch, IntentBiomedical, IntentCode, IntentNews, IntentGeneral}

// ParseIntent maps a free-form label onto a known intent.
// Unknown labels map to IntentGeneral and report false.
func ParseIntent(label string) (Intent, bool) {
	candidate := Intent(strings.ToLower(strings.TrimSpace(label)))
	for _, intent := range Intents {
		if intent == candidate {
			return intent, true
		}
	}
	return IntentGeneral, false
}

// RawResult is one candidate returned by the search aggregator before scoring
type RawResult struct {
	// Title is the result title as reported by the engine
	Title string

	// URL is the result link
	URL string

	// Content is the engine-provided snippet
	Content string

	// Engine is the name of the engine that produced the result
	Engine string

	// Score is the engine-reported relevance score
	Score float64

	// PublishedDate is the publication date, nil when unknown
	PublishedDate *time.Time

	// EngineRank is the 0-based position within the aggregator's result list
	EngineRank int
}

// ScoredResult is a RawResult annotated with ranking signals.
// Component values are nominally in [0,1] but are only clamped on the way out.
type ScoredResult struct {
	RawResult

	MetadataScore    float64
	SemanticScore    float64
	AuthorityScore   float64
	RecencyScore     float64
	EngineTrustScore float64
	PositionScore    float64
	FinalScore       float64
}

// QueryIntelligence is the analyzer's view of a query
type QueryIntelligence struct {
	Intent         Intent
	ExpandedQuery  string
	RewrittenQuery string

	// Fallback is set when the analyzer could not enrich the query
	Fallback bool
}

// FallbackIntelligence is the identity analysis used whenever enrichment fails
func FallbackIntelligence(query string) QueryIntelligence {
	return QueryIntelligence{
		Intent:         IntentGeneral,
		ExpandedQuery:  query,
		RewrittenQuery: query,
		Fallback:       true,
	}
}

// EngineConfig lists the engines and categories used for one intent
type EngineConfig struct {
	Engines    []string `yaml:"engines" json:"engines"`
	Categories []string `yaml:"categories" json:"categories"`
}

// Clone returns a deep copy so callers cannot mutate a shared routing table
func (c EngineConfig) Clone() EngineConfig {
	return EngineConfig{
		Engines:    append([]string(nil), c.Engines...),
		Categories: append([]string(nil), c.Categories...),
	}
}

// ScoreBreakdown exposes the per-result ranking signals
type ScoreBreakdown struct {
	Semantic    float64 `json:"semantic" minimum:"0" maximum:"1"`
	Authority   float64 `json:"authority" minimum:"0" maximum:"1"`
	Recency     float64 `json:"recency" minimum:"0" maximum:"1"`
	EngineTrust float64 `json:"engine_trust" minimum:"0" maximum:"1"`
	Position    float64 `json:"position" minimum:"0" maximum:"1"`
}

// SearchResult is one ranked result in the public response
type SearchResult struct {
	Title          string         `json:"title"`
	URL            string         `json:"url"`
	Snippet        string         `json:"snippet"`
	Domain         string         `json:"domain"`
	SourceEngine   string         `json:"source_engine"`
	PublishedDate  string         `json:"published_date,omitempty" doc:"Publication month as YYYY-MM"`
	FinalScore     float64        `json:"final_score" minimum:"0" maximum:"1"`
	ScoreBreakdown ScoreBreakdown `json:"score_breakdown"`
}

// SearchResponse is the public response contract, also persisted as the cache entry
type SearchResponse struct {
	Query         string         `json:"query"`
	ExpandedQuery string         `json:"expanded_query"`
	Intent        Intent         `json:"intent"`
	CacheHit      bool           `json:"cache_hit"`
	QueryTimeMS   float64        `json:"query_time_ms"`
	Results       []SearchResult `json:"results"`
}
