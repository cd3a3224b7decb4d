// ABOUTME: Coarse metadata scoring of deduplicated candidates
// ABOUTME: Explainable authority, recency, engine trust and position signals

package ranking

import (
	"math"
	"sort"
	"time"

	"ai-search-api/core/domain"
	"ai-search-api/pkg/utils/urls"
)

// Metadata score weights
const (
	metaAuthorityWeight   = 0.35
	metaRecencyWeight     = 0.20
	metaEngineTrustWeight = 0.25
	metaPositionWeight    = 0.20
)

// MetadataSignals holds the component signals of one candidate
type MetadataSignals struct {
	Metadata    float64
	Authority   float64
	Recency     float64
	EngineTrust float64
	Position    float64
}

// RecencyScore converts a publication date into a freshness score.
// Today scores 1.0, one year old 0.5; unknown dates and any arithmetic
// anomaly (such as far-future dates) score 0.5.
func RecencyScore(published *time.Time, now time.Time) float64 {
	if published == nil {
		return DefaultUnknownRecency
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(published.Year(), published.Month(), published.Day(), 0, 0, 0, 0, time.UTC)
	daysOld := math.Round(today.Sub(day).Hours() / 24)

	denom := 1.0 + daysOld/365.0
	if denom <= 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
		return DefaultUnknownRecency
	}
	return 1.0 / denom
}

// PositionScore dampens a 0-based engine rank logarithmically: 1/ln(2+rank).
// Rank 0 scores about 1.44; later stages clamp.
func PositionScore(rank int) float64 {
	if rank < 0 {
		rank = 0
	}
	return 1.0 / math.Log(2.0+float64(rank))
}

// ComputeMetadataScore scores one candidate. It never fails: every signal has a default.
func ComputeMetadataScore(result domain.RawResult, now time.Time, opts Options) MetadataSignals {
	opts = opts.withDefaults()

	host := urls.ExtractDomain(result.URL)
	signals := MetadataSignals{
		Authority:   Authority(host),
		Recency:     RecencyScore(result.PublishedDate, now),
		EngineTrust: EngineTrust(result.Engine),
		Position:    PositionScore(result.EngineRank),
	}

	boost := 0.0
	if IsSpecialist(host) {
		boost = opts.SpecialistBoost
	}

	signals.Metadata = metaAuthorityWeight*signals.Authority +
		metaRecencyWeight*signals.Recency +
		metaEngineTrustWeight*signals.EngineTrust +
		metaPositionWeight*signals.Position +
		boost

	return signals
}

// CoarseFilter scores every candidate, sorts by metadata score descending and
// keeps the top opts.CoarseLimit. Ties keep their deduplicated order.
func CoarseFilter(results []domain.RawResult, now time.Time, opts Options) []domain.ScoredResult {
	opts = opts.withDefaults()

	scored := make([]domain.ScoredResult, 0, len(results))
	for _, r := range results {
		s := ComputeMetadataScore(r, now, opts)
		scored = append(scored, domain.ScoredResult{
			RawResult:        r,
			MetadataScore:    s.Metadata,
			AuthorityScore:   s.Authority,
			RecencyScore:     s.Recency,
			EngineTrustScore: s.EngineTrust,
			PositionScore:    s.Position,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MetadataScore > scored[j].MetadataScore
	})

	if len(scored) > opts.CoarseLimit {
		scored = scored[:opts.CoarseLimit]
	}
	return scored
}
