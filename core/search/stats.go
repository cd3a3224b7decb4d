// ABOUTME: Usage statistics and health reporting for the search service
// ABOUTME: Summarizes store counters and probes each collaborator

package search

import (
	"context"
	"errors"
	"time"

	"ai-search-api/core/domain"
	coreerrors "ai-search-api/core/errors"
)

// healthProbeTimeout bounds each collaborator probe
const healthProbeTimeout = 3 * time.Second

// Summarize converts raw counters into the public statistics view
func Summarize(snap domain.CounterSnapshot) *domain.StatsSummary {
	summary := &domain.StatsSummary{
		QueriesTotal:    snap.QueriesTotal,
		QueriesByIntent: snap.QueriesByIntent,
	}
	if summary.QueriesByIntent == nil {
		summary.QueriesByIntent = map[string]int64{}
	}
	if snap.QueriesTotal > 0 {
		total := float64(snap.QueriesTotal)
		summary.CacheHitRate = roundTo(float64(snap.CacheHits)/total, 4)
		summary.AvgLatencyMS = roundTo(snap.TotalLatencyMS/total, 1)
	}
	return summary
}

// Stats reads the usage counters. Unlike the pipeline, a store failure here is
// returned to the caller.
func (s *SearchService) Stats(ctx context.Context) (*domain.StatsSummary, error) {
	if s.deps.Store == nil {
		return nil, &coreerrors.UpstreamError{Service: "store", Err: errors.New("store not configured")}
	}

	snap, err := s.deps.Store.Counters(ctx)
	if err != nil {
		s.deps.Logger.Warn("Failed to read usage counters", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, &coreerrors.UpstreamError{Service: "store", Retryable: true, Err: err}
	}
	return Summarize(snap), nil
}

// Health probes the store, the aggregator and the relevance model
func (s *SearchService) Health(ctx context.Context) domain.HealthStatus {
	status := domain.HealthStatus{
		Status:        "ok",
		Redis:         "connected",
		SearXNG:       "reachable",
		CrossEncoder:  "unavailable",
		UptimeSeconds: roundTo(s.now().Sub(s.startedAt).Seconds(), 1),
	}

	if s.deps.Store == nil || probe(ctx, s.deps.Store.Ping) != nil {
		status.Redis = "unavailable"
	}
	if s.deps.Aggregator == nil || probe(ctx, s.deps.Aggregator.Ping) != nil {
		status.SearXNG = "unreachable"
	}
	if s.reranker.HasModel() && probe(ctx, s.reranker.Ping) == nil {
		status.CrossEncoder = "loaded"
	}

	if status.Redis != "connected" || status.SearXNG != "reachable" {
		status.Status = "degraded"
	}
	return status
}

func probe(ctx context.Context, ping func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()
	return ping(ctx)
}
