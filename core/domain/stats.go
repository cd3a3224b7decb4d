// ABOUTME: Usage statistics and health models
// ABOUTME: Raw counter snapshots from the store and their summarized API form

package domain

import "strings"

// Usage counter names shared by every store implementation
const (
	CounterQueriesTotal   = "queries_total"
	CounterCacheHits      = "cache_hits"
	CounterTotalLatencyMS = "total_latency_ms"
	CounterIntentPrefix   = "queries_by_intent:"
)

// IntentCounter returns the per-intent counter name
func IntentCounter(intent Intent) string {
	return CounterIntentPrefix + string(intent)
}

// CounterSnapshot is the raw state of the usage counters held by the store
type CounterSnapshot struct {
	QueriesTotal    int64
	CacheHits       int64
	TotalLatencyMS  float64
	QueriesByIntent map[string]int64
}

// Apply records a stored counter value in the snapshot. Unknown names are ignored.
func (s *CounterSnapshot) Apply(name string, value float64) {
	switch {
	case name == CounterQueriesTotal:
		s.QueriesTotal = int64(value)
	case name == CounterCacheHits:
		s.CacheHits = int64(value)
	case name == CounterTotalLatencyMS:
		s.TotalLatencyMS = value
	case strings.HasPrefix(name, CounterIntentPrefix):
		if s.QueriesByIntent == nil {
			s.QueriesByIntent = map[string]int64{}
		}
		s.QueriesByIntent[strings.TrimPrefix(name, CounterIntentPrefix)] = int64(value)
	}
}

// StatsSummary is the public view of the usage counters
type StatsSummary struct {
	QueriesTotal    int64            `json:"queries_total"`
	CacheHitRate    float64          `json:"cache_hit_rate"`
	AvgLatencyMS    float64          `json:"avg_latency_ms"`
	QueriesByIntent map[string]int64 `json:"queries_by_intent"`
}

// HealthStatus reports the reachability of each collaborator
type HealthStatus struct {
	Status        string  `json:"status" enum:"ok,degraded"`
	Redis         string  `json:"redis" enum:"connected,unavailable"`
	SearXNG       string  `json:"searxng" enum:"reachable,unreachable"`
	CrossEncoder  string  `json:"cross_encoder" enum:"loaded,unavailable"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}
