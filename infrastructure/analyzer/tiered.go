// ABOUTME: Tiered analyzer combining the LLM analyzer with the local rules analyzer
// ABOUTME: Uses the rules result whenever the model falls back or echoes the query back unchanged

package analyzer

import (
	"context"
	"strings"

	"ai-search-api/core/domain"
	"ai-search-api/core/interfaces"
)

// TieredAnalyzer prefers the primary analyzer and consults rules when it adds nothing
type TieredAnalyzer struct {
	primary interfaces.QueryAnalyzer
	rules   interfaces.QueryAnalyzer
	logger  interfaces.Logger
}

// NewTieredAnalyzer creates a tiered analyzer; primary may be nil
func NewTieredAnalyzer(primary, rules interfaces.QueryAnalyzer, logger interfaces.Logger) *TieredAnalyzer {
	return &TieredAnalyzer{
		primary: primary,
		rules:   rules,
		logger:  logger,
	}
}

// Analyze never fails
func (t *TieredAnalyzer) Analyze(ctx context.Context, query string) domain.QueryIntelligence {
	if t.primary == nil {
		return t.rules.Analyze(ctx, query)
	}

	intel := t.primary.Analyze(ctx, query)
	if !intel.Fallback && !looksUnchanged(intel, query) {
		return intel
	}

	local := t.rules.Analyze(ctx, query)
	if local.Intent == domain.IntentGeneral && local.ExpandedQuery == local.RewrittenQuery {
		return intel
	}

	t.logger.Debug("Using rules analysis", map[string]interface{}{
		"primary_fallback": intel.Fallback,
		"intent":           string(local.Intent),
	})
	return local
}

// looksUnchanged reports a general-intent answer whose expansion is the query itself.
// A model that genuinely judged the query general and complete is indistinguishable
// from one that failed silently.
func looksUnchanged(intel domain.QueryIntelligence, query string) bool {
	return intel.Intent == domain.IntentGeneral &&
		strings.EqualFold(strings.TrimSpace(intel.ExpandedQuery), strings.TrimSpace(query))
}
