// ABOUTME: Builds the configured query analyzer
// ABOUTME: Selects llm, rules or tiered mode and adds memoization

package analyzer

import (
	"fmt"

	"ai-search-api/core/interfaces"
	"ai-search-api/pkg/config"
)

// New builds the analyzer described by cfg
func New(cfg config.AnalyzerConfig, logger interfaces.Logger) (interfaces.QueryAnalyzer, error) {
	var analyzer interfaces.QueryAnalyzer

	switch cfg.Mode {
	case "rules":
		analyzer = NewRulesAnalyzer()
	case "llm":
		model, err := NewAnthropicModel(cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		analyzer = NewLLMAnalyzer(model, logger, cfg.Timeout)
	case "tiered", "":
		var primary interfaces.QueryAnalyzer
		if cfg.APIKey != "" {
			model, err := NewAnthropicModel(cfg.APIKey, cfg.Model)
			if err != nil {
				return nil, err
			}
			primary = NewLLMAnalyzer(model, logger, cfg.Timeout)
		} else {
			logger.Info("No Anthropic API key configured, using rules analyzer only", nil)
		}
		analyzer = NewTieredAnalyzer(primary, NewRulesAnalyzer(), logger)
	default:
		return nil, fmt.Errorf("unknown analyzer mode %q", cfg.Mode)
	}

	if cfg.CacheSize > 0 {
		memo, err := NewMemoized(analyzer, cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		return memo, nil
	}
	return analyzer, nil
}
