// ABOUTME: LLM-backed query analyzer using langchaingo's Anthropic model
// ABOUTME: Asks the model for intent and expansions as JSON and falls back to the identity analysis on any failure

package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"

	"ai-search-api/core/domain"
	"ai-search-api/core/interfaces"
)

const (
	// DefaultTimeout bounds a single model call
	DefaultTimeout = 10 * time.Second

	maxTokens = 256
)

const systemPrompt = "You are a search query optimizer. Given a user query, return ONLY valid JSON with these fields:\n" +
	"- intent: one of [research, biomedical, code, news, general]\n" +
	"- expanded_query: improved version with synonyms, related terms, year range if relevant\n" +
	"- rewritten_query: clean display version"

var (
	fenceOpen  = regexp.MustCompile("^```(?:json)?\\s*")
	fenceClose = regexp.MustCompile("\\s*```$")
)

// NewAnthropicModel creates the langchaingo model used by LLMAnalyzer
func NewAnthropicModel(apiKey, model string) (llms.Model, error) {
	opts := []anthropic.Option{anthropic.WithToken(apiKey)}
	if model != "" {
		opts = append(opts, anthropic.WithModel(model))
	}
	llm, err := anthropic.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create anthropic client: %w", err)
	}
	return llm, nil
}

// LLMAnalyzer classifies and expands queries with a chat model
type LLMAnalyzer struct {
	model   llms.Model
	logger  interfaces.Logger
	timeout time.Duration
}

// NewLLMAnalyzer wraps model; a non-positive timeout uses DefaultTimeout
func NewLLMAnalyzer(model llms.Model, logger interfaces.Logger, timeout time.Duration) *LLMAnalyzer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &LLMAnalyzer{
		model:   model,
		logger:  logger,
		timeout: timeout,
	}
}

// Analyze never fails; any model or parsing error yields domain.FallbackIntelligence
func (a *LLMAnalyzer) Analyze(ctx context.Context, query string) domain.QueryIntelligence {
	if a.model == nil {
		return domain.FallbackIntelligence(query)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, query),
	}

	response, err := a.model.GenerateContent(ctx, messages,
		llms.WithMaxTokens(maxTokens),
		llms.WithTemperature(0),
	)
	if err != nil {
		a.logger.Warn("Query analysis failed", map[string]interface{}{
			"error": err.Error(),
		})
		return domain.FallbackIntelligence(query)
	}
	if response == nil || len(response.Choices) == 0 {
		a.logger.Warn("Query analysis returned no choices", nil)
		return domain.FallbackIntelligence(query)
	}

	intel, err := parseIntelligence(response.Choices[0].Content, query)
	if err != nil {
		a.logger.Warn("Query analysis returned malformed output", map[string]interface{}{
			"error": err.Error(),
		})
		return domain.FallbackIntelligence(query)
	}

	return intel
}

type analysis struct {
	Intent         *string `json:"intent"`
	ExpandedQuery  *string `json:"expanded_query"`
	RewrittenQuery *string `json:"rewritten_query"`
}

// parseIntelligence decodes the model's JSON answer. Missing fields default to the
// raw query and an unknown intent becomes general.
func parseIntelligence(text, query string) (domain.QueryIntelligence, error) {
	text = strings.TrimSpace(text)
	text = fenceOpen.ReplaceAllString(text, "")
	text = fenceClose.ReplaceAllString(text, "")

	var out analysis
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return domain.QueryIntelligence{}, fmt.Errorf("decode analysis: %w", err)
	}

	intel := domain.QueryIntelligence{
		Intent:         domain.IntentGeneral,
		ExpandedQuery:  query,
		RewrittenQuery: query,
	}
	if out.Intent != nil {
		intel.Intent, _ = domain.ParseIntent(*out.Intent)
	}
	if out.ExpandedQuery != nil {
		intel.ExpandedQuery = *out.ExpandedQuery
	}
	if out.RewrittenQuery != nil {
		intel.RewrittenQuery = *out.RewrittenQuery
	}
	return intel, nil
}
