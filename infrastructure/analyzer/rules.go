// ABOUTME: Local keyword-based query analyzer
// ABOUTME: Detects intent from vocabulary and expands well-known acronyms without any network call

package analyzer

import (
	"context"
	"strings"
	"unicode"

	"ai-search-api/core/domain"
)

var intentKeywords = map[domain.Intent][]string{
	domain.IntentResearch: {
		"paper", "papers", "study", "studies", "arxiv", "survey", "theorem", "journal",
		"citation", "dataset", "benchmark", "thesis", "preprint", "peer", "review", "algorithm",
	},
	domain.IntentBiomedical: {
		"gene", "genes", "genome", "protein", "disease", "clinical", "drug", "cancer", "crispr",
		"vaccine", "patient", "therapy", "covid", "dna", "rna", "pubmed", "trial", "antibody", "tumor",
	},
	domain.IntentCode: {
		"golang", "python", "javascript", "typescript", "rust", "java", "function", "error",
		"exception", "api", "library", "github", "compile", "compiler", "regex", "sql", "docker",
		"kubernetes", "npm", "install", "bug", "stacktrace",
	},
	domain.IntentNews: {
		"news", "latest", "today", "breaking", "announced", "announcement", "election",
		"headline", "headlines", "yesterday", "update", "press",
	},
}

var acronyms = map[string]string{
	"ml":   "machine learning",
	"ai":   "artificial intelligence",
	"llm":  "large language model",
	"llms": "large language models",
	"nlp":  "natural language processing",
	"rl":   "reinforcement learning",
	"cv":   "computer vision",
	"k8s":  "kubernetes",
	"js":   "javascript",
	"ts":   "typescript",
	"db":   "database",
	"mrna": "messenger rna",
	"gwas": "genome-wide association study",
}

// RulesAnalyzer analyzes queries from a fixed vocabulary
type RulesAnalyzer struct {
	keywords map[string]domain.Intent
}

// NewRulesAnalyzer builds the keyword index
func NewRulesAnalyzer() *RulesAnalyzer {
	index := make(map[string]domain.Intent)
	for _, intent := range domain.Intents {
		for _, word := range intentKeywords[intent] {
			if _, taken := index[word]; !taken {
				index[word] = intent
			}
		}
	}
	return &RulesAnalyzer{keywords: index}
}

// Analyze picks the intent with the most keyword hits; ties go to the earlier
// intent in domain.Intents and no hits means general.
func (r *RulesAnalyzer) Analyze(_ context.Context, query string) domain.QueryIntelligence {
	rewritten := strings.Join(strings.Fields(query), " ")
	if rewritten == "" {
		return domain.FallbackIntelligence(query)
	}

	tokens := tokenize(rewritten)

	hits := make(map[domain.Intent]int)
	for _, token := range tokens {
		if intent, ok := r.keywords[token]; ok {
			hits[intent]++
		}
	}

	intent := domain.IntentGeneral
	best := 0
	for _, candidate := range domain.Intents {
		if hits[candidate] > best {
			intent = candidate
			best = hits[candidate]
		}
	}

	expanded := rewritten
	var extra []string
	seen := make(map[string]bool)
	lower := strings.ToLower(rewritten)
	for _, token := range tokens {
		long, ok := acronyms[token]
		if !ok || seen[token] || strings.Contains(lower, long) {
			continue
		}
		seen[token] = true
		extra = append(extra, long)
	}
	if len(extra) > 0 {
		expanded = rewritten + " " + strings.Join(extra, " ")
	}

	return domain.QueryIntelligence{
		Intent:         intent,
		ExpandedQuery:  expanded,
		RewrittenQuery: rewritten,
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
