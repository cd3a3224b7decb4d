// ABOUTME: Deduplication of raw aggregator candidates
// ABOUTME: Drops repeated normalized URLs and near-identical titles, first seen wins

package ranking

import (
	"strings"

	"ai-search-api/core/domain"
	"ai-search-api/pkg/utils/urls"
)

// IsTitleDuplicate reports whether two titles are near-identical, ignoring case
func IsTitleDuplicate(a, b string, threshold float64) bool {
	return SimilarityRatio(strings.ToLower(a), strings.ToLower(b)) > threshold
}

// Deduplicate filters results given in engine-rank order. A candidate is
// rejected when its normalized URL was already accepted or when its title is
// too similar to any accepted title, so earlier-ranked results win. The
// output preserves input order and holds at most opts.DedupLimit entries.
func Deduplicate(results []domain.RawResult, opts Options) []domain.RawResult {
	opts = opts.withDefaults()

	seenURLs := make(map[string]struct{}, len(results))
	acceptedTitles := make([]string, 0, opts.DedupLimit)
	unique := make([]domain.RawResult, 0, min(len(results), opts.DedupLimit))

	for _, result := range results {
		if len(unique) >= opts.DedupLimit {
			break
		}

		normURL := urls.Normalize(result.URL)
		if _, dup := seenURLs[normURL]; dup {
			continue
		}

		title := strings.ToLower(result.Title)
		if titleSeen(title, acceptedTitles, opts.TitleDupThreshold) {
			continue
		}

		seenURLs[normURL] = struct{}{}
		acceptedTitles = append(acceptedTitles, title)
		unique = append(unique, result)
	}

	return unique
}

// titleSeen compares a lower-cased title against every accepted title
func titleSeen(title string, accepted []string, threshold float64) bool {
	for _, kept := range accepted {
		if SimilarityRatio(title, kept) > threshold {
			return true
		}
	}
	return false
}
