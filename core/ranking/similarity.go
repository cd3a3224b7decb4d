// ABOUTME: Rune-level sequence similarity used to spot near-duplicate titles
// ABOUTME: Ratio semantics follow difflib matching blocks over the two strings

package ranking

import (
	"github.com/pmezard/go-difflib/difflib"
)

// SimilarityRatio returns a sequence-similarity ratio in [0,1] between a and b,
// compared rune by rune. It is 2*M/T where T is the combined rune length and M
// the number of runes in matching blocks. Two empty strings are identical.
func SimilarityRatio(a, b string) float64 {
	return difflib.NewMatcher(runeSeq(a), runeSeq(b)).Ratio()
}

func runeSeq(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
