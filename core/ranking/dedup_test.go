package ranking

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-search-api/core/domain"
)

func TestDeduplicate_IdenticalTitlesDifferentHosts(t *testing.T) {
	input := []domain.RawResult{
		{Title: "Attention Is All You Need", URL: "https://arxiv.org/abs/1706.03762", EngineRank: 0},
		{Title: "Attention Is All You Need", URL: "https://papers.example.org/attention", EngineRank: 1},
	}

	got := Deduplicate(input, DefaultOptions())

	require.Len(t, got, 1)
	assert.Equal(t, "https://arxiv.org/abs/1706.03762", got[0].URL)
}

func TestDeduplicate_NormalizedURLCollision(t *testing.T) {
	input := []domain.RawResult{
		{Title: "Go memory model", URL: "https://go.dev/ref/mem"},
		{Title: "Completely different title", URL: "https://GO.dev/ref/mem/?utm_source=hn#top"},
	}

	got := Deduplicate(input, DefaultOptions())

	require.Len(t, got, 1)
	assert.Equal(t, "Go memory model", got[0].Title)
}

func TestDeduplicate_TitleCaseInsensitive(t *testing.T) {
	input := []domain.RawResult{
		{Title: "Rust Ownership Explained", URL: "https://a.example.com/1"},
		{Title: "rust ownership explained", URL: "https://b.example.com/2"},
	}

	assert.Len(t, Deduplicate(input, DefaultOptions()), 1)
}

func TestDeduplicate_DistinctTitlesKept(t *testing.T) {
	input := []domain.RawResult{
		{Title: "Protein folding with deep learning", URL: "https://a.example.com/1"},
		{Title: "Kubernetes networking internals", URL: "https://b.example.com/2"},
		{Title: "History of the printing press", URL: "https://c.example.com/3"},
	}

	got := Deduplicate(input, DefaultOptions())

	require.Len(t, got, 3)
	for i := range input {
		assert.Equal(t, input[i].URL, got[i].URL, "order must be preserved")
	}
}

func TestDeduplicate_CapsAtLimit(t *testing.T) {
	input := make([]domain.RawResult, 0, 40)
	for i := 0; i < 40; i++ {
		input = append(input, domain.RawResult{
			Title:      strings.Repeat(string(rune(0x4E00+i)), 6),
			URL:        fmt.Sprintf("https://site%d.example.com/page", i),
			EngineRank: i,
		})
	}

	got := Deduplicate(input, DefaultOptions())

	require.Len(t, got, DefaultDedupLimit)
	assert.Equal(t, 0, got[0].EngineRank)
	assert.Equal(t, DefaultDedupLimit-1, got[len(got)-1].EngineRank)
}

func TestDeduplicate_CustomLimit(t *testing.T) {
	input := []domain.RawResult{
		{Title: "alpha", URL: "https://a.example.com"},
		{Title: "bravo zulu", URL: "https://b.example.com"},
		{Title: "charlie", URL: "https://c.example.com"},
	}

	got := Deduplicate(input, Options{DedupLimit: 2})

	assert.Len(t, got, 2)
}

func TestDeduplicate_Empty(t *testing.T) {
	got := Deduplicate(nil, DefaultOptions())

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDeduplicate_DoesNotMutateInput(t *testing.T) {
	input := []domain.RawResult{
		{Title: "same", URL: "https://a.example.com"},
		{Title: "same", URL: "https://b.example.com"},
	}
	before := append([]domain.RawResult(nil), input...)

	Deduplicate(input, DefaultOptions())

	assert.Equal(t, before, input)
}

func TestIsTitleDuplicate_Threshold(t *testing.T) {
	assert.True(t, IsTitleDuplicate("Attention Is All You Need", "attention is all you need", 0.85))
	assert.False(t, IsTitleDuplicate("Attention Is All You Need", "Graph neural networks review", 0.85))
	// Exactly at the threshold is not a duplicate.
	assert.False(t, IsTitleDuplicate("abcd", "bcde", 0.75))
}
