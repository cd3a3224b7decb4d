// Package ranking implements the scoring stages of the search pipeline:
// deduplication of raw candidates, coarse metadata scoring and semantic
// re-ranking with a pairwise relevance model.
//
// Every stage is a function from an ordered slice to a new ordered slice;
// inputs are never modified in place.
//
//	unique := ranking.Deduplicate(raw, opts)
//	coarse := ranking.CoarseFilter(unique, time.Now(), opts)
//	ranked, outcome := reranker.Rerank(ctx, coarse, intel.ExpandedQuery)
package ranking
