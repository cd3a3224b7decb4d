// ABOUTME: Tuning options for the ranking stages
// ABOUTME: Stage caps, thresholds and the defaults applied to zero values

package ranking

// Stage caps and thresholds. They are tuning constants carried over from the
// production pipeline and can be overridden through Options.
const (
	DefaultDedupLimit         = 15
	DefaultTitleDupThreshold  = 0.85
	DefaultCoarseLimit        = 12
	DefaultRerankLimit        = 8
	DefaultSpecialistBoost    = 0.15
	DefaultUniformSemantic    = 0.5
	DefaultUnknownRecency     = 0.5
	DefaultUnknownEngineTrust = 0.5
)

// Options tunes the ranking stages
type Options struct {
	// DedupLimit caps the number of unique candidates kept after deduplication
	DedupLimit int

	// TitleDupThreshold is the similarity ratio above which two titles are duplicates
	TitleDupThreshold float64

	// CoarseLimit caps the number of candidates kept after metadata scoring
	CoarseLimit int

	// RerankLimit caps the number of candidates kept after semantic re-ranking
	RerankLimit int

	// SpecialistBoost is added to the metadata score of curated specialist domains
	SpecialistBoost float64
}

// DefaultOptions returns the production tuning
func DefaultOptions() Options {
	return Options{
		DedupLimit:        DefaultDedupLimit,
		TitleDupThreshold: DefaultTitleDupThreshold,
		CoarseLimit:       DefaultCoarseLimit,
		RerankLimit:       DefaultRerankLimit,
		SpecialistBoost:   DefaultSpecialistBoost,
	}
}

// withDefaults fills zero-valued fields from DefaultOptions
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.DedupLimit <= 0 {
		o.DedupLimit = d.DedupLimit
	}
	if o.TitleDupThreshold <= 0 {
		o.TitleDupThreshold = d.TitleDupThreshold
	}
	if o.CoarseLimit <= 0 {
		o.CoarseLimit = d.CoarseLimit
	}
	if o.RerankLimit <= 0 {
		o.RerankLimit = d.RerankLimit
	}
	if o.SpecialistBoost < 0 {
		o.SpecialistBoost = 0
	}
	return o
}
