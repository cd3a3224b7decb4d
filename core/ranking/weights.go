// ABOUTME: Static authority, engine trust and specialist-domain tables
// ABOUTME: Source credibility weights consumed by the coarse scorer

package ranking

// DefaultAuthority is the authority of any domain absent from both tiers
const DefaultAuthority = 0.30

var highAuthority = map[string]float64{
	"arxiv.org":               1.0,
	"pubmed.ncbi.nlm.nih.gov": 1.0,
	"ncbi.nlm.nih.gov":        0.95,
	"nature.com":              0.95,
	"science.org":             0.95,
	"nejm.org":                0.95,
	"thelancet.com":           0.95,
	"jamanetwork.com":         0.90,
	"semanticscholar.org":     0.90,
	"cell.com":                0.90,
	"bmj.com":                 0.90,
	"paperswithcode.com":      0.88,
	"huggingface.co":          0.88,
	"github.com":              0.85,
	"openai.com":              0.85,
	"anthropic.com":           0.85,
	"deepmind.google":         0.85,
	"acm.org":                 0.85,
	"ieee.org":                0.85,
	"springer.com":            0.80,
}

var mediumAuthority = map[string]float64{
	"towardsdatascience.com": 0.65,
	"medium.com":             0.55,
	"kdnuggets.com":          0.60,
	"stackoverflow.com":      0.75,
	"reddit.com":             0.50,
	"wikipedia.org":          0.70,
}

var engineTrust = map[string]float64{
	"arxiv":            1.0,
	"pubmed":           1.0,
	"semantic_scholar": 1.0,
	"github":           0.85,
	"ddg":              0.70,
	"brave":            0.70,
}

// specialistDomains are research, health and ML publication hosts that earn the boost
var specialistDomains = map[string]struct{}{
	"arxiv.org":               {},
	"pubmed.ncbi.nlm.nih.gov": {},
	"nature.com":              {},
	"nejm.org":                {},
	"thelancet.com":           {},
	"jamanetwork.com":         {},
	"semanticscholar.org":     {},
	"paperswithcode.com":      {},
	"huggingface.co":          {},
	"github.com":              {},
	"bmj.com":                 {},
	"cell.com":                {},
	"ncbi.nlm.nih.gov":        {},
	"science.org":             {},
}

// Authority returns the credibility weight of a lower-cased hostname
func Authority(domain string) float64 {
	if w, ok := highAuthority[domain]; ok {
		return w
	}
	if w, ok := mediumAuthority[domain]; ok {
		return w
	}
	return DefaultAuthority
}

// EngineTrust returns the reliability weight of an engine name
func EngineTrust(engine string) float64 {
	if w, ok := engineTrust[engine]; ok {
		return w
	}
	return DefaultUnknownEngineTrust
}

// IsSpecialist reports whether a hostname belongs to the curated specialist set
func IsSpecialist(domain string) bool {
	_, ok := specialistDomains[domain]
	return ok
}
