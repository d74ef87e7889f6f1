// Package diversify spreads top results across companies and industries so
// one dominant employer cannot fill the whole page. The pass is greedy over
// the score-ordered list with per-group caps, then backfills without caps
// when the quotas leave slots empty. It reorders only; scores are untouched.
package diversify

import (
	"strings"

	"github.com/sixthdegree/contactsearch/internal/domain"
)

// Diversifier applies company and industry caps to a ranked list.
type Diversifier struct {
	maxPerCompany  int
	maxPerIndustry int
}

// New creates a diversifier with the given per-group caps.
func New(maxPerCompany, maxPerIndustry int) *Diversifier {
	return &Diversifier{maxPerCompany: maxPerCompany, maxPerIndustry: maxPerIndustry}
}

// Apply returns the top topK candidates with group caps enforced. When the
// pool is no larger than topK there is nothing to trade off, so the list
// passes through unchanged.
func (d *Diversifier) Apply(ranked []domain.ScoredCandidate, topK int) []domain.ScoredCandidate {
	if len(ranked) <= topK {
		return ranked
	}

	companyCounts := make(map[string]int)
	industryCounts := make(map[string]int)
	picked := make(map[int]bool, topK)
	out := make([]domain.ScoredCandidate, 0, topK)

	for i, c := range ranked {
		if len(out) >= topK {
			break
		}

		company := strings.ToLower(c.Contact.Company)
		if company == "" {
			company = "unknown"
		}
		industry := inferIndustry(c.Contact)

		if companyCounts[company] >= d.maxPerCompany {
			continue
		}
		if industryCounts[industry] >= d.maxPerIndustry {
			continue
		}

		out = append(out, c)
		picked[i] = true
		companyCounts[company]++
		industryCounts[industry]++
	}

	// Backfill in score order when quotas starved the page: relevant but
	// capped results beat empty slots.
	if len(out) < topK {
		for i, c := range ranked {
			if len(out) >= topK {
				break
			}
			if !picked[i] {
				out = append(out, c)
			}
		}
	}

	return out
}

// industryKeywords drives the rough industry bucketing used only for
// diversification quotas. Unknown contacts land in "other".
var industryKeywords = []struct {
	industry string
	keywords []string
}{
	{"tech", []string{"google", "meta", "microsoft", "apple", "amazon", "software", "engineer"}},
	{"fintech", []string{"stripe", "coinbase", "robinhood", "paypal", "fintech", "finance"}},
	{"healthcare", []string{"healthcare", "medical", "health", "biotech", "pharma"}},
	{"venture_capital", []string{"sequoia", "andreessen", "a16z", "partner", "vc", "venture"}},
	{"ecommerce", []string{"amazon", "shopify", "ecommerce", "retail"}},
	{"social", []string{"meta", "facebook", "twitter", "linkedin", "social"}},
}

func inferIndustry(c domain.Contact) string {
	text := strings.ToLower(c.Company + " " + c.Position)
	for _, group := range industryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(text, kw) {
				return group.industry
			}
		}
	}
	return "other"
}
