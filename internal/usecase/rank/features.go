// Package rank computes relevance features for recalled candidates and
// scores them with a hand-tuned linear model. Features are pure functions of
// the candidate, the parsed query, and the raw query text, so the same pool
// always ranks the same way.
package rank

import (
	"strings"

	"github.com/sixthdegree/contactsearch/internal/domain"
)

// FeatureFactory computes the feature vector for one candidate.
type FeatureFactory struct {
	scoreScale float64
}

// NewFeatureFactory creates a factory. scoreScale normalizes raw lexical
// scores to [0,1].
func NewFeatureFactory(scoreScale float64) *FeatureFactory {
	return &FeatureFactory{scoreScale: scoreScale}
}

// Compute builds the full feature vector. Every value lands in [0,1].
func (f *FeatureFactory) Compute(c domain.Candidate, parsed domain.ParsedQuery, query string) domain.FeatureVector {
	features := make(domain.FeatureVector, len(domain.FeatureNames))

	f.exactMatch(features, c.Contact, parsed.Targets)
	f.tokenOverlap(features, c.Contact, query)
	f.sourceScores(features, c)
	f.provenance(features, c)

	return features
}

// exactMatch sets binary indicators for target substring hits on contact
// fields.
func (f *FeatureFactory) exactMatch(out domain.FeatureVector, contact domain.Contact, targets domain.Targets) {
	company := strings.ToLower(contact.Company)
	position := strings.ToLower(contact.Position)

	out[domain.FeatureCompanyExactMatch] = boolFeature(anySubstring(company, targets.Companies))
	out[domain.FeaturePositionExactMatch] = boolFeature(anySubstring(position, targets.Personas))
	out[domain.FeatureIndustryMatch] = boolFeature(anySubstring(company+" "+position, targets.Industries))

	// Contacts carry no location field; the signal stays in the vector as a
	// constant zero so the weight table keeps its shape.
	out[domain.FeatureLocationMatch] = 0
}

// tokenOverlap sets the share of query tokens appearing in each contact
// field, and across all fields combined.
func (f *FeatureFactory) tokenOverlap(out domain.FeatureVector, contact domain.Contact, query string) {
	queryTokens := tokenSet(strings.ToLower(query))
	denom := float64(max(len(queryTokens), 1))

	out[domain.FeatureNameTokenOverlap] = overlapCount(queryTokens, contact.FullName) / denom
	out[domain.FeatureCompanyTokenOverlap] = overlapCount(queryTokens, contact.Company) / denom
	out[domain.FeaturePositionTokenOverlap] = overlapCount(queryTokens, contact.Position) / denom
	out[domain.FeatureOverallTokenOverlap] = overlapCount(queryTokens, contact.SearchText()) / denom
}

func (f *FeatureFactory) sourceScores(out domain.FeatureVector, c domain.Candidate) {
	norm := c.LexicalScore / f.scoreScale
	if norm > 1 {
		norm = 1
	}
	if norm < 0 {
		norm = 0
	}
	out[domain.FeatureLexicalScoreNorm] = norm
	out[domain.FeatureSemanticScore] = c.SemanticScore
}

func (f *FeatureFactory) provenance(out domain.FeatureVector, c domain.Candidate) {
	lexical := c.FoundBy(domain.SourceLexical)
	semantic := c.FoundBy(domain.SourceSemantic)
	out[domain.FeatureFoundByLexical] = boolFeature(lexical)
	out[domain.FeatureFoundBySemantic] = boolFeature(semantic)
	out[domain.FeatureFoundByBoth] = boolFeature(lexical && semantic)
}

func anySubstring(haystack string, needles []string) bool {
	if haystack == "" {
		return false
	}
	for _, n := range needles {
		if n != "" && strings.Contains(haystack, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

func overlapCount(queryTokens map[string]struct{}, fieldText string) float64 {
	count := 0
	for tok := range tokenSet(strings.ToLower(fieldText)) {
		if _, ok := queryTokens[tok]; ok {
			count++
		}
	}
	return float64(count)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		set[t] = struct{}{}
	}
	return set
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
