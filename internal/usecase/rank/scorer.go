package rank

import (
	"sort"

	"github.com/sixthdegree/contactsearch/internal/domain"
)

// weights is the hand-tuned linear model. Exact-match signals dominate,
// token overlap and source scores carry the middle, provenance adds a small
// multi-tier agreement bonus. A learned model can replace this table without
// touching the feature factory.
var weights = map[string]float64{
	domain.FeatureCompanyExactMatch:  3.0,
	domain.FeaturePositionExactMatch: 2.5,
	domain.FeatureIndustryMatch:      2.0,
	domain.FeatureLocationMatch:      1.5,

	domain.FeatureNameTokenOverlap:     2.0,
	domain.FeatureCompanyTokenOverlap:  1.5,
	domain.FeaturePositionTokenOverlap: 1.5,
	domain.FeatureOverallTokenOverlap:  1.0,

	domain.FeatureLexicalScoreNorm: 2.0,
	domain.FeatureSemanticScore:    1.5,

	domain.FeatureFoundByBoth:     1.0,
	domain.FeatureFoundByLexical:  0.5,
	domain.FeatureFoundBySemantic: 0.5,
}

// topContributions is how many contributions an explanation carries.
const topContributions = 3

// Scorer computes the final relevance score from a feature vector.
type Scorer struct{}

// NewScorer creates the hand-tuned linear scorer.
func NewScorer() *Scorer { return &Scorer{} }

// Score returns the weighted sum of the feature vector. Iteration runs over
// the fixed feature-name order so scores are reproducible.
func (s *Scorer) Score(features domain.FeatureVector) float64 {
	var score float64
	for _, name := range domain.FeatureNames {
		score += weights[name] * features[name]
	}
	return score
}

// ScoreWithExplanation returns the score plus the top contributing features.
// The explanation is a view of the same computation, never a different one.
func (s *Scorer) ScoreWithExplanation(features domain.FeatureVector) (float64, []domain.Contribution) {
	var (
		score         float64
		contributions []domain.Contribution
	)
	for _, name := range domain.FeatureNames {
		product := weights[name] * features[name]
		score += product
		if product > 0 {
			contributions = append(contributions, domain.Contribution{
				Feature: name,
				Value:   features[name],
				Weight:  weights[name],
				Product: product,
			})
		}
	}

	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].Product > contributions[j].Product
	})
	if len(contributions) > topContributions {
		contributions = contributions[:topContributions]
	}
	return score, contributions
}

// Weight exposes one feature's weight, mainly for tests and diagnostics.
func (s *Scorer) Weight(feature string) float64 { return weights[feature] }
