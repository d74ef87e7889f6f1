package domain

// Feature names. The vector is a fixed mapping: every feature is a pure
// function of (candidate, parsed query, raw query) with values in [0,1].
const (
	FeatureCompanyExactMatch  = "company_exact_match"
	FeaturePositionExactMatch = "position_exact_match"
	FeatureIndustryMatch      = "industry_match"
	FeatureLocationMatch      = "location_match"

	FeatureNameTokenOverlap     = "name_token_overlap"
	FeatureCompanyTokenOverlap  = "company_token_overlap"
	FeaturePositionTokenOverlap = "position_token_overlap"
	FeatureOverallTokenOverlap  = "overall_token_overlap"

	FeatureLexicalScoreNorm = "lexical_score_normalized"
	FeatureSemanticScore    = "semantic_score"

	FeatureFoundByLexical  = "found_by_lexical"
	FeatureFoundBySemantic = "found_by_semantic"
	FeatureFoundByBoth     = "found_by_both"
)

// FeatureNames lists every feature in vector order.
var FeatureNames = []string{
	FeatureCompanyExactMatch,
	FeaturePositionExactMatch,
	FeatureIndustryMatch,
	FeatureLocationMatch,
	FeatureNameTokenOverlap,
	FeatureCompanyTokenOverlap,
	FeaturePositionTokenOverlap,
	FeatureOverallTokenOverlap,
	FeatureLexicalScoreNorm,
	FeatureSemanticScore,
	FeatureFoundByLexical,
	FeatureFoundBySemantic,
	FeatureFoundByBoth,
}

// FeatureVector maps feature name to a value in [0,1].
type FeatureVector map[string]float64

// Contribution is one feature's weighted share of a final score.
type Contribution struct {
	Feature string  `json:"feature"`
	Value   float64 `json:"value"`
	Weight  float64 `json:"weight"`
	Product float64 `json:"contribution"`
}

// ScoredCandidate is a candidate with its feature vector and final score.
type ScoredCandidate struct {
	Candidate
	Features FeatureVector `json:"features,omitempty"`
	Score    float64       `json:"score"`
	// TopFeatures holds the top-3 contributions when explanation was requested.
	TopFeatures []Contribution `json:"explanation,omitempty"`
}
