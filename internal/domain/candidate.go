package domain

// Source identifies the recall tier that produced a candidate.
type Source string

// Recall tiers.
const (
	SourceLexical  Source = "lexical"
	SourceSemantic Source = "semantic"
)

// Pre-sort blend weights for the cheap combined score computed during the
// union step. Authoritative ranking happens in the feature scorer.
const (
	LexicalBlendWeight  = 0.6
	SemanticBlendWeight = 0.4
)

// RecallHit is a raw match from a single recall tier, before union.
type RecallHit struct {
	Contact       Contact
	Score         float64
	MatchedFields []string
}

// Candidate is a contact recalled by one or both index tiers.
type Candidate struct {
	Contact       Contact  `json:"contact"`
	LexicalScore  float64  `json:"lexical_score"`
	SemanticScore float64  `json:"semantic_score"`
	Sources       []Source `json:"sources"`
	MatchedFields []string `json:"matched_fields,omitempty"`
	// Combined is the naive 0.6*lexical + 0.4*semantic pre-sort score.
	Combined float64 `json:"combined_score"`
}

// FoundBy reports whether the given tier recalled this candidate.
func (c Candidate) FoundBy(s Source) bool {
	for _, src := range c.Sources {
		if src == s {
			return true
		}
	}
	return false
}
