package search

import "strings"

// Complexity buckets a query by how much machinery it needs.
type Complexity string

// Query complexity classes.
const (
	// Simple queries are served by lexical recall with auto escalation.
	Simple Complexity = "simple"
	// Semantic queries carry soft intent words keyword recall cannot read;
	// the semantic tier is forced on.
	Semantic Complexity = "semantic"
	// Complex queries ask for aggregation or comparison and route to the
	// external reasoning agent.
	Complex Complexity = "complex"
)

// Classifier buckets queries by keyword cues.
type Classifier struct {
	softKeywords    []string
	complexKeywords []string
}

// NewClassifier creates a classifier from the configured keyword lists.
func NewClassifier(softKeywords, complexKeywords []string) *Classifier {
	return &Classifier{softKeywords: softKeywords, complexKeywords: complexKeywords}
}

// Classify buckets the query. Complex cues win over soft cues: "how many
// senior engineers" is an aggregation question first.
func (c *Classifier) Classify(query string) Complexity {
	q := strings.ToLower(query)
	for _, kw := range c.complexKeywords {
		if strings.Contains(q, kw) {
			return Complex
		}
	}
	for _, kw := range c.softKeywords {
		if strings.Contains(q, kw) {
			return Semantic
		}
	}
	return Simple
}
