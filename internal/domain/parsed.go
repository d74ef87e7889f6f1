package domain

// ParseVia records which parser produced a ParsedQuery.
type ParseVia string

// Parser provenance values.
const (
	ParsedDeterministic ParseVia = "deterministic"
	ParsedLLM           ParseVia = "llm"
)

// Targets holds the structured entities extracted from a query.
// All sets may be empty; an empty parse degrades to raw-text search.
type Targets struct {
	Personas   []string `json:"personas"`
	Companies  []string `json:"companies"`
	Industries []string `json:"industries"`
	Geos       []string `json:"geos"`
}

// IsEmpty reports whether no entities were extracted.
func (t Targets) IsEmpty() bool {
	return len(t.Personas) == 0 && len(t.Companies) == 0 &&
		len(t.Industries) == 0 && len(t.Geos) == 0
}

// ParsedQuery is the structured form of a free-text search query.
type ParsedQuery struct {
	Original string   `json:"original"`
	Expanded string   `json:"expanded"`
	Targets  Targets  `json:"targets"`
	Via      ParseVia `json:"via"`
	// Degraded is set when the LLM fallback was wanted but unavailable
	// or returned malformed output; the query proceeds with raw text.
	Degraded bool `json:"degraded,omitempty"`
}
