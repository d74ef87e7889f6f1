package contactsearch

import (
	"context"
	"time"
)

// Contact is one professional contact to index.
type Contact struct {
	FullName    string
	Company     string
	Position    string
	Email       string
	ConnectedAt time.Time
}

// Embedder converts text to vector embeddings. Setting one enables the
// semantic recall tier.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Targets is the structured form of a search query.
type Targets struct {
	Personas   []string
	Companies  []string
	Industries []string
	Geos       []string
}

// AgentAnswer is the reasoning agent's response to an analytical query.
type AgentAnswer struct {
	Contacts []Contact
	Answer   string
}

// Reasoner is the LLM provider behind the query-parser fallback and the
// analytical agent.
type Reasoner interface {
	ResolveQuery(ctx context.Context, query string) (Targets, error)
	Answer(ctx context.Context, query string, contacts []Contact) (AgentAnswer, error)
}

// SearchParams are the inputs for one search.
type SearchParams struct {
	Tenant string
	Query  string
	// TopK is the number of results to return; 0 means the default of 10.
	TopK int
	// DisableSemantic turns off the semantic recall tier for this query.
	DisableSemantic bool
	// DisableDiversify turns off company/industry diversification.
	DisableDiversify bool
	// Explain attaches per-result top feature contributions.
	Explain bool
}

// SearchResult is a single ranked contact.
type SearchResult struct {
	Contact       Contact
	Score         float64
	LexicalScore  float64
	SemanticScore float64
	Sources       []string
	Explanation   []FeatureContribution
}

// FeatureContribution is one feature's weighted share of a result's score.
type FeatureContribution struct {
	Feature      string
	Value        float64
	Weight       float64
	Contribution float64
}

// SearchResponse is the outcome of one search.
type SearchResponse struct {
	Results []SearchResult
	Targets Targets
	Tier    string
	Cached  bool
	// Agent is set when the query routed to the reasoning agent.
	Agent    *AgentAnswer
	Degraded []string
}

// IndexInfo summarizes a built snapshot.
type IndexInfo struct {
	Version  int64
	Contacts int
	Semantic bool
}

// CacheStats counts result-cache activity since the client was created.
type CacheStats struct {
	Hits   int64
	Misses int64
}
