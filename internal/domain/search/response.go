package search

import "github.com/sixthdegree/contactsearch/internal/domain"

// Tier identifies which pipeline variant served a request.
type Tier string

// Pipeline tiers.
const (
	TierCache       Tier = "cache"
	TierLexical     Tier = "lexical"
	TierHybrid      Tier = "lexical+semantic"
	TierAgent       Tier = "agent"
	TierAgentFailed Tier = "agent_degraded"
)

// Stage names used as keys in Response.StageLatencyMs.
const (
	StageParse      = "parse"
	StageCandidates = "candidates"
	StageFeatures   = "features"
	StageScore      = "score"
	StageDiversify  = "diversify"
	StageTotal      = "total"
)

// Response is the outcome of one search pipeline run.
type Response struct {
	Results     []domain.ScoredCandidate `json:"results"`
	ParsedQuery domain.ParsedQuery       `json:"parsed_query"`
	Cached      bool                     `json:"cached"`
	Tier        Tier                     `json:"tier"`
	// Agent carries the external agent's answer when Tier is TierAgent.
	Agent *domain.AgentResult `json:"agent,omitempty"`
	// Degraded flags non-fatal failures: parser fallback unavailable,
	// semantic index missing, or agent failure.
	Degraded       []string           `json:"degraded,omitempty"`
	StageLatencyMs map[string]float64 `json:"stage_latency_ms"`
}
