package domain

import "context"

// QueryResolver is an injected external reasoning capability used as the
// query-parser fallback. Implementations call out to an LLM; the core never
// depends on one directly so the deterministic pipeline stays testable.
type QueryResolver interface {
	ResolveQuery(ctx context.Context, query string) (Targets, error)
}

// Agent handles complex/analytical queries the deterministic pipeline
// routes away from itself. It receives the raw query and whatever
// candidates were recalled so far, and returns either a contact list or
// an explanatory answer.
type Agent interface {
	Resolve(ctx context.Context, query string, candidates []Contact) (AgentResult, error)
}

// AgentResult is the external agent's answer.
type AgentResult struct {
	Contacts []Contact `json:"contacts,omitempty"`
	Answer   string    `json:"answer,omitempty"`
}
