// Package search holds the search request and response value objects shared
// between the orchestrator and the transport layer.
package search

import (
	"fmt"
	"strings"

	"github.com/sixthdegree/contactsearch/internal/domain"
)

// Request parameter limits.
const (
	MaxQueryLength = 1024
	DefaultTopK    = 10
	MaxTopK        = 100
)

// Request is a validated search request.
type Request struct {
	tenant       string
	query        string
	topK         int
	useSemantic  bool
	useDiversify bool
	explain      bool
}

// NewRequest validates and normalizes search parameters.
// The query may be empty (it degrades to an empty result set downstream);
// topK defaults to 10 and is clamped to 100.
func NewRequest(tenant, query string, topK int, useSemantic, useDiversify, explain bool) (Request, error) {
	if tenant == "" {
		return Request{}, domain.ErrTenantRequired
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}
	return Request{
		tenant:       tenant,
		query:        query,
		topK:         topK,
		useSemantic:  useSemantic,
		useDiversify: useDiversify,
		explain:      explain,
	}, nil
}

// Tenant returns the tenant identifier.
func (r *Request) Tenant() string { return r.tenant }

// Query returns the raw query text.
func (r *Request) Query() string { return r.query }

// NormalizedQuery returns the lowercased, whitespace-collapsed query used
// for cache keys.
func (r *Request) NormalizedQuery() string {
	return strings.Join(strings.Fields(strings.ToLower(r.query)), " ")
}

// TopK returns the maximum number of results to return.
func (r *Request) TopK() int { return r.topK }

// UseSemantic reports whether semantic recall may be used.
func (r *Request) UseSemantic() bool { return r.useSemantic }

// UseDiversify reports whether result diversification is applied.
func (r *Request) UseDiversify() bool { return r.useDiversify }

// Explain reports whether per-result score explanations are requested.
func (r *Request) Explain() bool { return r.explain }
