// Package snapshot manages immutable per-tenant index snapshots: a lexical
// index and an optional semantic index built from the same contact
// collection, swapped atomically and persisted through the key-value store.
package snapshot

import (
	"context"
	"time"

	"github.com/sixthdegree/contactsearch/internal/domain"
	"github.com/sixthdegree/contactsearch/internal/repository/lexical"
	"github.com/sixthdegree/contactsearch/internal/repository/semantic"
)

// Snapshot is one immutable build of a tenant's indexes. Both tiers see the
// same contacts; readers never observe a half-built pair.
type Snapshot struct {
	tenant   string
	version  int64
	contacts []domain.Contact
	lexical  *lexical.Index
	semantic *semantic.Index
	builtAt  time.Time
}

// Tenant returns the owning tenant.
func (s *Snapshot) Tenant() string { return s.tenant }

// Version returns the monotonically increasing build number.
func (s *Snapshot) Version() int64 { return s.version }

// Size returns the number of indexed contacts.
func (s *Snapshot) Size() int { return len(s.contacts) }

// BuiltAt returns the build timestamp.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// HasSemantic reports whether semantic recall is available on this snapshot.
func (s *Snapshot) HasSemantic() bool { return s.semantic != nil }

// SearchLexical runs keyword recall against the snapshot's inverted index.
func (s *Snapshot) SearchLexical(query string, limit int) ([]domain.RecallHit, error) {
	hits, err := s.lexical.Search(query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RecallHit, len(hits))
	for i, h := range hits {
		out[i] = domain.RecallHit{Contact: h.Contact, Score: h.Score, MatchedFields: h.MatchedFields}
	}
	return out, nil
}

// SearchSemantic runs dense-vector recall. Returns ErrSemanticUnavailable
// when the snapshot was built without an embedder.
func (s *Snapshot) SearchSemantic(ctx context.Context, query string, limit int) ([]domain.RecallHit, error) {
	if s.semantic == nil {
		return nil, domain.ErrSemanticUnavailable
	}
	hits, err := s.semantic.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RecallHit, len(hits))
	for i, h := range hits {
		out[i] = domain.RecallHit{Contact: h.Contact, Score: h.Score}
	}
	return out, nil
}
