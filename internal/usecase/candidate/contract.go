package candidate

import (
	"context"

	"github.com/sixthdegree/contactsearch/internal/domain"
)

// Snapshot is the index pair the generator recalls from. The orchestrator
// resolves a tenant's active snapshot and hands it in, so one pipeline run
// never straddles a rebuild.
type Snapshot interface {
	Version() int64
	HasSemantic() bool
	SearchLexical(query string, limit int) ([]domain.RecallHit, error)
	SearchSemantic(ctx context.Context, query string, limit int) ([]domain.RecallHit, error)
}
