package contactsearch

import "github.com/sixthdegree/contactsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrIndexNotBuilt          = domain.ErrIndexNotBuilt
	ErrTenantRequired         = domain.ErrTenantRequired
	ErrSemanticUnavailable    = domain.ErrSemanticUnavailable
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
