package domain

import "errors"

var (
	// ErrIndexNotBuilt signals the tenant has no lexical index. Fatal to the
	// query: the caller must rebuild before retrying.
	ErrIndexNotBuilt = errors.New("search index not built")
	// ErrSemanticUnavailable signals semantic recall was skipped; lexical-only
	// results proceed. Reported in result metadata, never surfaced to callers.
	ErrSemanticUnavailable = errors.New("semantic index unavailable")
	// ErrExternalFallbackFailed signals the external reasoning collaborator
	// failed; deterministic results proceed in degraded mode.
	ErrExternalFallbackFailed = errors.New("external reasoning fallback failed")
	// ErrTenantRequired signals a request without a tenant identifier.
	ErrTenantRequired = errors.New("tenant is required")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
