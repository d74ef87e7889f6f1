// Package chi implements the HTTP API: index administration, search, and
// cache management, all tenant-scoped.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sixthdegree/contactsearch/internal/db"
	"github.com/sixthdegree/contactsearch/internal/domain"
	searchdomain "github.com/sixthdegree/contactsearch/internal/domain/search"
	searchuc "github.com/sixthdegree/contactsearch/internal/usecase/search"
)

// maxIndexContacts bounds one index build request.
const maxIndexContacts = 50000

// Error codes returned in the error response body.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeIndexNotBuilt    = "index_not_built"
	codeEmbeddingError   = "embedding_provider_error"
	codeAgentError       = "reasoning_provider_error"
	codeInternalError    = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the search service over HTTP.
type Server struct {
	search        *searchuc.Service
	store         db.Pinger
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP API server.
func NewServer(search *searchuc.Service, store db.Pinger, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		store:  store,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrIndexNotBuilt, http.StatusNotFound, codeIndexNotBuilt),
		sentinelHandler(domain.ErrTenantRequired, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingError),
		sentinelHandler(domain.ErrExternalFallbackFailed, http.StatusBadGateway, codeAgentError),
	}
	return s
}

// Routes mounts all API routes on the given router. Middleware is the
// caller's concern so the composition root decides the stack.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.Health)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1/tenants/{tenant}", func(r chi.Router) {
		r.Post("/indexes", s.BuildIndexes)
		r.Get("/indexes", s.IndexesExist)
		r.Post("/indexes/load", s.LoadIndexes)
		r.Post("/search", s.Search)
		r.Delete("/cache", s.InvalidateCache)
	})
	r.Get("/api/v1/cache/stats", s.CacheStats)
}

// BuildIndexesRequest is the body for POST /tenants/{tenant}/indexes.
type BuildIndexesRequest struct {
	Contacts []domain.Contact `json:"contacts"`
}

// BuildIndexes handles POST /tenants/{tenant}/indexes.
func (s *Server) BuildIndexes(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	var req BuildIndexesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Contacts) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "contacts is required")
		return
	}
	if len(req.Contacts) > maxIndexContacts {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "too many contacts in one build")
		return
	}

	info, err := s.search.BuildIndexes(r.Context(), tenant, req.Contacts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, info)
}

// IndexesExistResponse is the body for GET /tenants/{tenant}/indexes.
type IndexesExistResponse struct {
	Exists bool `json:"exists"`
}

// IndexesExist handles GET /tenants/{tenant}/indexes.
func (s *Server) IndexesExist(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	exists, err := s.search.IndexesExist(r.Context(), tenant)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, IndexesExistResponse{Exists: exists})
}

// LoadIndexes handles POST /tenants/{tenant}/indexes/load.
func (s *Server) LoadIndexes(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	info, err := s.search.LoadIndexes(r.Context(), tenant)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// SearchRequest is the body for POST /tenants/{tenant}/search.
type SearchRequest struct {
	Query     string `json:"query"`
	TopK      int    `json:"top_k,omitempty"`
	Semantic  *bool  `json:"semantic,omitempty"`
	Diversify *bool  `json:"diversify,omitempty"`
	Explain   bool   `json:"explain,omitempty"`
}

// Search handles POST /tenants/{tenant}/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	var body SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := searchdomain.NewRequest(
		tenant,
		body.Query,
		body.TopK,
		derefBool(body.Semantic, true),
		derefBool(body.Diversify, true),
		body.Explain,
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	resp, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// InvalidateCacheResponse is the body for DELETE /tenants/{tenant}/cache.
type InvalidateCacheResponse struct {
	Deleted int `json:"deleted"`
}

// InvalidateCache handles DELETE /tenants/{tenant}/cache.
func (s *Server) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")

	deleted, err := s.search.InvalidateCache(r.Context(), tenant)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, InvalidateCacheResponse{Deleted: deleted})
}

// CacheStats handles GET /cache/stats.
func (s *Server) CacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.search.CacheStats())
}

// Health handles GET /healthz. Reports degraded when the store is down; the
// in-memory snapshots keep serving.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("health check: store unreachable", zap.Error(err))
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, map[string]string{"status": status})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrIndexNotBuilt,
		domain.ErrTenantRequired,
		domain.ErrSemanticUnavailable,
		domain.ErrEmbeddingProviderError,
		domain.ErrExternalFallbackFailed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

func derefBool(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
