// Package search orchestrates the pipeline: cache lookup, query parsing,
// candidate recall, feature scoring, diversification, and the reasoning
// agent for analytical queries. Every stage is timed; non-fatal failures
// degrade the response instead of failing it.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sixthdegree/contactsearch/internal/domain"
	searchdomain "github.com/sixthdegree/contactsearch/internal/domain/search"
	"github.com/sixthdegree/contactsearch/internal/metrics"
	"github.com/sixthdegree/contactsearch/internal/repository/resultcache"
	"github.com/sixthdegree/contactsearch/internal/repository/snapshot"
	"github.com/sixthdegree/contactsearch/internal/usecase/candidate"
	"github.com/sixthdegree/contactsearch/internal/usecase/diversify"
	"github.com/sixthdegree/contactsearch/internal/usecase/parser"
	"github.com/sixthdegree/contactsearch/internal/usecase/rank"
)

// agentCandidateLimit caps how many recalled contacts the reasoning agent
// receives as context.
const agentCandidateLimit = 50

// Deps wires the pipeline components into the service.
type Deps struct {
	Snapshots   *snapshot.Manager
	Cache       *resultcache.Cache
	Parser      *parser.Parser
	Generator   *candidate.Generator
	Features    *rank.FeatureFactory
	Scorer      *rank.Scorer
	Diversifier *diversify.Diversifier
	Classifier  *Classifier
	// Agent handles complex analytical queries; nil disables the tier.
	Agent        domain.Agent
	AgentTimeout time.Duration
	Logger       *zap.Logger
}

// Service runs the search pipeline and manages indexes and cache.
type Service struct {
	snapshots    *snapshot.Manager
	cache        *resultcache.Cache
	parser       *parser.Parser
	generator    *candidate.Generator
	features     *rank.FeatureFactory
	scorer       *rank.Scorer
	diversifier  *diversify.Diversifier
	classifier   *Classifier
	agent        domain.Agent
	agentTimeout time.Duration
	logger       *zap.Logger
}

// NewService creates the search orchestrator.
func NewService(d Deps) *Service {
	return &Service{
		snapshots:    d.Snapshots,
		cache:        d.Cache,
		parser:       d.Parser,
		generator:    d.Generator,
		features:     d.Features,
		scorer:       d.Scorer,
		diversifier:  d.Diversifier,
		classifier:   d.Classifier,
		agent:        d.Agent,
		agentTimeout: d.AgentTimeout,
		logger:       d.Logger,
	}
}

// Search runs the full pipeline for one request.
func (s *Service) Search(ctx context.Context, req searchdomain.Request) (searchdomain.Response, error) {
	totalStart := time.Now()
	latency := make(map[string]float64, 6)

	if req.NormalizedQuery() == "" {
		s.stage(latency, searchdomain.StageTotal, totalStart)
		return searchdomain.Response{
			Results:        []domain.ScoredCandidate{},
			Tier:           searchdomain.TierLexical,
			StageLatencyMs: latency,
		}, nil
	}

	snap, err := s.activeSnapshot(ctx, req.Tenant())
	if err != nil {
		return searchdomain.Response{}, err
	}

	if entry, ok := s.cache.Get(ctx, req.Tenant(), snap.Version(), req.NormalizedQuery()); ok {
		results := entry.Results
		if len(results) > req.TopK() {
			results = results[:req.TopK()]
		}
		s.stage(latency, searchdomain.StageTotal, totalStart)
		metrics.SearchRequestsTotal.WithLabelValues(string(searchdomain.TierCache), "true").Inc()
		return searchdomain.Response{
			Results:        results,
			ParsedQuery:    entry.ParsedQuery,
			Cached:         true,
			Tier:           searchdomain.TierCache,
			StageLatencyMs: latency,
		}, nil
	}

	parseStart := time.Now()
	parsed := s.parser.Parse(ctx, req.Query())
	s.stage(latency, searchdomain.StageParse, parseStart)

	var degraded []string
	if parsed.Degraded {
		degraded = append(degraded, "parser_fallback")
	}

	complexity := s.classifier.Classify(req.Query())

	mode := candidate.SemanticAuto
	switch {
	case !req.UseSemantic():
		mode = candidate.SemanticOff
	case complexity == Semantic:
		mode = candidate.SemanticForce
	}

	candStart := time.Now()
	pool, err := s.generator.Generate(ctx, snap, parsed, mode)
	s.stage(latency, searchdomain.StageCandidates, candStart)
	if err != nil {
		return searchdomain.Response{}, err
	}
	if pool.SemanticError {
		degraded = append(degraded, "semantic")
	}

	featStart := time.Now()
	vectors := make([]domain.FeatureVector, len(pool.Candidates))
	for i, c := range pool.Candidates {
		vectors[i] = s.features.Compute(c, parsed, req.Query())
	}
	s.stage(latency, searchdomain.StageFeatures, featStart)

	scoreStart := time.Now()
	scored := make([]domain.ScoredCandidate, len(pool.Candidates))
	for i, c := range pool.Candidates {
		sc := domain.ScoredCandidate{Candidate: c, Features: vectors[i]}
		if req.Explain() {
			sc.Score, sc.TopFeatures = s.scorer.ScoreWithExplanation(vectors[i])
		} else {
			sc.Score = s.scorer.Score(vectors[i])
		}
		scored[i] = sc
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	s.stage(latency, searchdomain.StageScore, scoreStart)

	divStart := time.Now()
	results := scored
	if req.UseDiversify() {
		results = s.diversifier.Apply(scored, req.TopK())
	} else if len(results) > req.TopK() {
		results = results[:req.TopK()]
	}
	s.stage(latency, searchdomain.StageDiversify, divStart)

	tier := searchdomain.TierLexical
	if pool.SemanticUsed {
		tier = searchdomain.TierHybrid
	}

	var agentResult *domain.AgentResult
	if complexity == Complex && s.agent != nil {
		ar, err := s.resolveAgent(ctx, req.Query(), scored)
		if err != nil {
			s.logger.Warn("reasoning agent failed, serving ranked results",
				zap.String("tenant", req.Tenant()), zap.Error(err))
			degraded = append(degraded, "agent")
			tier = searchdomain.TierAgentFailed
		} else {
			agentResult = &ar
			tier = searchdomain.TierAgent
		}
	}

	// Only deterministic outcomes are cacheable; agent answers and degraded
	// runs must be recomputed.
	if (tier == searchdomain.TierLexical || tier == searchdomain.TierHybrid) && len(degraded) == 0 {
		s.cache.Set(ctx, req.Tenant(), snap.Version(), req.NormalizedQuery(), resultcache.Entry{
			Results:     results,
			ParsedQuery: parsed,
			Tier:        tier,
			CreatedAt:   time.Now(),
		})
	}

	s.stage(latency, searchdomain.StageTotal, totalStart)
	metrics.SearchRequestsTotal.WithLabelValues(string(tier), "false").Inc()

	s.logger.Info("search served",
		zap.String("tenant", req.Tenant()),
		zap.String("tier", string(tier)),
		zap.Int("results", len(results)),
		zap.Int("lexical_hits", pool.LexicalCount),
		zap.Int("semantic_hits", pool.SemanticCount),
		zap.Bool("escalated", pool.Escalated),
		zap.Duration("took", time.Since(totalStart)))

	return searchdomain.Response{
		Results:        results,
		ParsedQuery:    parsed,
		Tier:           tier,
		Agent:          agentResult,
		Degraded:       degraded,
		StageLatencyMs: latency,
	}, nil
}

// IndexInfo summarizes a snapshot for the transport layer.
type IndexInfo struct {
	Version  int64 `json:"version"`
	Contacts int   `json:"contacts"`
	Semantic bool  `json:"semantic"`
}

// BuildIndexes builds and activates a new snapshot for the tenant.
func (s *Service) BuildIndexes(ctx context.Context, tenant string, contacts []domain.Contact) (IndexInfo, error) {
	snap, err := s.snapshots.Build(ctx, tenant, contacts)
	if err != nil {
		return IndexInfo{}, err
	}
	return indexInfo(snap), nil
}

// IndexesExist reports whether the tenant has a snapshot, active or persisted.
func (s *Service) IndexesExist(ctx context.Context, tenant string) (bool, error) {
	return s.snapshots.Exists(ctx, tenant)
}

// LoadIndexes restores the tenant's persisted snapshot into memory.
func (s *Service) LoadIndexes(ctx context.Context, tenant string) (IndexInfo, error) {
	snap, err := s.snapshots.Load(ctx, tenant)
	if err != nil {
		return IndexInfo{}, err
	}
	return indexInfo(snap), nil
}

// InvalidateCache removes the tenant's cached search results and returns how
// many entries were dropped.
func (s *Service) InvalidateCache(ctx context.Context, tenant string) (int, error) {
	return s.cache.Invalidate(ctx, tenant)
}

// CacheStats returns result-cache hit/miss counters.
func (s *Service) CacheStats() resultcache.Stats {
	return s.cache.Stats()
}

// activeSnapshot returns the tenant's in-memory snapshot, loading the
// persisted one on a cold start.
func (s *Service) activeSnapshot(ctx context.Context, tenant string) (*snapshot.Snapshot, error) {
	snap, err := s.snapshots.Active(tenant)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, domain.ErrIndexNotBuilt) {
		return nil, err
	}
	return s.snapshots.Load(ctx, tenant)
}

// resolveAgent hands the query and the top recalled contacts to the external
// reasoning agent under a bounded timeout.
func (s *Service) resolveAgent(ctx context.Context, query string, scored []domain.ScoredCandidate) (domain.AgentResult, error) {
	limit := min(len(scored), agentCandidateLimit)
	contacts := make([]domain.Contact, limit)
	for i := range limit {
		contacts[i] = scored[i].Contact
	}

	agentCtx, cancel := context.WithTimeout(ctx, s.agentTimeout)
	defer cancel()

	result, err := s.agent.Resolve(agentCtx, query, contacts)
	if err != nil {
		return domain.AgentResult{}, fmt.Errorf("%w: %v", domain.ErrExternalFallbackFailed, err)
	}
	return result, nil
}

func (s *Service) stage(latency map[string]float64, name string, start time.Time) {
	elapsed := time.Since(start)
	latency[name] = float64(elapsed.Microseconds()) / 1000.0
	metrics.SearchStageDuration.WithLabelValues(name).Observe(elapsed.Seconds())
}

func indexInfo(snap *snapshot.Snapshot) IndexInfo {
	return IndexInfo{
		Version:  snap.Version(),
		Contacts: snap.Size(),
		Semantic: snap.HasSemantic(),
	}
}
