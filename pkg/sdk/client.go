package contactsearch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sixthdegree/contactsearch/internal/config"
	"github.com/sixthdegree/contactsearch/internal/db"
	dbMemory "github.com/sixthdegree/contactsearch/internal/db/memory"
	dbRedis "github.com/sixthdegree/contactsearch/internal/db/redis"
	"github.com/sixthdegree/contactsearch/internal/domain"
	searchdomain "github.com/sixthdegree/contactsearch/internal/domain/search"
	"github.com/sixthdegree/contactsearch/internal/repository/resultcache"
	"github.com/sixthdegree/contactsearch/internal/repository/snapshot"
	"github.com/sixthdegree/contactsearch/internal/usecase/candidate"
	"github.com/sixthdegree/contactsearch/internal/usecase/diversify"
	"github.com/sixthdegree/contactsearch/internal/usecase/parser"
	"github.com/sixthdegree/contactsearch/internal/usecase/rank"
	searchuc "github.com/sixthdegree/contactsearch/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultReasonerTimeout  = 10 * time.Second
)

// Client is the embedded contactsearch engine.
type Client struct {
	store db.Store
	svc   *searchuc.Service
	obs   *observer
}

// New creates a Client with the full pipeline wired in-process.
// The provided context is used for the initial store readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		driver:                  "memory",
		recallLimit:             100,
		minLexicalResults:       3,
		lexicalConfidence:       0.5,
		lexicalScoreScale:       10,
		parserFallbackMinTokens: 3,
		maxPerCompany:           3,
		maxPerIndustry:          5,
		keyPrefix:               "contactsearch:",
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("contactsearch: store not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "memory":
		return dbMemory.NewStore(), nil
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("contactsearch: create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("contactsearch: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	// Internal components log through zap; the SDK surfaces its own
	// operation log via slog, so internals stay quiet.
	zl := zap.NewNop()

	var embedder domain.Embedder
	if cfg.embedder != nil {
		embedder = &embedderAdapter{inner: cfg.embedder}
	}

	var (
		resolver domain.QueryResolver
		agent    domain.Agent
	)
	if cfg.reasoner != nil {
		ra := &reasonerAdapter{inner: cfg.reasoner}
		resolver = ra
		agent = ra
	}

	snapshots := snapshot.NewManager(store, embedder, cfg.keyPrefix, zl)
	cache := resultcache.New(store, cfg.keyPrefix, 0, zl)

	svc := searchuc.NewService(searchuc.Deps{
		Snapshots: snapshots,
		Cache:     cache,
		Parser:    parser.New(resolver, cfg.parserFallbackMinTokens, zl),
		Generator: candidate.NewGenerator(
			cfg.recallLimit,
			cfg.minLexicalResults,
			cfg.lexicalConfidence,
			cfg.lexicalScoreScale,
			zl,
		),
		Features:     rank.NewFeatureFactory(cfg.lexicalScoreScale),
		Scorer:       rank.NewScorer(),
		Diversifier:  diversify.New(cfg.maxPerCompany, cfg.maxPerIndustry),
		Classifier:   searchuc.NewClassifier(config.DefaultSoftKeywords, config.DefaultComplexKeywords),
		Agent:        agent,
		AgentTimeout: defaultReasonerTimeout,
		Logger:       zl,
	})

	return &Client{
		store: store,
		svc:   svc,
		obs:   newObserver(cfg.logger),
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// BuildIndexes indexes the contacts for a tenant and activates the snapshot.
func (c *Client) BuildIndexes(ctx context.Context, tenant string, contacts []Contact) (info IndexInfo, err error) {
	start := time.Now()
	defer func() { c.obs.observe("build_indexes", start, err) }()

	domContacts := make([]domain.Contact, len(contacts))
	for i, ct := range contacts {
		domContacts[i] = domain.Contact(ct)
	}

	res, err := c.svc.BuildIndexes(ctx, tenant, domContacts)
	if err != nil {
		return IndexInfo{}, err
	}
	return IndexInfo(res), nil
}

// IndexesExist reports whether the tenant has a snapshot, in memory or
// persisted.
func (c *Client) IndexesExist(ctx context.Context, tenant string) (exists bool, err error) {
	start := time.Now()
	defer func() { c.obs.observe("indexes_exist", start, err) }()

	return c.svc.IndexesExist(ctx, tenant)
}

// LoadIndexes restores the tenant's persisted snapshot into memory.
func (c *Client) LoadIndexes(ctx context.Context, tenant string) (info IndexInfo, err error) {
	start := time.Now()
	defer func() { c.obs.observe("load_indexes", start, err) }()

	res, err := c.svc.LoadIndexes(ctx, tenant)
	if err != nil {
		return IndexInfo{}, err
	}
	return IndexInfo(res), nil
}

// Search runs one query through the pipeline.
func (c *Client) Search(ctx context.Context, params SearchParams) (resp SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	req, err := searchdomain.NewRequest(
		params.Tenant,
		params.Query,
		params.TopK,
		!params.DisableSemantic,
		!params.DisableDiversify,
		params.Explain,
	)
	if err != nil {
		return SearchResponse{}, err
	}

	out, err := c.svc.Search(ctx, req)
	if err != nil {
		return SearchResponse{}, err
	}
	return responseFromDomain(out), nil
}

// InvalidateCache removes the tenant's cached search results and returns how
// many entries were dropped.
func (c *Client) InvalidateCache(ctx context.Context, tenant string) (deleted int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("invalidate_cache", start, err) }()

	return c.svc.InvalidateCache(ctx, tenant)
}

// CacheStats returns result-cache hit/miss counters.
func (c *Client) CacheStats() CacheStats {
	return CacheStats(c.svc.CacheStats())
}

func responseFromDomain(out searchdomain.Response) SearchResponse {
	results := make([]SearchResult, len(out.Results))
	for i, r := range out.Results {
		sources := make([]string, len(r.Sources))
		for j, s := range r.Sources {
			sources[j] = string(s)
		}
		var explanation []FeatureContribution
		for _, fc := range r.TopFeatures {
			explanation = append(explanation, FeatureContribution{
				Feature:      fc.Feature,
				Value:        fc.Value,
				Weight:       fc.Weight,
				Contribution: fc.Product,
			})
		}
		results[i] = SearchResult{
			Contact:       Contact(r.Contact),
			Score:         r.Score,
			LexicalScore:  r.LexicalScore,
			SemanticScore: r.SemanticScore,
			Sources:       sources,
			Explanation:   explanation,
		}
	}

	resp := SearchResponse{
		Results:  results,
		Targets:  Targets(out.ParsedQuery.Targets),
		Tier:     string(out.Tier),
		Cached:   out.Cached,
		Degraded: out.Degraded,
	}
	if out.Agent != nil {
		agent := &AgentAnswer{Answer: out.Agent.Answer}
		for _, ct := range out.Agent.Contacts {
			agent.Contacts = append(agent.Contacts, Contact(ct))
		}
		resp.Agent = agent
	}
	return resp
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult(r), nil
}

// reasonerAdapter wraps the public Reasoner to satisfy the internal resolver
// and agent interfaces.
type reasonerAdapter struct {
	inner Reasoner
}

func (a *reasonerAdapter) ResolveQuery(ctx context.Context, query string) (domain.Targets, error) {
	t, err := a.inner.ResolveQuery(ctx, query)
	if err != nil {
		return domain.Targets{}, fmt.Errorf("resolve query: %w", err)
	}
	return domain.Targets(t), nil
}

func (a *reasonerAdapter) Resolve(ctx context.Context, query string, candidates []domain.Contact) (domain.AgentResult, error) {
	contacts := make([]Contact, len(candidates))
	for i, ct := range candidates {
		contacts[i] = Contact(ct)
	}
	ans, err := a.inner.Answer(ctx, query, contacts)
	if err != nil {
		return domain.AgentResult{}, fmt.Errorf("agent answer: %w", err)
	}
	result := domain.AgentResult{Answer: ans.Answer}
	for _, ct := range ans.Contacts {
		result.Contacts = append(result.Contacts, domain.Contact(ct))
	}
	return result, nil
}
