package search

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sixthdegree/contactsearch/internal/config"
	"github.com/sixthdegree/contactsearch/internal/db/memory"
	"github.com/sixthdegree/contactsearch/internal/domain"
	searchdomain "github.com/sixthdegree/contactsearch/internal/domain/search"
	"github.com/sixthdegree/contactsearch/internal/repository/resultcache"
	"github.com/sixthdegree/contactsearch/internal/repository/snapshot"
	"github.com/sixthdegree/contactsearch/internal/usecase/candidate"
	"github.com/sixthdegree/contactsearch/internal/usecase/diversify"
	"github.com/sixthdegree/contactsearch/internal/usecase/parser"
	"github.com/sixthdegree/contactsearch/internal/usecase/rank"
)

// --- Mocks ---

// stubEmbedder hashes tokens into a fixed-width bag-of-words vector, so
// similar texts land near each other without a real provider.
type stubEmbedder struct {
	err   error
	calls int
}

func (e *stubEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	e.calls++
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	vec := make([]float32, 16)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[h.Sum32()%16]++
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}

type mockAgent struct {
	result    domain.AgentResult
	err       error
	called    int
	lastQuery string
	lastCount int
}

func (m *mockAgent) Resolve(_ context.Context, query string, candidates []domain.Contact) (domain.AgentResult, error) {
	m.called++
	m.lastQuery = query
	m.lastCount = len(candidates)
	if m.err != nil {
		return domain.AgentResult{}, m.err
	}
	return m.result, nil
}

type failingResolver struct{}

func (failingResolver) ResolveQuery(context.Context, string) (domain.Targets, error) {
	return domain.Targets{}, errors.New("provider down")
}

// --- Helpers ---

type serviceOpts struct {
	embedder domain.Embedder
	agent    domain.Agent
	resolver domain.QueryResolver
}

func newTestService(store *memory.Store, opts serviceOpts) *Service {
	log := zap.NewNop()
	return NewService(Deps{
		Snapshots:    snapshot.NewManager(store, opts.embedder, "test:", log),
		Cache:        resultcache.New(store, "test:", 0, log),
		Parser:       parser.New(opts.resolver, 3, log),
		Generator:    candidate.NewGenerator(100, 3, 0.5, 10, log),
		Features:     rank.NewFeatureFactory(10),
		Scorer:       rank.NewScorer(),
		Diversifier:  diversify.New(3, 5),
		Classifier:   NewClassifier(config.DefaultSoftKeywords, config.DefaultComplexKeywords),
		Agent:        opts.agent,
		AgentTimeout: time.Second,
		Logger:       log,
	})
}

func fixtureContacts() []domain.Contact {
	return []domain.Contact{
		{FullName: "Alice Johnson", Company: "Google", Position: "Software Engineer", Email: "alice@example.com"},
		{FullName: "Bob Lee", Company: "Google", Position: "Product Manager", Email: "bob@example.com"},
		{FullName: "Carol White", Company: "Stripe", Position: "Software Engineer", Email: "carol@example.com"},
		{FullName: "Dan Brown", Company: "Meta", Position: "Data Scientist", Email: "dan@example.com"},
		{FullName: "Eve Davis", Company: "Sequoia Capital", Position: "Partner", Email: "eve@example.com"},
	}
}

func mustRequest(t *testing.T, query string, topK int, semantic, diversified, explain bool) searchdomain.Request {
	t.Helper()
	req, err := searchdomain.NewRequest("t1", query, topK, semantic, diversified, explain)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return req
}

func buildFixture(t *testing.T, svc *Service) {
	t.Helper()
	if _, err := svc.BuildIndexes(context.Background(), "t1", fixtureContacts()); err != nil {
		t.Fatalf("BuildIndexes: %v", err)
	}
}

// --- Tests ---

func TestSearch_EmptyQuery(t *testing.T) {
	svc := newTestService(memory.NewStore(), serviceOpts{})

	resp, err := svc.Search(context.Background(), mustRequest(t, "   ", 10, true, true, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("expected no results, got %d", len(resp.Results))
	}
	if resp.Tier != searchdomain.TierLexical {
		t.Errorf("expected lexical tier, got %s", resp.Tier)
	}
}

func TestSearch_IndexNotBuilt(t *testing.T) {
	svc := newTestService(memory.NewStore(), serviceOpts{})

	_, err := svc.Search(context.Background(), mustRequest(t, "engineer", 10, true, true, false))
	if !errors.Is(err, domain.ErrIndexNotBuilt) {
		t.Fatalf("expected ErrIndexNotBuilt, got %v", err)
	}
}

func TestSearch_LexicalFlowAndCache(t *testing.T) {
	svc := newTestService(memory.NewStore(), serviceOpts{})
	buildFixture(t, svc)

	req := mustRequest(t, "software engineer at google", 10, true, true, false)

	resp, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Cached {
		t.Error("first search must not be cached")
	}
	if resp.Tier != searchdomain.TierLexical {
		t.Errorf("expected lexical tier, got %s", resp.Tier)
	}
	if len(resp.Results) == 0 {
		t.Fatal("expected results")
	}
	top := resp.Results[0].Contact
	if top.Company != "Google" || top.Position != "Software Engineer" {
		t.Errorf("expected the Google engineer first, got %s at %s", top.FullName, top.Company)
	}
	foundCompany := false
	for _, tgt := range resp.ParsedQuery.Targets.Companies {
		if tgt == "google" {
			foundCompany = true
		}
	}
	if !foundCompany {
		t.Errorf("expected parsed company google, got %v", resp.ParsedQuery.Targets.Companies)
	}

	again, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !again.Cached {
		t.Error("repeat query should hit the cache")
	}
	if again.Tier != searchdomain.TierCache {
		t.Errorf("expected cache tier, got %s", again.Tier)
	}
	if len(again.Results) != len(resp.Results) {
		t.Errorf("cached results differ: %d vs %d", len(again.Results), len(resp.Results))
	}
}

func TestSearch_CacheTruncatesToTopK(t *testing.T) {
	svc := newTestService(memory.NewStore(), serviceOpts{})
	buildFixture(t, svc)

	wide := mustRequest(t, "engineer at google", 10, true, true, false)
	if _, err := svc.Search(context.Background(), wide); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	narrow := mustRequest(t, "engineer at google", 1, true, true, false)
	resp, err := svc.Search(context.Background(), narrow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Cached {
		t.Fatal("expected cache hit for the same normalized query")
	}
	if len(resp.Results) > 1 {
		t.Errorf("expected at most 1 result, got %d", len(resp.Results))
	}
}

func TestSearch_HybridTier(t *testing.T) {
	svc := newTestService(memory.NewStore(), serviceOpts{embedder: &stubEmbedder{}})
	buildFixture(t, svc)

	// "experienced" is a soft-intent cue, forcing the semantic tier.
	resp, err := svc.Search(context.Background(), mustRequest(t, "experienced engineer", 10, true, true, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Tier != searchdomain.TierHybrid {
		t.Errorf("expected hybrid tier, got %s", resp.Tier)
	}
	if len(resp.Results) == 0 {
		t.Fatal("expected results")
	}
}

func TestSearch_SemanticDisabledByRequest(t *testing.T) {
	svc := newTestService(memory.NewStore(), serviceOpts{embedder: &stubEmbedder{}})
	buildFixture(t, svc)

	resp, err := svc.Search(context.Background(), mustRequest(t, "experienced engineer", 10, false, true, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Tier != searchdomain.TierLexical {
		t.Errorf("expected lexical tier when semantic is off, got %s", resp.Tier)
	}
}

func TestSearch_AgentSuccess(t *testing.T) {
	agent := &mockAgent{result: domain.AgentResult{
		Contacts: fixtureContacts()[:2],
		Answer:   "You know 2 engineers at Google.",
	}}
	svc := newTestService(memory.NewStore(), serviceOpts{agent: agent})
	buildFixture(t, svc)

	req := mustRequest(t, "how many engineers work at google", 10, true, true, false)
	resp, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if agent.called != 1 {
		t.Fatalf("expected one agent call, got %d", agent.called)
	}
	if resp.Tier != searchdomain.TierAgent {
		t.Errorf("expected agent tier, got %s", resp.Tier)
	}
	if resp.Agent == nil || resp.Agent.Answer == "" {
		t.Fatal("expected agent answer")
	}
	if agent.lastCount > 50 {
		t.Errorf("agent candidate list too large: %d", agent.lastCount)
	}

	// Agent outcomes are never cached.
	again, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Cached {
		t.Error("agent responses must be recomputed")
	}
	if agent.called != 2 {
		t.Errorf("expected second agent call, got %d", agent.called)
	}
}

func TestSearch_AgentFailureDegrades(t *testing.T) {
	agent := &mockAgent{err: errors.New("reasoning provider down")}
	svc := newTestService(memory.NewStore(), serviceOpts{agent: agent})
	buildFixture(t, svc)

	resp, err := svc.Search(context.Background(), mustRequest(t, "how many engineers work at google", 10, true, true, false))
	if err != nil {
		t.Fatalf("agent failure must not fail the search: %v", err)
	}
	if resp.Tier != searchdomain.TierAgentFailed {
		t.Errorf("expected degraded agent tier, got %s", resp.Tier)
	}
	if len(resp.Degraded) == 0 || resp.Degraded[len(resp.Degraded)-1] != "agent" {
		t.Errorf("expected 'agent' degradation flag, got %v", resp.Degraded)
	}
	if len(resp.Results) == 0 {
		t.Error("ranked results should still be served")
	}
}

func TestSearch_ComplexQueryWithoutAgent(t *testing.T) {
	svc := newTestService(memory.NewStore(), serviceOpts{})
	buildFixture(t, svc)

	resp, err := svc.Search(context.Background(), mustRequest(t, "how many engineers work at google", 10, true, true, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Tier != searchdomain.TierLexical {
		t.Errorf("expected lexical tier without an agent, got %s", resp.Tier)
	}
	if resp.Agent != nil {
		t.Error("no agent configured, none should answer")
	}
}

func TestSearch_DegradedParseNotCached(t *testing.T) {
	svc := newTestService(memory.NewStore(), serviceOpts{resolver: failingResolver{}})
	buildFixture(t, svc)

	req := mustRequest(t, "someone who knows wine", 10, true, true, false)
	resp, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, d := range resp.Degraded {
		if d == "parser_fallback" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected parser_fallback degradation, got %v", resp.Degraded)
	}

	again, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Cached {
		t.Error("degraded runs must not be cached")
	}
}

func TestSearch_Explain(t *testing.T) {
	svc := newTestService(memory.NewStore(), serviceOpts{})
	buildFixture(t, svc)

	resp, err := svc.Search(context.Background(), mustRequest(t, "software engineer at google", 10, true, true, true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) == 0 {
		t.Fatal("expected results")
	}
	top := resp.Results[0]
	if len(top.TopFeatures) == 0 || len(top.TopFeatures) > 3 {
		t.Fatalf("expected 1-3 contributions, got %d", len(top.TopFeatures))
	}
	for i := 1; i < len(top.TopFeatures); i++ {
		if top.TopFeatures[i].Product > top.TopFeatures[i-1].Product {
			t.Error("contributions not sorted")
		}
	}
}

func TestSearch_StageLatenciesRecorded(t *testing.T) {
	svc := newTestService(memory.NewStore(), serviceOpts{})
	buildFixture(t, svc)

	resp, err := svc.Search(context.Background(), mustRequest(t, "engineer", 10, true, true, false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, stage := range []string{
		searchdomain.StageParse,
		searchdomain.StageCandidates,
		searchdomain.StageFeatures,
		searchdomain.StageScore,
		searchdomain.StageDiversify,
		searchdomain.StageTotal,
	} {
		if _, ok := resp.StageLatencyMs[stage]; !ok {
			t.Errorf("missing stage latency %q", stage)
		}
	}
}

func TestBuildIndexes_VersionIncrements(t *testing.T) {
	svc := newTestService(memory.NewStore(), serviceOpts{})

	info, err := svc.BuildIndexes(context.Background(), "t1", fixtureContacts())
	if err != nil {
		t.Fatalf("BuildIndexes: %v", err)
	}
	if info.Version != 1 || info.Contacts != 5 || info.Semantic {
		t.Errorf("unexpected info %+v", info)
	}

	info, err = svc.BuildIndexes(context.Background(), "t1", fixtureContacts()[:3])
	if err != nil {
		t.Fatalf("BuildIndexes: %v", err)
	}
	if info.Version != 2 || info.Contacts != 3 {
		t.Errorf("unexpected info after rebuild %+v", info)
	}
}

func TestIndexesExist_AndLoad(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(store, serviceOpts{})

	exists, err := svc.IndexesExist(context.Background(), "t1")
	if err != nil || exists {
		t.Fatalf("expected no indexes yet, got exists=%v err=%v", exists, err)
	}

	buildFixture(t, svc)

	// A fresh service over the same store sees the persisted snapshot.
	fresh := newTestService(store, serviceOpts{})
	exists, err = fresh.IndexesExist(context.Background(), "t1")
	if err != nil || !exists {
		t.Fatalf("expected persisted indexes, got exists=%v err=%v", exists, err)
	}

	info, err := fresh.LoadIndexes(context.Background(), "t1")
	if err != nil {
		t.Fatalf("LoadIndexes: %v", err)
	}
	if info.Contacts != 5 || info.Version != 1 {
		t.Errorf("unexpected loaded info %+v", info)
	}

	resp, err := fresh.Search(context.Background(), mustRequest(t, "engineer at google", 10, true, true, false))
	if err != nil {
		t.Fatalf("search after load: %v", err)
	}
	if len(resp.Results) == 0 {
		t.Error("expected results from the loaded snapshot")
	}
}

func TestSearch_ColdStartLoadsPersistedSnapshot(t *testing.T) {
	store := memory.NewStore()
	buildFixture(t, newTestService(store, serviceOpts{}))

	fresh := newTestService(store, serviceOpts{})
	resp, err := fresh.Search(context.Background(), mustRequest(t, "engineer at google", 10, true, true, false))
	if err != nil {
		t.Fatalf("expected implicit load on cold start, got %v", err)
	}
	if len(resp.Results) == 0 {
		t.Error("expected results")
	}
}

func TestInvalidateCache(t *testing.T) {
	svc := newTestService(memory.NewStore(), serviceOpts{})
	buildFixture(t, svc)

	req := mustRequest(t, "engineer at google", 10, true, true, false)
	if _, err := svc.Search(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deleted, err := svc.InvalidateCache(context.Background(), "t1")
	if err != nil {
		t.Fatalf("InvalidateCache: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted entry, got %d", deleted)
	}

	resp, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Cached {
		t.Error("cache should be empty after invalidation")
	}
}

func TestCacheStats(t *testing.T) {
	svc := newTestService(memory.NewStore(), serviceOpts{})
	buildFixture(t, svc)

	req := mustRequest(t, "engineer at google", 10, true, true, false)
	if _, err := svc.Search(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Search(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats := svc.CacheStats()
	if stats.Misses != 1 || stats.Hits != 1 {
		t.Errorf("expected 1 miss and 1 hit, got %+v", stats)
	}
}
