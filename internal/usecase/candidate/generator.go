// Package candidate generates the ranked-candidate pool by recalling from
// the lexical and semantic tiers and merging the two result sets with
// provenance. Semantic recall runs when forced by the caller or when the
// lexical tier looks weak.
package candidate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/sixthdegree/contactsearch/internal/domain"
)

// SemanticMode controls when the semantic tier runs.
type SemanticMode string

// Semantic tier modes.
const (
	// SemanticOff never runs semantic recall.
	SemanticOff SemanticMode = "off"
	// SemanticAuto runs lexical first and escalates when it looks weak.
	SemanticAuto SemanticMode = "auto"
	// SemanticForce runs both tiers concurrently.
	SemanticForce SemanticMode = "force"
)

// Result is the merged candidate pool with recall provenance.
type Result struct {
	Candidates    []domain.Candidate
	SemanticUsed  bool
	Escalated     bool // semantic ran because lexical looked weak
	SemanticError bool // semantic was wanted but failed; pool is lexical-only
	LexicalCount  int
	SemanticCount int
}

// Generator merges lexical and semantic recall into one candidate pool.
type Generator struct {
	recallLimit   int
	minLexical    int
	lexConfidence float64
	scoreScale    float64
	logger        *zap.Logger
}

// NewGenerator creates a generator with the recall tuning parameters.
func NewGenerator(recallLimit, minLexical int, lexConfidence, scoreScale float64, log *zap.Logger) *Generator {
	return &Generator{
		recallLimit:   recallLimit,
		minLexical:    minLexical,
		lexConfidence: lexConfidence,
		scoreScale:    scoreScale,
		logger:        log,
	}
}

// Generate recalls candidates from the snapshot for the parsed query.
// Semantic failures in auto or force mode degrade to lexical-only rather
// than failing the pipeline; a lexical failure is fatal because without it
// there is no pool at all.
func (g *Generator) Generate(ctx context.Context, snap Snapshot, parsed domain.ParsedQuery, mode SemanticMode) (Result, error) {
	if snap == nil {
		return Result{}, domain.ErrIndexNotBuilt
	}

	lexQuery := lexicalQuery(parsed)
	semQuery := semanticQuery(parsed)

	if mode == SemanticForce && snap.HasSemantic() {
		return g.recallBoth(ctx, snap, lexQuery, semQuery)
	}

	lexHits, err := snap.SearchLexical(lexQuery, g.recallLimit)
	if err != nil {
		return Result{}, fmt.Errorf("lexical recall: %w", err)
	}

	res := Result{LexicalCount: len(lexHits)}

	escalate := mode != SemanticOff && snap.HasSemantic() && g.lexicalWeak(lexHits)
	if mode == SemanticForce || escalate {
		res.Escalated = escalate
		semHits, err := snap.SearchSemantic(ctx, semQuery, g.recallLimit)
		if err != nil {
			g.logger.Warn("semantic recall failed, serving lexical-only", zap.Error(err))
			res.SemanticError = !errors.Is(err, domain.ErrSemanticUnavailable)
			res.Candidates = g.merge(lexHits, nil)
			return res, nil
		}
		res.SemanticUsed = true
		res.SemanticCount = len(semHits)
		res.Candidates = g.merge(lexHits, semHits)
		return res, nil
	}

	res.Candidates = g.merge(lexHits, nil)
	return res, nil
}

// recallBoth runs the two tiers concurrently. Forced mode means the caller
// already knows lexical alone will not carry the query.
func (g *Generator) recallBoth(ctx context.Context, snap Snapshot, lexQuery, semQuery string) (Result, error) {
	var (
		wg      sync.WaitGroup
		lexHits []domain.RecallHit
		semHits []domain.RecallHit
		lexErr  error
		semErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		lexHits, lexErr = snap.SearchLexical(lexQuery, g.recallLimit)
	}()
	go func() {
		defer wg.Done()
		semHits, semErr = snap.SearchSemantic(ctx, semQuery, g.recallLimit)
	}()
	wg.Wait()

	if lexErr != nil {
		return Result{}, fmt.Errorf("lexical recall: %w", lexErr)
	}

	res := Result{LexicalCount: len(lexHits)}
	if semErr != nil {
		g.logger.Warn("semantic recall failed, serving lexical-only", zap.Error(semErr))
		res.SemanticError = true
		res.Candidates = g.merge(lexHits, nil)
		return res, nil
	}

	res.SemanticUsed = true
	res.SemanticCount = len(semHits)
	res.Candidates = g.merge(lexHits, semHits)
	return res, nil
}

// lexicalWeak reports whether lexical recall alone is too thin or too
// low-confidence to serve the query.
func (g *Generator) lexicalWeak(hits []domain.RecallHit) bool {
	if len(hits) < g.minLexical {
		return true
	}
	return g.normalize(hits[0].Score) < g.lexConfidence
}

// merge unions the two hit lists by contact identity, keeping the best score
// per tier and recording which tiers found each contact. The pool is
// pre-sorted by a cheap blended score and truncated to the recall limit; the
// authoritative order comes later from the feature scorer.
func (g *Generator) merge(lexHits, semHits []domain.RecallHit) []domain.Candidate {
	byKey := make(map[string]*domain.Candidate, len(lexHits)+len(semHits))
	order := make([]string, 0, len(lexHits)+len(semHits))

	for _, h := range lexHits {
		key := h.Contact.IdentityKey()
		c, ok := byKey[key]
		if !ok {
			c = &domain.Candidate{Contact: h.Contact, Sources: []domain.Source{domain.SourceLexical}}
			byKey[key] = c
			order = append(order, key)
		}
		if h.Score > c.LexicalScore {
			c.LexicalScore = h.Score
			c.MatchedFields = h.MatchedFields
		}
	}

	for _, h := range semHits {
		key := h.Contact.IdentityKey()
		c, ok := byKey[key]
		if !ok {
			c = &domain.Candidate{Contact: h.Contact, Sources: []domain.Source{domain.SourceSemantic}}
			byKey[key] = c
			order = append(order, key)
		} else if !c.FoundBy(domain.SourceSemantic) {
			c.Sources = append(c.Sources, domain.SourceSemantic)
		}
		if h.Score > c.SemanticScore {
			c.SemanticScore = h.Score
		}
	}

	pool := make([]domain.Candidate, 0, len(order))
	for _, key := range order {
		c := byKey[key]
		c.Combined = domain.LexicalBlendWeight*g.normalize(c.LexicalScore) +
			domain.SemanticBlendWeight*c.SemanticScore
		pool = append(pool, *c)
	}

	sort.SliceStable(pool, func(i, j int) bool { return pool[i].Combined > pool[j].Combined })
	if len(pool) > g.recallLimit {
		pool = pool[:g.recallLimit]
	}
	return pool
}

// normalize maps a raw lexical relevance score to [0,1].
func (g *Generator) normalize(score float64) float64 {
	n := score / g.scoreScale
	if n > 1 {
		return 1
	}
	return n
}

// lexicalQuery builds the keyword query: extracted targets when the parse
// produced any, otherwise the expanded query text.
func lexicalQuery(parsed domain.ParsedQuery) string {
	if parsed.Targets.IsEmpty() {
		return parsed.Expanded
	}
	parts := make([]string, 0, 8)
	parts = append(parts, parsed.Targets.Personas...)
	parts = append(parts, parsed.Targets.Companies...)
	parts = append(parts, parsed.Targets.Industries...)
	parts = append(parts, parsed.Targets.Geos...)
	return strings.Join(parts, " ")
}

// semanticQuery builds the embedding query: the joined targets read closer
// to indexed document text than a full natural-language question does.
func semanticQuery(parsed domain.ParsedQuery) string {
	if parsed.Targets.IsEmpty() {
		return parsed.Original
	}
	parts := make([]string, 0, 8)
	parts = append(parts, parsed.Targets.Personas...)
	parts = append(parts, parsed.Targets.Companies...)
	parts = append(parts, parsed.Targets.Industries...)
	parts = append(parts, parsed.Targets.Geos...)
	return strings.Join(parts, " ")
}
