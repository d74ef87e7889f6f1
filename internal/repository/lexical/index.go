// Package lexical implements the inverted keyword index over contact fields.
// It is built per snapshot, lives entirely in memory, and ranks matches with
// field-weighted relevance scoring plus edit-distance-1 fuzzy correction.
package lexical

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/sixthdegree/contactsearch/internal/domain"
)

// Field boosts mirror the relative importance of contact fields:
// a name hit outranks a company hit outranks a position hit.
const (
	boostName     = 3.0
	boostCompany  = 2.0
	boostPosition = 1.5
	boostEmail    = 0.5
)

// Hit is a single lexical match.
type Hit struct {
	Contact       domain.Contact
	Score         float64
	MatchedFields []string
}

// Index is an immutable inverted index over one contact collection.
type Index struct {
	idx      bleve.Index
	contacts []domain.Contact
}

// Build indexes the given contacts. Document IDs are collection positions.
func Build(contacts []domain.Contact) (*Index, error) {
	mapping := bleve.NewIndexMapping()
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	batch := idx.NewBatch()
	for i, c := range contacts {
		doc := map[string]string{
			"full_name": c.FullName,
			"company":   c.Company,
			"position":  c.Position,
			"email":     c.Email,
		}
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("index contact %d: %w", i, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("commit batch: %w", err)
	}

	return &Index{idx: idx, contacts: contacts}, nil
}

// Search runs a field-boosted disjunction query with fuzziness 1 and returns
// up to limit hits ordered by relevance. An empty query returns no hits.
func (x *Index) Search(queryText string, limit int) ([]Hit, error) {
	normalized := normalize(queryText)
	if normalized == "" || limit <= 0 {
		return nil, nil
	}

	fields := []struct {
		name  string
		boost float64
	}{
		{"full_name", boostName},
		{"company", boostCompany},
		{"position", boostPosition},
		{"email", boostEmail},
	}

	queries := make([]query.Query, 0, len(fields))
	for _, f := range fields {
		mq := bleve.NewMatchQuery(normalized)
		mq.SetField(f.name)
		mq.SetBoost(f.boost)
		mq.SetFuzziness(1)
		queries = append(queries, mq)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(queries...), limit, 0, false)
	res, err := x.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		i, err := strconv.Atoi(h.ID)
		if err != nil || i < 0 || i >= len(x.contacts) {
			continue
		}
		contact := x.contacts[i]
		hits = append(hits, Hit{
			Contact:       contact,
			Score:         h.Score,
			MatchedFields: matchedFields(contact, normalized),
		})
	}
	return hits, nil
}

// Size returns the number of indexed contacts.
func (x *Index) Size() int { return len(x.contacts) }

// Close releases the underlying index.
func (x *Index) Close() error {
	if err := x.idx.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	return nil
}

// matchedFields reports which contact fields share at least one token with
// the query.
func matchedFields(c domain.Contact, normalizedQuery string) []string {
	queryTokens := tokenSet(normalizedQuery)

	var matched []string
	for _, f := range []struct{ name, value string }{
		{"full_name", c.FullName},
		{"company", c.Company},
		{"position", c.Position},
		{"email", c.Email},
	} {
		if f.value == "" {
			continue
		}
		for tok := range tokenSet(strings.ToLower(f.value)) {
			if _, ok := queryTokens[tok]; ok {
				matched = append(matched, f.name)
				break
			}
		}
	}
	return matched
}

func normalize(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		set[t] = struct{}{}
	}
	return set
}
