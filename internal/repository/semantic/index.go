// Package semantic implements the dense-vector nearest-neighbor index over
// contact records. Vectors come from an injected embedder; recall is cosine
// similarity over normalized vectors, brute-force — tenant collections are
// thousands of records, not millions.
package semantic

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sixthdegree/contactsearch/internal/domain"
)

// Field repetition weights for the embedded document text: repeating a field
// raises its influence on the vector.
const (
	repeatName     = 3
	repeatCompany  = 2
	repeatPosition = 2
)

// Hit is a single semantic match with similarity in [0,1].
type Hit struct {
	Contact domain.Contact
	Score   float64
}

// Index holds normalized contact vectors for one snapshot.
type Index struct {
	embedder domain.Embedder
	contacts []domain.Contact
	vectors  [][]float32
}

// Build embeds every contact and returns the index. A single embedding
// failure aborts the build: a partially embedded index would silently skew
// recall.
func Build(ctx context.Context, contacts []domain.Contact, embedder domain.Embedder) (*Index, error) {
	vectors := make([][]float32, len(contacts))
	for i, c := range contacts {
		res, err := embedder.Embed(ctx, DocumentText(c))
		if err != nil {
			return nil, fmt.Errorf("embed contact %d: %w", i, err)
		}
		vectors[i] = normalizeVector(res.Embedding)
	}
	return &Index{embedder: embedder, contacts: contacts, vectors: vectors}, nil
}

// Restore rebuilds an index from persisted vectors without re-embedding.
func Restore(contacts []domain.Contact, vectors [][]float32, embedder domain.Embedder) (*Index, error) {
	if len(contacts) != len(vectors) {
		return nil, fmt.Errorf("vector count %d does not match contact count %d", len(vectors), len(contacts))
	}
	for i := range vectors {
		vectors[i] = normalizeVector(vectors[i])
	}
	return &Index{embedder: embedder, contacts: contacts, vectors: vectors}, nil
}

// Search embeds the query and returns the limit nearest contacts by cosine
// similarity, mapped to [0,1].
func (x *Index) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	if strings.TrimSpace(query) == "" || limit <= 0 {
		return nil, nil
	}

	res, err := x.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	qv := normalizeVector(res.Embedding)

	hits := make([]Hit, 0, len(x.contacts))
	for i, v := range x.vectors {
		sim := similarity(qv, v)
		hits = append(hits, Hit{Contact: x.contacts[i], Score: sim})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Size returns the number of indexed contacts.
func (x *Index) Size() int { return len(x.contacts) }

// Vectors returns the normalized contact vectors for persistence.
func (x *Index) Vectors() [][]float32 { return x.vectors }

// DocumentText builds the text embedded for a contact, with field repetition
// weighting.
func DocumentText(c domain.Contact) string {
	parts := make([]string, 0, repeatName+repeatCompany+repeatPosition)
	for range repeatName {
		if c.FullName != "" {
			parts = append(parts, c.FullName)
		}
	}
	for range repeatCompany {
		if c.Company != "" {
			parts = append(parts, c.Company)
		}
	}
	for range repeatPosition {
		if c.Position != "" {
			parts = append(parts, c.Position)
		}
	}
	return strings.Join(parts, " ")
}

// similarity maps the cosine of two unit vectors onto [0,1].
func similarity(a, b []float32) float64 {
	n := min(len(a), len(b))
	var dot float64
	for i := range n {
		dot += float64(a[i]) * float64(b[i])
	}
	sim := (1 + dot) / 2
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

func normalizeVector(v []float32) []float32 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(float64(f) / norm)
	}
	return out
}
