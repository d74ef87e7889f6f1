package rank

import (
	"math"
	"testing"

	"github.com/sixthdegree/contactsearch/internal/domain"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCompute_ExactMatches(t *testing.T) {
	f := NewFeatureFactory(10)
	c := domain.Candidate{
		Contact: domain.Contact{
			FullName: "Alice Smith",
			Company:  "Google LLC",
			Position: "Senior Product Manager",
		},
		Sources: []domain.Source{domain.SourceLexical},
	}
	parsed := domain.ParsedQuery{Targets: domain.Targets{
		Personas:  []string{"product manager"},
		Companies: []string{"google"},
	}}

	v := f.Compute(c, parsed, "product manager at google")

	if v[domain.FeatureCompanyExactMatch] != 1 {
		t.Error("expected company exact match")
	}
	if v[domain.FeaturePositionExactMatch] != 1 {
		t.Error("expected position exact match")
	}
	if v[domain.FeatureIndustryMatch] != 0 {
		t.Error("no industry target was given")
	}
	if v[domain.FeatureLocationMatch] != 0 {
		t.Error("location feature is a constant zero")
	}
}

func TestCompute_IndustryMatch(t *testing.T) {
	f := NewFeatureFactory(10)
	c := domain.Candidate{
		Contact: domain.Contact{Company: "Stripe", Position: "Fintech Lead"},
		Sources: []domain.Source{domain.SourceLexical},
	}
	parsed := domain.ParsedQuery{Targets: domain.Targets{Industries: []string{"fintech"}}}

	v := f.Compute(c, parsed, "fintech people")
	if v[domain.FeatureIndustryMatch] != 1 {
		t.Error("expected industry match against company+position text")
	}
}

func TestCompute_TokenOverlap(t *testing.T) {
	f := NewFeatureFactory(10)
	c := domain.Candidate{
		Contact: domain.Contact{
			FullName: "John Smith",
			Company:  "Google",
			Position: "Software Engineer",
		},
		Sources: []domain.Source{domain.SourceLexical},
	}

	v := f.Compute(c, domain.ParsedQuery{}, "john google engineer")

	third := 1.0 / 3.0
	if !almostEqual(v[domain.FeatureNameTokenOverlap], third) {
		t.Errorf("name overlap: expected %v, got %v", third, v[domain.FeatureNameTokenOverlap])
	}
	if !almostEqual(v[domain.FeatureCompanyTokenOverlap], third) {
		t.Errorf("company overlap: expected %v, got %v", third, v[domain.FeatureCompanyTokenOverlap])
	}
	if !almostEqual(v[domain.FeaturePositionTokenOverlap], third) {
		t.Errorf("position overlap: expected %v, got %v", third, v[domain.FeaturePositionTokenOverlap])
	}
	if !almostEqual(v[domain.FeatureOverallTokenOverlap], 1) {
		t.Errorf("overall overlap: expected 1, got %v", v[domain.FeatureOverallTokenOverlap])
	}
}

func TestCompute_SourceScoresClamped(t *testing.T) {
	f := NewFeatureFactory(10)
	c := domain.Candidate{
		Contact:       domain.Contact{FullName: "Alice"},
		LexicalScore:  25, // above the scale, clamps to 1
		SemanticScore: 0.8,
		Sources:       []domain.Source{domain.SourceLexical, domain.SourceSemantic},
	}

	v := f.Compute(c, domain.ParsedQuery{}, "alice")

	if v[domain.FeatureLexicalScoreNorm] != 1 {
		t.Errorf("expected clamped lexical norm 1, got %v", v[domain.FeatureLexicalScoreNorm])
	}
	if v[domain.FeatureSemanticScore] != 0.8 {
		t.Errorf("expected semantic score passthrough, got %v", v[domain.FeatureSemanticScore])
	}
}

func TestCompute_Provenance(t *testing.T) {
	f := NewFeatureFactory(10)

	both := domain.Candidate{Sources: []domain.Source{domain.SourceLexical, domain.SourceSemantic}}
	v := f.Compute(both, domain.ParsedQuery{}, "q")
	if v[domain.FeatureFoundByLexical] != 1 || v[domain.FeatureFoundBySemantic] != 1 || v[domain.FeatureFoundByBoth] != 1 {
		t.Errorf("expected all provenance flags set, got %v", v)
	}

	lexOnly := domain.Candidate{Sources: []domain.Source{domain.SourceLexical}}
	v = f.Compute(lexOnly, domain.ParsedQuery{}, "q")
	if v[domain.FeatureFoundByBoth] != 0 {
		t.Error("single-tier candidate must not carry the both flag")
	}
}

func TestCompute_AllValuesInRange(t *testing.T) {
	f := NewFeatureFactory(10)
	c := domain.Candidate{
		Contact: domain.Contact{
			FullName: "Alice Smith",
			Company:  "Google",
			Position: "Engineer",
		},
		LexicalScore:  7,
		SemanticScore: 0.9,
		Sources:       []domain.Source{domain.SourceLexical, domain.SourceSemantic},
	}
	parsed := domain.ParsedQuery{Targets: domain.Targets{Companies: []string{"google"}}}

	v := f.Compute(c, parsed, "alice google engineer")

	for _, name := range domain.FeatureNames {
		val := v[name]
		if val < 0 || val > 1 {
			t.Errorf("feature %s out of [0,1]: %v", name, val)
		}
	}
}
