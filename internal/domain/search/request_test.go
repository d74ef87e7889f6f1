package search

import (
	"errors"
	"strings"
	"testing"

	"github.com/sixthdegree/contactsearch/internal/domain"
)

func TestNewRequest_RequiresTenant(t *testing.T) {
	_, err := NewRequest("", "engineer", 10, true, true, false)
	if !errors.Is(err, domain.ErrTenantRequired) {
		t.Fatalf("expected ErrTenantRequired, got %v", err)
	}
}

func TestNewRequest_TopKDefaults(t *testing.T) {
	req, err := NewRequest("t1", "engineer", 0, true, true, false)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if req.TopK() != DefaultTopK {
		t.Errorf("expected default topK %d, got %d", DefaultTopK, req.TopK())
	}

	req, err = NewRequest("t1", "engineer", -5, true, true, false)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if req.TopK() != DefaultTopK {
		t.Errorf("negative topK should default, got %d", req.TopK())
	}
}

func TestNewRequest_TopKClamped(t *testing.T) {
	req, err := NewRequest("t1", "engineer", 5000, true, true, false)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if req.TopK() != MaxTopK {
		t.Errorf("expected clamp to %d, got %d", MaxTopK, req.TopK())
	}
}

func TestNewRequest_QueryTooLong(t *testing.T) {
	if _, err := NewRequest("t1", strings.Repeat("a", MaxQueryLength+1), 10, true, true, false); err == nil {
		t.Fatal("expected error for oversized query")
	}
}

func TestNewRequest_EmptyQueryAllowed(t *testing.T) {
	if _, err := NewRequest("t1", "", 10, true, true, false); err != nil {
		t.Fatalf("empty query should validate: %v", err)
	}
}

func TestNormalizedQuery(t *testing.T) {
	req, err := NewRequest("t1", "  Software   ENGINEER at Google  ", 10, true, true, false)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if got := req.NormalizedQuery(); got != "software engineer at google" {
		t.Errorf("unexpected normalized query %q", got)
	}
}

func TestRequest_Getters(t *testing.T) {
	req, err := NewRequest("t1", "engineer", 7, false, true, true)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if req.Tenant() != "t1" || req.Query() != "engineer" || req.TopK() != 7 {
		t.Errorf("unexpected request %+v", req)
	}
	if req.UseSemantic() || !req.UseDiversify() || !req.Explain() {
		t.Errorf("flag getters wrong: semantic=%v diversify=%v explain=%v",
			req.UseSemantic(), req.UseDiversify(), req.Explain())
	}
}
