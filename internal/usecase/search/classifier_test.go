package search

import (
	"testing"

	"github.com/sixthdegree/contactsearch/internal/config"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(config.DefaultSoftKeywords, config.DefaultComplexKeywords)

	cases := []struct {
		query string
		want  Complexity
	}{
		{"engineers at google", Simple},
		{"PM in new york", Simple},
		{"experienced fintech founder", Semantic},
		{"SENIOR engineer", Semantic},
		{"someone with a background in crypto", Semantic},
		{"how many engineers work at google", Complex},
		{"breakdown of my contacts by industry", Complex},
		{"who is the most senior person at stripe", Complex},
		// Complex cues win over soft cues.
		{"how many senior engineers do I know", Complex},
		{"", Simple},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.query); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.query, got, tc.want)
		}
	}
}

func TestClassify_EmptyKeywordLists(t *testing.T) {
	c := NewClassifier(nil, nil)
	if got := c.Classify("how many experienced engineers"); got != Simple {
		t.Errorf("expected Simple with no keyword lists, got %s", got)
	}
}
