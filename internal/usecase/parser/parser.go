// Package parser turns free-text queries into structured targets. The
// deterministic dictionary pass runs first; an injected LLM resolver is the
// fallback for queries the dictionaries cannot read. Parsing never fails:
// the worst outcome is an empty parse that degrades to raw-text search.
package parser

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sixthdegree/contactsearch/internal/domain"
)

// Parser extracts personas, companies, industries, and geos from a query.
type Parser struct {
	resolver          domain.QueryResolver // nil disables the LLM fallback
	minFallbackTokens int
	logger            *zap.Logger
}

// New creates a parser. Pass a nil resolver to run deterministic-only.
func New(resolver domain.QueryResolver, minFallbackTokens int, log *zap.Logger) *Parser {
	return &Parser{resolver: resolver, minFallbackTokens: minFallbackTokens, logger: log}
}

// Parse runs the deterministic pass and, when it extracts nothing from a
// long enough query, the LLM fallback.
func (p *Parser) Parse(ctx context.Context, query string) domain.ParsedQuery {
	expanded := expandAbbreviations(query)

	// Extraction order matters: a span claimed by a persona is never
	// re-matched as an industry ("product manager" must not also yield
	// the "manager" role or a "product" industry).
	var taken []span
	personas, taken := extract(expanded, roleMatchers, taken)
	companies, taken := extract(expanded, companyMatchers, taken)
	industryList, taken := extract(expanded, industryMatchers, taken)
	geoList, _ := extract(expanded, geoMatchers, taken)

	targets := domain.Targets{
		Personas:   personas,
		Companies:  expandIndustryCompanies(companies, industryList),
		Industries: industryList,
		Geos:       geoList,
	}

	parsed := domain.ParsedQuery{
		Original: query,
		Expanded: withVariations(expanded),
		Targets:  targets,
		Via:      domain.ParsedDeterministic,
	}

	if !targets.IsEmpty() || p.resolver == nil {
		return parsed
	}
	if len(strings.Fields(query)) < p.minFallbackTokens {
		return parsed
	}

	resolved, err := p.resolver.ResolveQuery(ctx, query)
	if err != nil {
		p.logger.Warn("query resolver fallback failed", zap.Error(err))
		parsed.Degraded = true
		return parsed
	}

	parsed.Targets = normalizeTargets(resolved)
	parsed.Via = domain.ParsedLLM
	return parsed
}

// span is a half-open [start,end) byte range of matched query text.
type span struct{ start, end int }

func (s span) overlaps(o span) bool { return s.start < o.end && o.start < s.end }

// matcher binds a canonical form to the whole-word patterns that produce it.
type matcher struct {
	canonical string
	patterns  []*regexp.Regexp
}

var (
	roleMatchers     = buildMatchers(roles)
	companyMatchers  = buildMatchers(companyAliases)
	industryMatchers = buildMatchers(industries)
	geoMatchers      = buildMatchers(geos)
	abbrevPatterns   = buildAbbrevPatterns()
)

// buildMatchers groups alias→canonical pairs by canonical and compiles
// whole-word patterns for every alias plus the canonical itself. Matchers
// are ordered longest canonical first so "software engineer" claims its span
// before "engineer" can.
func buildMatchers(dict map[string]string) []matcher {
	byCanonical := make(map[string][]string)
	for alias, canonical := range dict {
		byCanonical[canonical] = append(byCanonical[canonical], alias)
	}

	matchers := make([]matcher, 0, len(byCanonical))
	for canonical, aliases := range byCanonical {
		seen := map[string]bool{}
		patterns := make([]*regexp.Regexp, 0, len(aliases)+1)
		for _, text := range append(aliases, canonical) {
			if seen[text] {
				continue
			}
			seen[text] = true
			patterns = append(patterns, wordPattern(text))
		}
		matchers = append(matchers, matcher{canonical: canonical, patterns: patterns})
	}

	sort.Slice(matchers, func(i, j int) bool {
		if len(matchers[i].canonical) != len(matchers[j].canonical) {
			return len(matchers[i].canonical) > len(matchers[j].canonical)
		}
		return matchers[i].canonical < matchers[j].canonical
	})
	return matchers
}

type abbrevPattern struct {
	pattern   *regexp.Regexp
	expansion string
}

func buildAbbrevPatterns() []abbrevPattern {
	keys := make([]string, 0, len(abbreviations))
	for k := range abbreviations {
		keys = append(keys, k)
	}
	// Longest key first so "biz dev" is rewritten before "bd" could be.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	patterns := make([]abbrevPattern, len(keys))
	for i, k := range keys {
		patterns[i] = abbrevPattern{pattern: wordPattern(k), expansion: abbreviations[k]}
	}
	return patterns
}

func wordPattern(text string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(text) + `\b`)
}

func expandAbbreviations(query string) string {
	text := strings.ToLower(query)
	for _, ap := range abbrevPatterns {
		text = ap.pattern.ReplaceAllString(text, ap.expansion)
	}
	return text
}

// extract returns the canonical forms found in text whose matched spans do
// not overlap previously claimed spans, and the updated span set.
func extract(text string, matchers []matcher, taken []span) ([]string, []span) {
	var found []string
	for _, m := range matchers {
		loc := firstMatch(text, m.patterns)
		if loc == nil {
			continue
		}
		s := span{start: loc[0], end: loc[1]}
		if overlapsAny(s, taken) {
			continue
		}
		if contains(found, m.canonical) {
			continue
		}
		found = append(found, m.canonical)
		taken = append(taken, s)
	}
	return found, taken
}

func firstMatch(text string, patterns []*regexp.Regexp) []int {
	for _, p := range patterns {
		if loc := p.FindStringIndex(text); loc != nil {
			return loc
		}
	}
	return nil
}

func overlapsAny(s span, taken []span) bool {
	for _, t := range taken {
		if s.overlaps(t) {
			return true
		}
	}
	return false
}

// expandIndustryCompanies appends the curated company set of each extracted
// industry to the company targets. Only exact canonical industries expand.
func expandIndustryCompanies(companies, industryList []string) []string {
	out := append([]string(nil), companies...)
	for _, industry := range industryList {
		for _, company := range industryExpansions[industry] {
			if !contains(out, company) {
				out = append(out, company)
			}
		}
	}
	return out
}

// withVariations appends nickname and title-synonym variations of the query
// tokens, widening lexical recall for "bill" vs "william" and "swe" vs
// "developer" style mismatches.
func withVariations(expanded string) string {
	var variations []string
	seen := map[string]bool{}
	add := func(v string) {
		if !seen[v] {
			seen[v] = true
			variations = append(variations, v)
		}
	}

	for _, token := range strings.Fields(expanded) {
		for _, nick := range nicknames[token] {
			add(nick)
		}
		for canonical, synonyms := range titleSynonyms {
			if token != canonical && !contains(synonyms, token) {
				continue
			}
			add(canonical)
			for _, syn := range synonyms {
				add(syn)
			}
			break
		}
	}

	if len(variations) == 0 {
		return expanded
	}
	sort.Strings(variations)
	return expanded + " " + strings.Join(variations, " ")
}

// normalizeTargets lowercases and trims LLM output so downstream matching
// sees the same shape the deterministic pass produces.
func normalizeTargets(t domain.Targets) domain.Targets {
	return domain.Targets{
		Personas:   normalizeList(t.Personas),
		Companies:  normalizeList(t.Companies),
		Industries: normalizeList(t.Industries),
		Geos:       normalizeList(t.Geos),
	}
}

func normalizeList(in []string) []string {
	var out []string
	for _, v := range in {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" && !contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
