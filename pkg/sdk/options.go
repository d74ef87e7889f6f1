package contactsearch

import (
	"log/slog"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "memory" or "redis"
	addrs    []string
	password string

	embedder Embedder
	reasoner Reasoner

	recallLimit             int
	minLexicalResults       int
	lexicalConfidence       float64
	lexicalScoreScale       float64
	parserFallbackMinTokens int
	maxPerCompany           int
	maxPerIndustry          int
	keyPrefix               string

	logger *slog.Logger
}

// WithRedis stores snapshots and the result cache in a Redis instance so
// they survive process restarts. Default is the in-memory store.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithEmbedder sets the text embedding provider, enabling semantic recall.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithReasoner sets the LLM provider for the query-parser fallback and the
// analytical agent.
func WithReasoner(r Reasoner) Option {
	return optionFunc(func(c *clientConfig) {
		c.reasoner = r
	})
}

// WithRecallLimit sets the per-tier candidate budget before ranking.
// Default: 100.
func WithRecallLimit(limit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.recallLimit = limit
	})
}

// WithParserFallbackTokens sets the minimum query token count before an
// unparsed query is handed to the reasoner for target extraction.
// Default: 3.
func WithParserFallbackTokens(minTokens int) Option {
	return optionFunc(func(c *clientConfig) {
		c.parserFallbackMinTokens = minTokens
	})
}

// WithDiversityCaps sets the per-company and per-industry result caps.
// Defaults: 3 and 5.
func WithDiversityCaps(maxPerCompany, maxPerIndustry int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxPerCompany = maxPerCompany
		c.maxPerIndustry = maxPerIndustry
	})
}

// WithKeyPrefix sets the storage key prefix. Default: "contactsearch:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
