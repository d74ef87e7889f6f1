// Package config loads the YAML configuration by environment name with
// ${VAR} expansion, defaults, and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the contactsearch API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Reasoning ReasoningConfig `yaml:"reasoning"`
	Search    SearchConfig    `yaml:"search"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds settings for the shared key-value store backing the
// result cache and index snapshots.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // memory, redis (default: memory)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings for the semantic index.
// An empty APIKey disables semantic recall: searches degrade to lexical-only.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// ReasoningConfig holds settings for the external reasoning collaborator
// (LLM parser fallback and complex-query agent).
type ReasoningConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// SearchConfig exposes the hand-tuned pipeline constants.
// All defaults come from tuning on tenant-scale contact collections; they are
// configuration, not algorithm.
type SearchConfig struct {
	// RecallLimit is the per-tier candidate budget before ranking.
	RecallLimit int `yaml:"recall_limit"`
	// MinLexicalResults triggers semantic recall when lexical finds fewer.
	MinLexicalResults int `yaml:"min_lexical_results"`
	// LexicalConfidence triggers semantic recall when the normalized top
	// lexical score falls below it.
	LexicalConfidence float64 `yaml:"lexical_confidence"`
	// LexicalScoreScale normalizes raw lexical scores to [0,1].
	LexicalScoreScale float64 `yaml:"lexical_score_scale"`
	// ParserFallbackMinTokens gates the LLM parser fallback: shorter queries
	// never escalate.
	ParserFallbackMinTokens int `yaml:"parser_fallback_min_tokens"`
	MaxPerCompany           int `yaml:"max_per_company"`
	MaxPerIndustry          int `yaml:"max_per_industry"`
	// SoftKeywords mark queries needing semantic recall (seniority and
	// expertise adjectives).
	SoftKeywords []string `yaml:"soft_keywords"`
	// ComplexKeywords route queries to the external reasoning agent.
	ComplexKeywords []string `yaml:"complex_keywords"`
	CacheTTLSec     int      `yaml:"cache_ttl_sec"` // 0 = no expiry
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// DefaultSoftKeywords mark queries where keyword recall alone misses intent.
var DefaultSoftKeywords = []string{
	"expert", "specialist", "experienced", "skilled",
	"passionate", "creative", "innovative", "senior",
	"leader", "focused on", "background in", "talented",
	"professional", "consulting", "strategic",
}

// DefaultComplexKeywords mark aggregation or comparison queries that the
// deterministic pipeline hands to the reasoning agent.
var DefaultComplexKeywords = []string{
	"how many", "count", "breakdown", "analyze",
	"distribution", "percentage", "statistics",
	"most senior", "highest level",
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "memory"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Reasoning.TimeoutSec <= 0 {
		c.Reasoning.TimeoutSec = 10
	}
	if c.Search.RecallLimit <= 0 {
		c.Search.RecallLimit = 100
	}
	if c.Search.MinLexicalResults <= 0 {
		c.Search.MinLexicalResults = 3
	}
	if c.Search.LexicalConfidence <= 0 {
		c.Search.LexicalConfidence = 0.5
	}
	if c.Search.LexicalScoreScale <= 0 {
		c.Search.LexicalScoreScale = 10.0
	}
	if c.Search.ParserFallbackMinTokens <= 0 {
		c.Search.ParserFallbackMinTokens = 3
	}
	if c.Search.MaxPerCompany <= 0 {
		c.Search.MaxPerCompany = 3
	}
	if c.Search.MaxPerIndustry <= 0 {
		c.Search.MaxPerIndustry = 5
	}
	if len(c.Search.SoftKeywords) == 0 {
		c.Search.SoftKeywords = DefaultSoftKeywords
	}
	if len(c.Search.ComplexKeywords) == 0 {
		c.Search.ComplexKeywords = DefaultComplexKeywords
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "contactsearch:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.Driver != "memory" && c.Database.Driver != "redis" {
		return fmt.Errorf("database.driver must be \"memory\" or \"redis\", got %q", c.Database.Driver)
	}
	if c.Database.Driver == "redis" && len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required for the redis driver")
	}
	if c.Search.LexicalConfidence > 1 {
		return fmt.Errorf("search.lexical_confidence must be in (0,1], got %v", c.Search.LexicalConfidence)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
