package config

import "testing"

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.Driver != "memory" {
		t.Errorf("expected driver=memory, got %q", cfg.Database.Driver)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Reasoning.TimeoutSec != 10 {
		t.Errorf("expected Reasoning.TimeoutSec=10, got %d", cfg.Reasoning.TimeoutSec)
	}
	if cfg.Search.RecallLimit != 100 {
		t.Errorf("expected RecallLimit=100, got %d", cfg.Search.RecallLimit)
	}
	if cfg.Search.MinLexicalResults != 3 {
		t.Errorf("expected MinLexicalResults=3, got %d", cfg.Search.MinLexicalResults)
	}
	if cfg.Search.LexicalConfidence != 0.5 {
		t.Errorf("expected LexicalConfidence=0.5, got %v", cfg.Search.LexicalConfidence)
	}
	if cfg.Search.LexicalScoreScale != 10.0 {
		t.Errorf("expected LexicalScoreScale=10, got %v", cfg.Search.LexicalScoreScale)
	}
	if cfg.Search.ParserFallbackMinTokens != 3 {
		t.Errorf("expected ParserFallbackMinTokens=3, got %d", cfg.Search.ParserFallbackMinTokens)
	}
	if cfg.Search.MaxPerCompany != 3 {
		t.Errorf("expected MaxPerCompany=3, got %d", cfg.Search.MaxPerCompany)
	}
	if cfg.Search.MaxPerIndustry != 5 {
		t.Errorf("expected MaxPerIndustry=5, got %d", cfg.Search.MaxPerIndustry)
	}
	if len(cfg.Search.SoftKeywords) == 0 {
		t.Error("expected default soft keywords")
	}
	if len(cfg.Search.ComplexKeywords) == 0 {
		t.Error("expected default complex keywords")
	}
	if cfg.Storage.KeyPrefix != "contactsearch:" {
		t.Errorf("expected KeyPrefix='contactsearch:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{Driver: "redis", ReadinessTimeout: 15},
		Search: SearchConfig{
			RecallLimit:       50,
			MinLexicalResults: 5,
			LexicalConfidence: 0.7,
			SoftKeywords:      []string{"guru"},
		},
		Storage: StorageConfig{KeyPrefix: "custom:"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Database.Driver != "redis" {
		t.Errorf("expected driver=redis, got %q", cfg.Database.Driver)
	}
	if cfg.Search.RecallLimit != 50 {
		t.Errorf("expected RecallLimit=50, got %d", cfg.Search.RecallLimit)
	}
	if cfg.Search.LexicalConfidence != 0.7 {
		t.Errorf("expected LexicalConfidence=0.7, got %v", cfg.Search.LexicalConfidence)
	}
	if len(cfg.Search.SoftKeywords) != 1 || cfg.Search.SoftKeywords[0] != "guru" {
		t.Errorf("expected custom soft keywords kept, got %v", cfg.Search.SoftKeywords)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{Database: DatabaseConfig{Driver: "memory"}}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_InvalidDriver(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "postgres"},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestValidate_RedisRequiresAddrs(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "redis"},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing redis addrs")
	}
}

func TestValidate_ConfidenceRange(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "memory"},
		Search:   SearchConfig{LexicalConfidence: 1.5},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for confidence above 1")
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "redis", Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CS_TEST_PORT", "9090")

	in := []byte("port: ${CS_TEST_PORT}\ndriver: ${CS_TEST_DRIVER:-memory}\nempty: ${CS_TEST_MISSING}")
	got := string(expandEnvVars(in))
	want := "port: 9090\ndriver: memory\nempty: "
	if got != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestExpandEnvVars_SetVarBeatsDefault(t *testing.T) {
	t.Setenv("CS_TEST_DRIVER", "redis")

	got := string(expandEnvVars([]byte("driver: ${CS_TEST_DRIVER:-memory}")))
	if got != "driver: redis" {
		t.Errorf("expected set variable to win, got %q", got)
	}
}
