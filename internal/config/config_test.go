package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GT_PORT", "GT_PROVIDER", "GT_GEMINI_BASE_URL",
		"GT_LLM_TIMEOUT_MS", "GT_STORE_BACKEND", "GT_STORE_PATH",
		"GT_RATE_LIMIT_PER_MINUTE", "GT_ALLOWED_ORIGINS", "GT_FALLBACK_URL",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 8080 || cfg.Provider != "mock" || cfg.StoreBackend != "memory" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.LLMTimeout() != 0 {
		t.Fatalf("expected unset timeout, got %s", cfg.LLMTimeout())
	}
	if len(cfg.AllowedOrigins) != 3 {
		t.Fatalf("expected default origins, got %v", cfg.AllowedOrigins)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
port: 9090
provider: gemini-rest
llm_timeout_ms: 15000
store_backend: sqlite
store_path: data/settings.db
allowed_origins:
  - https://example.com
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 9090 || cfg.Provider != "gemini-rest" || cfg.StorePath != "data/settings.db" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.LLMTimeout() != 15*time.Second {
		t.Fatalf("expected 15s timeout, got %s", cfg.LLMTimeout())
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://example.com" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.RateLimitPerMinute != 30 {
		t.Fatalf("expected unset keys to keep defaults, got %d", cfg.RateLimitPerMinute)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "port: 9090\nprovider: gemini\n")
	t.Setenv("GT_PORT", "7000")
	t.Setenv("GT_PROVIDER", "mock")
	t.Setenv("GT_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 7000 || cfg.Provider != "mock" {
		t.Fatalf("expected env overrides, got %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("GT_PORT", "eighty")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected invalid port to fail")
	}

	clearEnv(t)
	t.Setenv("GT_RATE_LIMIT_PER_MINUTE", "-1")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected negative rate limit to fail")
	}

	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected missing file to fail")
	}

	if _, err := Load(writeConfig(t, "port: [")); err == nil {
		t.Fatalf("expected malformed yaml to fail")
	}
}
