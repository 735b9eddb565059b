// Package config loads server configuration from an optional YAML file and
// GT_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port               int      `yaml:"port"`
	Provider           string   `yaml:"provider"`
	GeminiBaseURL      string   `yaml:"gemini_base_url"`
	LLMTimeoutMs       int      `yaml:"llm_timeout_ms"`
	StoreBackend       string   `yaml:"store_backend"`
	StorePath          string   `yaml:"store_path"`
	RateLimitPerMinute int      `yaml:"rate_limit_per_minute"`
	AllowedOrigins     []string `yaml:"allowed_origins"`
	FallbackURL        string   `yaml:"fallback_url"`
}

func defaults() Config {
	return Config{
		Port:               8080,
		Provider:           "mock",
		StoreBackend:       "memory",
		RateLimitPerMinute: 30,
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost",
		},
		FallbackURL: "https://translate.google.com/",
	}
}

// LLMTimeout is zero when unset so the provider policy can fall back to
// LLM_TIMEOUT_MS.
func (c Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutMs) * time.Millisecond
}

// Load reads path when it is non-empty, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("GT_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid GT_PORT %q: %w", v, err)
		}
		cfg.Port = p
	}
	if v := os.Getenv("GT_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("GT_GEMINI_BASE_URL"); v != "" {
		cfg.GeminiBaseURL = v
	}
	if v := os.Getenv("GT_LLM_TIMEOUT_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid GT_LLM_TIMEOUT_MS %q: %w", v, err)
		}
		cfg.LLMTimeoutMs = ms
	}
	if v := os.Getenv("GT_STORE_BACKEND"); v != "" {
		cfg.StoreBackend = v
	}
	if v := os.Getenv("GT_STORE_PATH"); v != "" {
		cfg.StorePath = v
	}
	if v := os.Getenv("GT_RATE_LIMIT_PER_MINUTE"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid GT_RATE_LIMIT_PER_MINUTE %q: %w", v, err)
		}
		cfg.RateLimitPerMinute = limit
	}
	if v := os.Getenv("GT_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("GT_FALLBACK_URL"); v != "" {
		cfg.FallbackURL = v
	}
	return nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: port %d out of range", c.Port)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("config: rate_limit_per_minute must not be negative")
	}
	if c.LLMTimeoutMs < 0 {
		return fmt.Errorf("config: llm_timeout_ms must not be negative")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
