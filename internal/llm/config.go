package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds LLM provider configuration.
type Config struct {
	// Provider is one of "gemini", "openai", "anthropic", "openrouter", "mock".
	Provider string

	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	Anthropic  AnthropicConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single generation including retries.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string // defaults to https://openrouter.ai/api/v1
}

// RetryConfig configures retries of transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the built-in defaults. Gemini is the default
// provider.
func DefaultConfig() Config {
	return Config{
		Provider:   "gemini",
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     2 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 10 * time.Second,
	}
}

// envOverrides maps CYBERQUEST_* variables onto config fields.
func envOverrides(cfg *Config) {
	set := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set("CYBERQUEST_LLM_PROVIDER", &cfg.Provider)

	set("CYBERQUEST_GEMINI_API_KEY", &cfg.Gemini.APIKey)
	set("CYBERQUEST_GEMINI_MODEL", &cfg.Gemini.Model)

	set("CYBERQUEST_OPENAI_API_KEY", &cfg.OpenAI.APIKey)
	set("CYBERQUEST_OPENAI_MODEL", &cfg.OpenAI.Model)
	set("CYBERQUEST_OPENAI_BASE_URL", &cfg.OpenAI.BaseURL)

	set("CYBERQUEST_ANTHROPIC_API_KEY", &cfg.Anthropic.APIKey)
	set("CYBERQUEST_ANTHROPIC_MODEL", &cfg.Anthropic.Model)

	set("CYBERQUEST_OPENROUTER_API_KEY", &cfg.OpenRouter.APIKey)
	set("CYBERQUEST_OPENROUTER_MODEL", &cfg.OpenRouter.Model)
	set("CYBERQUEST_OPENROUTER_BASE_URL", &cfg.OpenRouter.BaseURL)

	if v := os.Getenv("CYBERQUEST_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
}

// ConfigFromEnv builds a Config from CYBERQUEST_* variables over the
// defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	envOverrides(&cfg)
	return cfg
}

// DiscoverConfig probes the vendor API key variables in priority order
// (Gemini, OpenAI, Anthropic, OpenRouter) and returns a Config for the
// first key found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	switch {
	case os.Getenv("GEMINI_API_KEY") != "":
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	case os.Getenv("OPENAI_API_KEY") != "":
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case os.Getenv("OPENROUTER_API_KEY") != "":
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	default:
		return Config{}, false
	}
	return cfg, true
}

// ResolveConfig returns the explicit CYBERQUEST_* configuration when a
// provider is selected, else the discovered one. ok is false when no
// provider can be configured, which means static-only mode.
func ResolveConfig() (cfg Config, ok bool) {
	if os.Getenv("CYBERQUEST_LLM_PROVIDER") != "" {
		cfg = ConfigFromEnv()
		return cfg, cfg.Validate() == nil
	}
	cfg, ok = DiscoverConfig()
	if ok {
		envOverrides(&cfg)
	}
	return cfg, ok
}

// Validate checks that the selected provider has its API key set.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case "gemini":
		key, env = c.Gemini.APIKey, "CYBERQUEST_GEMINI_API_KEY"
	case "openai":
		key, env = c.OpenAI.APIKey, "CYBERQUEST_OPENAI_API_KEY"
	case "anthropic":
		key, env = c.Anthropic.APIKey, "CYBERQUEST_ANTHROPIC_API_KEY"
	case "openrouter":
		key, env = c.OpenRouter.APIKey, "CYBERQUEST_OPENROUTER_API_KEY"
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
