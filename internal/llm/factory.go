package llm

import (
	"context"
	"fmt"
)

// NewProvider creates a Provider from configuration, wrapped as
// caller → retry → logging → base. A nil log disables request logging.
func NewProvider(ctx context.Context, cfg Config, log EventLog) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	var p Provider = base
	if log != nil {
		p = WithLogging(base, cfg.Provider, log)
	}
	return WithRetry(p, cfg.Retry), nil
}

// NewProviderFromEnv resolves configuration from the environment and
// builds the provider. It returns (nil, nil) when no provider is
// configured, which callers treat as static-only mode.
func NewProviderFromEnv(ctx context.Context, log EventLog) (Provider, error) {
	cfg, ok := ResolveConfig()
	if !ok {
		return nil, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewProvider(ctx, cfg, log)
}
