package course

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cyberquestjr/cyberquest/internal/llm"
)

// Config controls the generative strategy.
type Config struct {
	// Timeout bounds a single generation call including retries.
	Timeout time.Duration

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns the recommended generation settings.
func DefaultConfig() Config {
	return Config{
		Timeout:     10 * time.Second,
		MaxTokens:   1500,
		Temperature: 0.7,
	}
}

// Generator produces courses with an LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
}

// NewGenerator creates a Generator. A zero Timeout uses the default.
func NewGenerator(provider llm.Provider, cfg Config) *Generator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Generator{provider: provider, config: cfg}
}

// Generate asks the provider for a course. It never returns an error;
// every failure is a Failure result.
func (g *Generator) Generate(ctx context.Context, req Request) Result {
	ctx = llm.WithPurpose(ctx, llm.PurposeCourse)
	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserMessage(buildPrompt(req)),
		Schema:      CourseSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return Failure(llm.Reason(err), err)
	}

	var c Course
	if err := json.Unmarshal(resp.Content, &c); err != nil {
		return Failure("invalid_response", err)
	}

	c.SkillLevel = req.Tier
	for i := range c.Modules {
		if c.Modules[i].Difficulty == "" {
			c.Modules[i].Difficulty = string(req.Tier)
		}
	}
	if err := Validate(c); err != nil {
		return Failure("invalid_course", err)
	}
	return Ok(c)
}
