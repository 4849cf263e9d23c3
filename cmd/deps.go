package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/cyberquestjr/cyberquest/internal/config"
	"github.com/cyberquestjr/cyberquest/internal/course"
	"github.com/cyberquestjr/cyberquest/internal/events"
	"github.com/cyberquestjr/cyberquest/internal/llm"
	"github.com/cyberquestjr/cyberquest/internal/store"
)

// newProvider builds the LLM provider, logging requests to st. It returns
// nil in static-only mode or when the provider cannot be built.
func newProvider(ctx context.Context, cfg config.Config, st *store.Store) llm.Provider {
	if !cfg.LLMEnabled {
		return nil
	}
	provider, err := llm.NewProvider(ctx, cfg.LLM, st.LLMEvents())
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: LLM provider unavailable:", err)
		fmt.Fprintln(os.Stderr, "warning: serving static content only.")
		return nil
	}
	return provider
}

// newCourseCache picks Redis when configured, else an in-process cache.
// The returned close func releases the Redis client.
func newCourseCache(ctx context.Context, cfg config.Config) (course.Cache, func() error) {
	if cfg.Redis.Addr == "" {
		return course.NewMemoryCache(cfg.CourseCacheTTL), func() error { return nil }
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: redis at %s unreachable, caching in memory: %v\n", cfg.Redis.Addr, err)
		client.Close()
		return course.NewMemoryCache(cfg.CourseCacheTTL), func() error { return nil }
	}
	return course.NewRedisCache(client, cfg.CourseCacheTTL), client.Close
}

// newSynthesizer wires the course synthesizer. provider may be nil.
func newSynthesizer(ctx context.Context, cfg config.Config, provider llm.Provider) (*course.Synthesizer, func() error) {
	if provider == nil {
		return course.NewSynthesizer(nil), func() error { return nil }
	}
	genCfg := course.DefaultConfig()
	genCfg.Timeout = cfg.GenerationTimeout
	cache, closeCache := newCourseCache(ctx, cfg)
	return course.NewSynthesizer(course.NewGenerator(provider, genCfg), course.WithCache(cache)), closeCache
}

// newPublisher connects the event broker when configured. An unreachable
// broker drops events instead of failing startup.
func newPublisher(cfg config.Config) events.Publisher {
	p, err := events.Connect(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: event broker unreachable, dropping events: %v\n", err)
		return events.NopPublisher{}
	}
	return p
}
