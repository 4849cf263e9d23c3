package course

import (
	"context"
	"log"

	"github.com/cyberquestjr/cyberquest/internal/assessment"
	"github.com/cyberquestjr/cyberquest/internal/metrics"
)

// Synthesizer picks the course strategy. With no generator it serves the
// static templates only.
type Synthesizer struct {
	gen   *Generator
	cache Cache
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithCache sets the cache for generated courses.
func WithCache(c Cache) Option {
	return func(s *Synthesizer) {
		if c != nil {
			s.cache = c
		}
	}
}

// NewSynthesizer creates a Synthesizer. gen may be nil.
func NewSynthesizer(gen *Generator, opts ...Option) *Synthesizer {
	s := &Synthesizer{gen: gen, cache: NopCache{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generative reports whether a generator is configured.
func (s *Synthesizer) Generative() bool {
	return s.gen != nil
}

// Synthesize returns a course for req and the strategy that produced it.
// It always returns a valid course.
func (s *Synthesizer) Synthesize(ctx context.Context, req Request) (Course, Strategy) {
	if _, err := assessment.ParseTier(string(req.Tier)); err != nil {
		req.Tier = assessment.Beginner
	}

	c, strategy := s.synthesize(ctx, req)
	metrics.Courses.WithLabelValues(string(strategy)).Inc()
	return c, strategy
}

func (s *Synthesizer) synthesize(ctx context.Context, req Request) (Course, Strategy) {
	if s.gen == nil {
		return Static(req.Tier), StrategyStatic
	}

	key := CacheKey(req.Tier, req.Weak)
	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Printf("course cache: %v", err)
	}
	if ok && Validate(cached) == nil {
		return cached, StrategyCached
	}

	res := s.gen.Generate(ctx, req)
	if !res.IsOk() {
		log.Printf("course generation failed (%s), serving static %s course: %v", res.Reason(), req.Tier, res.Err())
		metrics.Fallbacks.WithLabelValues(metrics.ComponentCourse).Inc()
		return res.UnwrapOr(Static(req.Tier)), StrategyStatic
	}

	c := res.UnwrapOr(Static(req.Tier))
	if err := s.cache.Set(ctx, key, c); err != nil {
		log.Printf("course cache: %v", err)
	}
	return c, StrategyGenerated
}
