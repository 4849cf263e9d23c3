package course

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cyberquestjr/cyberquest/internal/assessment"
)

// Cache stores generated courses keyed by tier and weak-topic set.
type Cache interface {
	// Get returns the cached course and whether it was found.
	Get(ctx context.Context, key string) (Course, bool, error)
	Set(ctx context.Context, key string, c Course) error
}

// CacheKey identifies a course by tier and the sorted, deduplicated weak
// topics. Topic order and duplicates do not change the key.
func CacheKey(tier assessment.Tier, weak []assessment.Topic) string {
	topics := make([]string, 0, len(weak))
	for _, t := range weak {
		topics = append(topics, string(t))
	}
	slices.Sort(topics)
	topics = slices.Compact(topics)
	if len(topics) == 0 {
		topics = []string{"none"}
	}
	return fmt.Sprintf("cyberquest:course:%s:%s", tier, strings.Join(topics, ","))
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (Course, bool, error) { return Course{}, false, nil }
func (NopCache) Set(context.Context, string, Course) error { return nil }

// MemoryCache is an in-process Cache with a fixed TTL.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	course  Course
	expires time.Time
}

// NewMemoryCache creates a MemoryCache. A zero ttl never expires.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (Course, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return Course{}, false, nil
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		delete(m.entries, key)
		return Course{}, false, nil
	}
	return e.course.Clone(), true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, c Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{course: c.Clone()}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.entries[key] = e
	return nil
}

// RedisCache stores courses as JSON values with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps a connected client.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, key string) (Course, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Course{}, false, nil
	}
	if err != nil {
		return Course{}, false, fmt.Errorf("get cached course: %w", err)
	}
	var c Course
	if err := json.Unmarshal(data, &c); err != nil {
		return Course{}, false, fmt.Errorf("decode cached course: %w", err)
	}
	return c, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, c Course) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode course: %w", err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache course: %w", err)
	}
	return nil
}
