// Package config reads server settings from the environment. A .env file
// in the working directory is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/cyberquestjr/cyberquest/internal/llm"
	"github.com/cyberquestjr/cyberquest/internal/store"
)

// Defaults.
const (
	DefaultAddr              = ":8000"
	DefaultCourseCacheTTL    = time.Hour
	DefaultGenerationTimeout = 10 * time.Second
)

// Config is the full server configuration.
type Config struct {
	Addr        string
	DB          string
	CORSOrigins []string
	GinMode     string

	Redis          RedisConfig
	CourseCacheTTL time.Duration

	RabbitMQ RabbitMQConfig

	ElevenLabs ElevenLabsConfig

	// GenerationTimeout bounds every generative and speech call.
	GenerationTimeout time.Duration

	// LLM is the resolved provider configuration. LLMEnabled is false in
	// static-only mode.
	LLM        llm.Config
	LLMEnabled bool
}

// RedisConfig locates the course cache. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RabbitMQConfig locates the event broker. An empty URI disables
// publishing.
type RabbitMQConfig struct {
	URI      string
	Exchange string
}

// ElevenLabsConfig enables companion speech audio when APIKey is set.
type ElevenLabsConfig struct {
	APIKey  string
	VoiceID string
}

// Load reads .env, if any, and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:              envOr("CYBERQUEST_ADDR", DefaultAddr),
		DB:                envOr("CYBERQUEST_DB", os.Getenv("DATABASE_URL")),
		CORSOrigins:       splitList(envOr("CYBERQUEST_CORS_ORIGINS", "*")),
		GinMode:           os.Getenv("GIN_MODE"),
		CourseCacheTTL:    DefaultCourseCacheTTL,
		GenerationTimeout: DefaultGenerationTimeout,
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		RabbitMQ: RabbitMQConfig{
			URI:      os.Getenv("RABBITMQ_URI"),
			Exchange: os.Getenv("RABBITMQ_EXCHANGE"),
		},
		ElevenLabs: ElevenLabsConfig{
			APIKey:  os.Getenv("ELEVENLABS_API_KEY"),
			VoiceID: os.Getenv("ELEVENLABS_VOICE_ID"),
		},
	}
	var err error
	if cfg.DB == "" {
		if cfg.DB, err = store.DefaultDBPath(); err != nil {
			return Config{}, err
		}
	}
	if cfg.Redis.DB, err = envInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.CourseCacheTTL, err = envDuration("CYBERQUEST_COURSE_CACHE_TTL", DefaultCourseCacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.GenerationTimeout, err = envDuration("CYBERQUEST_GENERATION_TIMEOUT", DefaultGenerationTimeout); err != nil {
		return Config{}, err
	}

	cfg.LLM, cfg.LLMEnabled = llm.ResolveConfig()
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
