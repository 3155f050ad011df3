package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything main needs to wire the server. Values come from
// the environment so deployments stay twelve-factor; optional subsystems
// (Redis, Kafka) are disabled when their URL/broker list is empty.
type Config struct {
	Addr        string
	PostgresURL string

	// RequireTag controls the TAG_MISSING policy: when true a plate-only
	// crossing with no active tag is terminal; when false the decision
	// proceeds without a tag.
	RequireTag bool

	AdminJWTKey string

	Redis RedisConfig
	Kafka KafkaConfig

	RateLimit RateLimitConfig
}

type RedisConfig struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Addr:        envOr("TOLLGATE_ADDR", ":8080"),
		PostgresURL: os.Getenv("TOLLGATE_POSTGRES_URL"),
		RequireTag:  envBool("TOLLGATE_REQUIRE_TAG", true),
		AdminJWTKey: envOr("TOLLGATE_ADMIN_JWT_KEY", "dev-secret-key-change-in-production"),
		Redis: RedisConfig{
			URL:          os.Getenv("TOLLGATE_REDIS_URL"),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("TOLLGATE_KAFKA_BROKERS")),
			Topic:   envOr("TOLLGATE_KAFKA_TOPIC", "tollgate.notifications"),
		},
		RateLimit: RateLimitConfig{
			Limit:  envInt("TOLLGATE_RATE_LIMIT", 50),
			Window: time.Minute,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
