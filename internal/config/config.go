package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string

	HTTPAddr string

	// Catalog source: Postgres when DatabaseURL is set, else CatalogPath, else the embedded seed.
	DatabaseURL string
	CatalogPath string

	// Redis (pending selections, itinerary handoff)
	RedisURL     string
	SelectionTTL time.Duration
	ItineraryTTL time.Duration

	// RabbitMQ
	RabbitURL      string
	RabbitExchange string

	// Content generation
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	GenerationTimeout time.Duration
	PricingTimeout    time.Duration
	DefaultCurrency   string

	// Rate Limiting
	RLEnabled bool
	RLLimit   int
	RLWindow  time.Duration

	// Tracing
	OTelEnabled  bool
	OTelEndpoint string

	LogLevel  string
	LogFormat string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8086")

	cfg.DatabaseURL = getEnv("DATABASE_URL", "")
	cfg.CatalogPath = getEnv("CATALOG_PATH", "")

	cfg.RedisURL = getEnv("REDIS_URL", "")
	cfg.SelectionTTL = getDuration("SELECTION_TTL", 30*time.Minute)
	cfg.ItineraryTTL = getDuration("ITINERARY_TTL", 24*time.Hour)

	cfg.RabbitURL = getEnv("RABBIT_URL", "")
	cfg.RabbitExchange = getEnv("RABBIT_EXCHANGE", "itinerary.events")

	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", "")
	cfg.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", "")
	cfg.OpenAIModel = getEnv("OPENAI_MODEL", "gpt-4o-mini")
	cfg.GenerationTimeout = getDuration("GENERATION_TIMEOUT", 45*time.Second)
	cfg.PricingTimeout = getDuration("PRICING_TIMEOUT", 3*time.Second)
	cfg.DefaultCurrency = strings.ToUpper(getEnv("DEFAULT_CURRENCY", "USD"))

	// Rate Limiting Defaults: 30 reqs / 1 min, generation is expensive
	cfg.RLEnabled = getBool("RL_ENABLED", true)
	cfg.RLLimit = getIntEnv("RL_IP_LIMIT", 30)
	cfg.RLWindow = getDuration("RL_IP_WINDOW", 1*time.Minute)

	cfg.OTelEnabled = getBool("OTEL_ENABLED", false)
	cfg.OTelEndpoint = getEnv("OTEL_ENDPOINT", "")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "console")

	cfg.HTTPReadTimeout = getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	cfg.HTTPWriteTimeout = getDuration("HTTP_WRITE_TIMEOUT", 90*time.Second)
	cfg.HTTPIdleTimeout = getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second)

	// validation
	if cfg.AppEnv != "dev" && cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY (required when APP_ENV != dev)")
	}
	if cfg.GenerationTimeout <= 0 {
		return nil, fmt.Errorf("GENERATION_TIMEOUT must be positive")
	}
	if cfg.HTTPWriteTimeout <= cfg.GenerationTimeout {
		return nil, fmt.Errorf("HTTP_WRITE_TIMEOUT (%s) must exceed GENERATION_TIMEOUT (%s)", cfg.HTTPWriteTimeout, cfg.GenerationTimeout)
	}

	return cfg, nil
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getIntEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
