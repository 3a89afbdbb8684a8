package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// nodeName identifies this process for report ID generation.
func nodeName() string {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "skincheck"
	}
	return fmt.Sprintf("%s-%d", hostname, os.Getpid())
}

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	NodeName    string

	// Storage
	DatabaseURL string
	RedisURL    string
	MongoDBURL  string
	MongoDBName string

	// Explanation model (OpenAI-compatible endpoint)
	OpenAIAPIKey   string
	LLMBaseURL     string
	LLMModel       string
	LLMMaxTokens   int
	LLMTemperature float64
	ExplainTimeout time.Duration

	// Resolution
	ResolveConcurrency  int
	SimilarityThreshold float64
	CacheResolutionTTL  time.Duration

	// HTTP
	JWTSecret       string
	AllowedOrigins  []string
	RateLimitPerMin int
	MaxIngredients  int
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		NodeName:    getEnv("NODE_NAME", nodeName()),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		MongoDBURL:  getEnv("MONGODB_URL", ""),
		MongoDBName: getEnv("MONGODB_DATABASE", "skincheck"),

		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		LLMBaseURL:     getEnv("LLM_BASE_URL", ""),
		LLMModel:       getEnv("LLM_MODEL", "llama-3.3-70b-versatile"),
		LLMMaxTokens:   getEnvInt("LLM_MAX_TOKENS", 1024),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.3),
		ExplainTimeout: time.Duration(getEnvInt("EXPLAIN_TIMEOUT_SEC", 20)) * time.Second,

		ResolveConcurrency:  getEnvInt("RESOLVE_CONCURRENCY", 8),
		SimilarityThreshold: getEnvFloat("SIMILARITY_THRESHOLD", 0.6),
		CacheResolutionTTL:  time.Duration(getEnvInt("CACHE_RESOLUTION_TTL_MIN", 60)) * time.Minute,

		JWTSecret:       getEnv("JWT_SECRET", ""),
		AllowedOrigins:  getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MIN", 120),
		MaxIngredients:  getEnvInt("MAX_INGREDIENTS", 200),
	}
	return cfg, cfg.validateValues()
}

// validateValues rejects settings that are malformed regardless of command.
func (c *Config) validateValues() error {
	var errs []error
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold >= 1 {
		errs = append(errs, fmt.Errorf("SIMILARITY_THRESHOLD must be in (0, 1), got %v", c.SimilarityThreshold))
	}
	if c.ResolveConcurrency < 1 {
		errs = append(errs, fmt.Errorf("RESOLVE_CONCURRENCY must be positive, got %d", c.ResolveConcurrency))
	}
	if c.ExplainTimeout <= 0 {
		errs = append(errs, errors.New("EXPLAIN_TIMEOUT_SEC must be positive"))
	}
	if c.MaxIngredients < 1 {
		errs = append(errs, fmt.Errorf("MAX_INGREDIENTS must be positive, got %d", c.MaxIngredients))
	}
	return errors.Join(errs...)
}

// Validate checks what the HTTP server needs on top of Load.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	return c.validateValues()
}

// ExplainerEnabled reports whether an explanation model is configured.
func (c *Config) ExplainerEnabled() bool {
	return c.OpenAIAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
