// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	Env      string // "development", "staging", "production"
	LogLevel string

	// Database
	DatabaseURL string // PostgreSQL connection string (optional, uses in-memory if not set)

	// LLM collaborators
	OpenAIAPIKey  string
	OpenAIBaseURL string // Optional override (proxy / OpenAI-compatible endpoint)
	ChatModel     string // Model used for assistant replies
	ScoringModel  string // Model used for risk scoring
	LLMTimeout    time.Duration

	// Chat settings
	HistoryWindow int // Most-recent-N prior messages supplied as reply context

	// Security
	RateLimitRPM   int
	AllowedOrigins []string

	// Admin bootstrap: the account with this email is granted admin on signup
	AdminEmail string

	// Observability
	OTLPEndpoint string
}

const (
	DefaultPort          = "8080"
	DefaultEnv           = "development"
	DefaultLogLevel      = "info"
	DefaultChatModel     = "gpt-4o-mini"
	DefaultScoringModel  = "gpt-4o-mini"
	DefaultHistoryWindow = 20
	DefaultRateLimitRPM  = 60
	DefaultLLMTimeout    = 30 * time.Second
)

// Load reads configuration from environment variables
// It loads .env file if present (for local development)
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", DefaultPort),
		Env:           getEnv("ENV", DefaultEnv),
		LogLevel:      getEnv("LOG_LEVEL", DefaultLogLevel),
		DatabaseURL:   os.Getenv("DATABASE_URL"), // Optional, uses in-memory if not set
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		ChatModel:     getEnv("CHAT_MODEL", DefaultChatModel),
		ScoringModel:  getEnv("SCORING_MODEL", DefaultScoringModel),
		LLMTimeout:    time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 30)) * time.Second,
		HistoryWindow: getEnvInt("HISTORY_WINDOW", DefaultHistoryWindow),
		RateLimitRPM:  getEnvInt("RATE_LIMIT_RPM", DefaultRateLimitRPM),
		AdminEmail:    strings.ToLower(os.Getenv("ADMIN_EMAIL")),
		OTLPEndpoint:  os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{"*"}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present.
// OPENAI_API_KEY is deliberately not required: the server starts without it,
// chat turns fail with service_unavailable and scoring degrades to unavailable.
func (c *Config) Validate() error {
	if c.HistoryWindow < 0 {
		return fmt.Errorf("HISTORY_WINDOW must be >= 0")
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT_SECONDS must be positive")
	}
	if c.RateLimitRPM <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPM must be positive")
	}
	return nil
}

// LLMConfigured reports whether the LLM collaborators can be constructed
func (c *Config) LLMConfigured() bool {
	return c.OpenAIAPIKey != ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
