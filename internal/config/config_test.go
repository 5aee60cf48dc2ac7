package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper to set env vars and clean up after
func setEnv(t *testing.T, key, value string) {
	t.Helper()
	old := os.Getenv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if old == "" {
			os.Unsetenv(key)
		} else {
			os.Setenv(key, old)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, "PORT", "")
	setEnv(t, "HISTORY_WINDOW", "")
	setEnv(t, "LLM_TIMEOUT_SECONDS", "")
	setEnv(t, "ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultChatModel, cfg.ChatModel)
	assert.Equal(t, DefaultScoringModel, cfg.ScoringModel)
	assert.Equal(t, DefaultHistoryWindow, cfg.HistoryWindow)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	setEnv(t, "PORT", "9090")
	setEnv(t, "CHAT_MODEL", "gpt-4o")
	setEnv(t, "HISTORY_WINDOW", "6")
	setEnv(t, "ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	setEnv(t, "ADMIN_EMAIL", "Ops@Example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "gpt-4o", cfg.ChatModel)
	assert.Equal(t, 6, cfg.HistoryWindow)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "ops@example.com", cfg.AdminEmail, "admin email is lowercased")
}

func TestLoad_MissingAPIKeyIsNotFatal(t *testing.T) {
	setEnv(t, "OPENAI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.LLMConfigured())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:    "valid config",
			config:  Config{HistoryWindow: 20, LLMTimeout: 30 * time.Second, RateLimitRPM: 60},
			wantErr: "",
		},
		{
			name:    "negative history window",
			config:  Config{HistoryWindow: -1, LLMTimeout: 30 * time.Second, RateLimitRPM: 60},
			wantErr: "HISTORY_WINDOW",
		},
		{
			name:    "zero LLM timeout",
			config:  Config{HistoryWindow: 20, LLMTimeout: 0, RateLimitRPM: 60},
			wantErr: "LLM_TIMEOUT_SECONDS",
		},
		{
			name:    "zero rate limit",
			config:  Config{HistoryWindow: 20, LLMTimeout: 30 * time.Second, RateLimitRPM: 0},
			wantErr: "RATE_LIMIT_RPM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{Env: "development"}
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.Env = "production"
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.IsProduction())
}

func TestGetEnvInt(t *testing.T) {
	setEnv(t, "TEST_INT", "42")
	setEnv(t, "TEST_INVALID", "not_a_number")

	assert.Equal(t, 42, getEnvInt("TEST_INT", 0))
	assert.Equal(t, 99, getEnvInt("NONEXISTENT_VAR", 99))
	assert.Equal(t, 99, getEnvInt("TEST_INVALID", 99)) // Falls back on parse error
}
