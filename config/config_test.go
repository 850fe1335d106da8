package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-prep/domain"
)

func TestLoad_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("DB_DSN", "user:pass@tcp(localhost:3306)/interview")

	_, err := Load()

	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "OPENROUTER_API_KEY", cfgErr.Key)
}

func TestLoad_RequiresDSN(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("DB_DSN", "")

	_, err := Load()

	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "DB_DSN", cfgErr.Key)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("DB_DSN", "user:pass@tcp(localhost:3306)/interview")
	t.Setenv("OPENROUTER_URL", "")
	t.Setenv("CHAT_MODEL", "")
	t.Setenv("PORT", "")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://openrouter.ai/api/v1/chat/completions", cfg.OpenRouterURL)
	assert.Equal(t, "openai/gpt-3.5-turbo", cfg.ChatModel)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("DB_DSN", "dsn")
	t.Setenv("CHAT_MODEL", "mistralai/mistral-7b-instruct")
	t.Setenv("PORT", "9090")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "mistralai/mistral-7b-instruct", cfg.ChatModel)
	assert.Equal(t, "9090", cfg.Port)
}
