package config

import (
	"os"

	"interview-prep/domain"
)

const (
	defaultBaseURL   = "https://openrouter.ai/api/v1/chat/completions"
	defaultChatModel = "openai/gpt-3.5-turbo"
)

// Config carries everything the services need, read once at startup and
// injected into constructors instead of re-reading the environment on use.
type Config struct {
	OpenRouterAPIKey string
	OpenRouterURL    string
	ChatModel        string

	// OpenAIAPIKey is optional; without it the transcription adapter is
	// unavailable and answers fall back to the typed-answer placeholder.
	OpenAIAPIKey string

	DBDSN string

	// RabbitMQURL is optional; without it evaluation events are not published.
	RabbitMQURL string

	Port string
}

// Load reads the process environment and fails fast on missing required
// values rather than deferring the failure to first use.
func Load() (*Config, error) {
	cfg := &Config{
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterURL:    os.Getenv("OPENROUTER_URL"),
		ChatModel:        os.Getenv("CHAT_MODEL"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		DBDSN:            os.Getenv("DB_DSN"),
		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		Port:             os.Getenv("PORT"),
	}

	if cfg.OpenRouterAPIKey == "" {
		return nil, &domain.ConfigurationError{Key: "OPENROUTER_API_KEY"}
	}
	if cfg.DBDSN == "" {
		return nil, &domain.ConfigurationError{Key: "DB_DSN"}
	}

	if cfg.OpenRouterURL == "" {
		cfg.OpenRouterURL = defaultBaseURL
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = defaultChatModel
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	return cfg, nil
}
