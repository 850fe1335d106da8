package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"interview-prep/config"
	"interview-prep/domain"
)

// Request/response payloads for the OpenRouter chat completions API
// (OpenAI-compatible wire format).
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// OpenRouterClient sends single-attempt chat completion requests. Callers
// decide fallback policy; the client itself never retries.
type OpenRouterClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewOpenRouterClient(cfg *config.Config) *OpenRouterClient {
	return &OpenRouterClient{
		apiKey:  cfg.OpenRouterAPIKey,
		baseURL: cfg.OpenRouterURL,
		model:   cfg.ChatModel,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Complete sends one prompt and returns the raw text content of the first
// choice. Low temperature and bounded output keep the model output as
// deterministic as it gets.
func (c *OpenRouterClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.1,
		MaxTokens:   2000,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", "http://localhost")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &domain.ServiceError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.ServiceError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &domain.ServiceError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &domain.ServiceError{Err: fmt.Errorf("failed to parse API response: %w", err)}
	}

	if len(parsed.Choices) == 0 {
		return "", &domain.ServiceError{Err: fmt.Errorf("no choices in response")}
	}

	return parsed.Choices[0].Message.Content, nil
}
