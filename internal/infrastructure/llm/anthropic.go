package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"autoblog/internal/config"
	"autoblog/internal/domain"
	"autoblog/internal/provider"
)

const anthropicVersion = "2023-06-01"

// AnthropicClient implements provider.Completer against the messages API.
type AnthropicClient struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

var _ provider.Completer = (*AnthropicClient)(nil)

// NewAnthropicClient builds a client from configuration.
func NewAnthropicClient(cfg config.ModelConfig) *AnthropicClient {
	return &AnthropicClient{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Name identifies the backend inside the registry.
func (c *AnthropicClient) Name() domain.Provider {
	return domain.ProviderClaude
}

// Complete posts the prompt as a user message and returns the first
// content block's text.
func (c *AnthropicClient) Complete(ctx context.Context, req provider.Request) (string, error) {
	if c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("anthropic client misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model":       c.model,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
		"system":      req.System,
		"messages": []map[string]string{
			{"role": "user", "content": req.User},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal anthropic payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("x-api-key", req.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("anthropic request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("anthropic error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode anthropic response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("anthropic response has no content")
	}

	return parsed.Content[0].Text, nil
}
