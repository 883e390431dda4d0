// Package llm calls a chat-completion endpoint to answer natural-language
// questions. Two provider shapes are supported, selected by which
// credentials are configured: a managed deployment (endpoint + deployment
// name + api-key header) and a direct API (bearer key + model name). With
// neither configured, Ask returns ErrNotConfigured and the caller answers
// from its own context instead.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 90 * time.Second
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"

	maxTokens   = 800
	temperature = 0.2
)

// ErrNotConfigured is returned when no provider credentials are set.
var ErrNotConfigured = errors.New("no LLM credentials configured")

// Config selects the provider. Deployment credentials win when both are
// present.
type Config struct {
	// Managed deployment variant
	Endpoint      string
	Deployment    string
	DeploymentKey string
	APIVersion    string

	// Direct variant
	APIKey  string
	BaseURL string
	Model   string
}

type Client struct {
	httpClient *http.Client
	cfg        Config
}

func NewClient(cfg Config) *Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-10-21"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		cfg:        cfg,
	}
}

// Configured reports whether any provider credentials are present.
func (c *Client) Configured() bool {
	return c.deploymentConfigured() || c.cfg.APIKey != ""
}

func (c *Client) deploymentConfigured() bool {
	return c.cfg.Endpoint != "" && c.cfg.Deployment != "" && c.cfg.DeploymentKey != ""
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Ask sends a system + user message pair and returns the model's text.
func (c *Client) Ask(ctx context.Context, system, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	reqBody := chatRequest{
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	var url string
	headers := map[string]string{"Content-Type": "application/json"}

	if c.deploymentConfigured() {
		url = fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
			strings.TrimRight(c.cfg.Endpoint, "/"), c.cfg.Deployment, c.cfg.APIVersion)
		headers["api-key"] = c.cfg.DeploymentKey
	} else {
		reqBody.Model = c.cfg.Model
		base := strings.TrimRight(c.cfg.BaseURL, "/")
		if strings.HasSuffix(base, "/chat/completions") {
			url = base
		} else {
			url = base + "/chat/completions"
		}
		headers["Authorization"] = "Bearer " + c.cfg.APIKey
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute chat request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat API failed with status %d: %s", resp.StatusCode, string(data))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(data, &chatResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal chat response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices: %s", string(data))
	}

	return chatResp.Choices[0].Message.Content, nil
}
