package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"toplist/internal/config"
	"toplist/internal/errors"
	"toplist/ports"
)

// GroqClient implements ports.LLMClient against Groq's OpenAI-compatible
// chat completions API
type GroqClient struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// NewGroqClient creates a Groq client from config
func NewGroqClient(cfg config.LLMConfig) *GroqClient {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	return &GroqClient{
		APIKey:      cfg.APIKey,
		BaseURL:     baseURL,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
	}
}

// IsAvailable reports whether the client is configured with credentials
func (c *GroqClient) IsAvailable() bool {
	return c.APIKey != "" && c.Model != ""
}

// Generate sends one prompt and returns the raw completion text
func (c *GroqClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.IsAvailable() {
		return "", fmt.Errorf("groq client not configured")
	}

	maxTokens := c.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	// Chat Completions API (kept minimal: one system + one user message)
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type reqBody struct {
		Model       string  `json:"model"`
		Messages    []msg   `json:"messages"`
		Temperature float64 `json:"temperature,omitempty"`
		MaxTokens   int     `json:"max_tokens,omitempty"`
	}
	body := reqBody{
		Model: c.Model,
		Messages: []msg{
			{Role: "system", Content: "You are a precise metadata researcher. Output exactly what the user asks for."},
			{Role: "user", Content: prompt},
		},
		Temperature: c.Temperature,
		MaxTokens:   maxTokens,
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	client := &http.Client{Timeout: timeout}
	url := strings.TrimRight(c.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("groq request failed: %w", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.ExternalServiceError("groq", fmt.Errorf("status %d: %s", resp.StatusCode, string(respRaw)))
	}

	var envelope struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respRaw, &envelope); err != nil {
		return "", fmt.Errorf("parse groq response: %w", err)
	}
	if len(envelope.Choices) == 0 {
		return "", fmt.Errorf("no choices in groq response")
	}

	return envelope.Choices[0].Message.Content, nil
}

// MockLLMClient is a deterministic LLM client for testing; safe for
// concurrent use
type MockLLMClient struct {
	Available bool
	Response  string
	Error     error

	// Prompts records every prompt passed to Generate
	Prompts []string

	mu sync.Mutex
}

func (m *MockLLMClient) IsAvailable() bool {
	return m.Available
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()
	if m.Error != nil {
		return "", m.Error
	}
	return m.Response, nil
}

var _ ports.LLMClient = (*GroqClient)(nil)
var _ ports.LLMClient = (*MockLLMClient)(nil)
