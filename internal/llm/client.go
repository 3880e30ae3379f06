// Package llm wraps an OpenAI-compatible chat completions API with retry
// support. It targets the Hugging Face inference router by default.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultBaseURL is the Hugging Face inference router endpoint.
const DefaultBaseURL = "https://router.huggingface.co/v1"

// maxResponseSize limits the LLM response body to prevent memory exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// Config holds LLM client configuration.
type Config struct {
	BaseURL   string        // Defaults to DefaultBaseURL
	Token     string        // API token, sent as a bearer credential
	Model     string        // Default model (e.g., "CohereLabs/c4ai-command-a-03-2025")
	Timeout   time.Duration // Per-request timeout
	MaxTokens int           // Default response cap, 0 means unlimited
	Retry     RetryConfig   // Zero value means DefaultRetryConfig
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	model       string
	maxTokens   int
	retryConfig RetryConfig
}

// New creates a new LLM client.
func New(config Config) (*Client, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("token is required")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	retry := config.Retry
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryConfig()
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		token:       config.Token,
		model:       config.Model,
		maxTokens:   config.MaxTokens,
		retryConfig: retry,
	}, nil
}

// Model returns the default model name.
func (c *Client) Model() string {
	return c.model
}

// chatRequest is the request payload for the chat completions API.
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"` // Limit response length
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response from the chat completions API.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends a prompt to the default model and returns the response.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithMaxTokens(ctx, "", prompt, 0)
}

// CompleteWithModel sends a prompt to a specific model. An empty model falls
// back to the client default.
func (c *Client) CompleteWithModel(ctx context.Context, model, prompt string) (string, error) {
	return c.CompleteWithMaxTokens(ctx, model, prompt, 0)
}

// CompleteWithMaxTokens sends a prompt with a token limit on the response.
// If maxTokens is 0, the configured default cap applies, which may itself
// be unlimited.
func (c *Client) CompleteWithMaxTokens(ctx context.Context, model, prompt string, maxTokens int) (string, error) {
	if model == "" {
		model = c.model
	}
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	requestID := uuid.New().String()

	var lastErr error
	for attempt := 1; attempt <= c.retryConfig.MaxAttempts; attempt++ {
		content, err := c.doRequest(ctx, model, prompt, maxTokens)
		if err == nil {
			slog.Debug("completion succeeded",
				"request_id", requestID,
				"model", model,
				"attempt", attempt)
			return content, nil
		}

		lastErr = err

		// Don't retry fatal errors
		if IsFatal(err) {
			return "", err
		}

		if attempt < c.retryConfig.MaxAttempts {
			backoff := c.calculateBackoff(attempt)
			slog.Debug("completion failed, retrying",
				"request_id", requestID,
				"model", model,
				"attempt", attempt,
				"max_attempts", c.retryConfig.MaxAttempts,
				"backoff", backoff,
				"error", err)

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
				// Continue to retry
			}
		}
	}

	return "", lastErr
}

// calculateBackoff computes exponential backoff duration with jitter.
// Jitter prevents thundering herd when multiple clients retry simultaneously.
func (c *Client) calculateBackoff(attempt int) time.Duration {
	multiplier := 1.0
	for i := 1; i < attempt; i++ {
		multiplier *= c.retryConfig.BackoffMultiplier
	}

	backoff := time.Duration(float64(c.retryConfig.BackoffBase) * multiplier)
	if backoff > c.retryConfig.MaxBackoff {
		backoff = c.retryConfig.MaxBackoff
	}

	// Add jitter: +/- 25% to prevent synchronized retries
	jitter := float64(backoff) * 0.25 * (rand.Float64()*2 - 1)
	return backoff + time.Duration(jitter)
}

// doRequest executes a single chat completion request.
func (c *Client) doRequest(ctx context.Context, model, prompt string, maxTokens int) (string, error) {
	req := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens: maxTokens,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", NewFatalError(fmt.Errorf("failed to marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", NewFatalError(fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", NewTransientError(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", NewTransientError(fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(resp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", NewFatalError(fmt.Errorf("failed to unmarshal response: %w", err))
	}

	if chatResp.Error != nil {
		return "", NewFatalError(fmt.Errorf("API error: %s", chatResp.Error.Message))
	}

	if len(chatResp.Choices) == 0 {
		return "", NewFatalError(fmt.Errorf("no response returned"))
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// classifyStatus determines if an HTTP error is transient or fatal.
func classifyStatus(statusCode int, body []byte) error {
	bodyStr := string(body)
	if len(bodyStr) > 200 {
		bodyStr = bodyStr[:200] + "..."
	}

	err := fmt.Errorf("API error (status %d): %s", statusCode, bodyStr)

	switch {
	case statusCode == http.StatusTooManyRequests:
		// Rate limiting is transient
		return NewTransientError(err)
	case statusCode >= 500:
		// Server errors are transient
		return NewTransientError(err)
	default:
		// Auth and request errors are fatal
		return NewFatalError(err)
	}
}
