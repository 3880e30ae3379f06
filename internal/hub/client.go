// Package hub is a client for the Hugging Face Hub: it fetches model cards
// and opens discussions on model repositories.
package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public Hugging Face Hub endpoint.
const DefaultBaseURL = "https://huggingface.co"

// maxResponseSize caps how much of a hub response is read.
const maxResponseSize = 10 << 20 // 10MB

// Config holds hub client configuration.
type Config struct {
	BaseURL string        // Defaults to DefaultBaseURL
	Token   string        // Optional; required for gated repos and discussions
	Timeout time.Duration // Per-request timeout
}

// Client talks to the hub's raw-file and REST endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// New creates a new hub client.
func New(config Config) *Client {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		token:      config.Token,
	}
}

// GetModelCard fetches the README (model card) of a model repository, trying
// the main branch first, then master.
func (c *Client) GetModelCard(ctx context.Context, modelID string) (*ModelCard, error) {
	id := strings.Trim(strings.TrimSpace(modelID), "/")
	if id == "" {
		return nil, fmt.Errorf("model id is required")
	}

	candidates := []string{
		fmt.Sprintf("%s/%s/resolve/main/README.md", c.baseURL, id),
		fmt.Sprintf("%s/%s/resolve/master/README.md", c.baseURL, id),
	}

	var lastErr error
	for _, cardURL := range candidates {
		raw, err := c.fetchRaw(ctx, cardURL)
		if err != nil {
			lastErr = err
			continue
		}

		front, body := splitFrontMatter(raw)
		slog.Debug("fetched model card", "model", id, "bytes", len(raw), "front_matter", front != nil)
		return &ModelCard{
			ModelID:     id,
			Raw:         raw,
			FrontMatter: front,
			Body:        body,
		}, nil
	}

	return nil, fmt.Errorf("failed to fetch model card for %q: %w", id, lastErr)
}

// fetchRaw downloads a raw file from the hub.
func (c *Client) fetchRaw(ctx context.Context, fileURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/markdown, text/plain, */*")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode}
	}

	return string(body), nil
}

// Discussion is a discussion thread on a model repository.
type Discussion struct {
	Num   int    `json:"num"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// CreateDiscussion opens a new discussion on a model repository. The client
// token needs write access.
func (c *Client) CreateDiscussion(ctx context.Context, modelID, title, description string) (*Discussion, error) {
	if c.token == "" {
		return nil, fmt.Errorf("a token with write access is required")
	}
	id := strings.Trim(strings.TrimSpace(modelID), "/")
	if id == "" {
		return nil, fmt.Errorf("model id is required")
	}
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	payload, err := json.Marshal(map[string]string{
		"title":       title,
		"description": description,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	discussionURL := fmt.Sprintf("%s/api/models/%s/discussions", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, discussionURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var discussion Discussion
	if err := json.Unmarshal(body, &discussion); err != nil {
		return nil, fmt.Errorf("failed to unmarshal discussion: %w", err)
	}
	discussion.URL = fmt.Sprintf("%s/%s/discussions/%d", c.baseURL, id, discussion.Num)

	slog.Debug("discussion created", "model", id, "num", discussion.Num)
	return &discussion, nil
}
