package reader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultProxyBaseURL is the public text-extraction proxy endpoint.
const DefaultProxyBaseURL = "https://r.jina.ai"

// ProxyConfig holds proxy provider configuration.
type ProxyConfig struct {
	BaseURL string        // Defaults to DefaultProxyBaseURL
	APIKey  string        // Optional; raises the proxy's rate limits
	Timeout time.Duration // Per-request timeout
}

// ProxyProvider fetches pages through a text-extraction proxy that returns
// cleaned, markdown-ish text for arbitrary URLs.
type ProxyProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewProxy creates a new proxy provider.
func NewProxy(config ProxyConfig) *ProxyProvider {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultProxyBaseURL
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &ProxyProvider{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     config.APIKey,
	}
}

// Name identifies the provider in logs.
func (p *ProxyProvider) Name() string {
	return "proxy"
}

// Fetch retrieves the cleaned text for pageURL. The proxy takes the full
// original URL as its path, e.g. https://r.jina.ai/https://example.com/doc.
func (p *ProxyProvider) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/"+pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("proxy returned status %d", resp.StatusCode)
	}

	return string(body), nil
}
