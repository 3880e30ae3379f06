package reader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/gocolly/colly/v2"
	"golang.org/x/net/html"
)

// DirectConfig holds direct provider configuration.
type DirectConfig struct {
	UserAgent        string
	Timeout          time.Duration
	TryMarkdownFirst bool // Try to fetch markdown versions of pages
}

// DirectProvider fetches pages straight from their origin and converts HTML
// to markdown. Used as a fallback when the proxy is unavailable.
type DirectProvider struct {
	config     DirectConfig
	httpClient *http.Client
}

// NewDirect creates a new direct provider.
func NewDirect(config DirectConfig) *DirectProvider {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "model-info-extractor/1.0"
	}
	return &DirectProvider{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Name identifies the provider in logs.
func (d *DirectProvider) Name() string {
	return "direct"
}

// Fetch retrieves pageURL and returns its content as markdown-ish text.
func (d *DirectProvider) Fetch(ctx context.Context, pageURL string) (string, error) {
	// Try markdown variants if enabled
	if d.config.TryMarkdownFirst {
		if content, ok := d.tryMarkdownVariants(ctx, pageURL); ok {
			return content, nil
		}
	}

	body, contentType, err := d.fetchPage(ctx, pageURL)
	if err != nil {
		return "", err
	}

	if isMarkdown(pageURL, contentType, body) {
		return body, nil
	}

	return toMarkdown(body)
}

// fetchPage downloads a single page without following links.
func (d *DirectProvider) fetchPage(ctx context.Context, pageURL string) (string, string, error) {
	var body, contentType string
	var fetchErr error

	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.UserAgent(d.config.UserAgent),
	)
	c.SetRequestTimeout(d.config.Timeout)

	// Check for cancellation before each request
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			fetchErr = ctx.Err()
		}
	})

	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
		contentType = r.Headers.Get("Content-Type")
	})

	c.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(pageURL); err != nil {
		return "", "", fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	c.Wait()

	if fetchErr != nil {
		return "", "", fmt.Errorf("failed to fetch %s: %w", pageURL, fetchErr)
	}
	if body == "" {
		return "", "", fmt.Errorf("empty response from %s", pageURL)
	}

	return body, contentType, nil
}

// tryMarkdownVariants attempts to fetch markdown versions of the URL.
func (d *DirectProvider) tryMarkdownVariants(ctx context.Context, pageURL string) (string, bool) {
	for _, variantURL := range markdownURLVariants(pageURL) {
		if ctx.Err() != nil {
			return "", false
		}
		if content, ok := d.tryFetchMarkdown(ctx, variantURL); ok {
			return content, true
		}
	}
	return "", false
}

// tryFetchMarkdown attempts to fetch a single markdown URL.
func (d *DirectProvider) tryFetchMarkdown(ctx context.Context, fetchURL string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", d.config.UserAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", false
	}

	content := string(raw)
	if isMarkdown(fetchURL, resp.Header.Get("Content-Type"), content) {
		return content, true
	}

	return "", false
}

// markdownURLVariants returns potential markdown versions of a URL.
func markdownURLVariants(pageURL string) []string {
	// GitHub blob -> raw conversion (even if already .md, we want the raw URL)
	if strings.Contains(pageURL, "github.com") && strings.Contains(pageURL, "/blob/") {
		raw := strings.Replace(pageURL, "github.com", "raw.githubusercontent.com", 1)
		raw = strings.Replace(raw, "/blob/", "/", 1)
		return []string{raw}
	}

	// Already markdown? No variants needed
	if isMarkdownURL(pageURL) {
		return nil
	}

	return []string{strings.TrimSuffix(pageURL, "/") + ".md"}
}

// toMarkdown converts HTML content into markdown, prepending the page title
// when the conversion loses it.
func toMarkdown(htmlContent string) (string, error) {
	markdown, err := htmltomarkdown.ConvertString(htmlContent)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML: %w", err)
	}
	markdown = strings.TrimSpace(markdown)

	if title := extractTitle(htmlContent); title != "" && !strings.HasPrefix(markdown, "#") {
		markdown = "# " + title + "\n\n" + markdown
	}

	return markdown, nil
}

// extractTitle extracts the <title> content from HTML.
func extractTitle(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var title string
	var findTitle func(*html.Node)
	findTitle = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil {
				title = n.FirstChild.Data
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findTitle(c)
		}
	}
	findTitle(doc)

	return strings.TrimSpace(title)
}

var (
	headingPattern = regexp.MustCompile(`^#{1,6}\s+\S`)
	listPattern    = regexp.MustCompile(`(?m)^[\-\*]\s+\S`)
	mdLinkPattern  = regexp.MustCompile(`\[.+?\]\(.+?\)`)
)

// isMarkdown determines if content is already markdown. Checks in order:
// Content-Type, URL, then content heuristics.
func isMarkdown(pageURL, contentType, content string) bool {
	if isMarkdownContentType(contentType) {
		return true
	}
	if isMarkdownURL(pageURL) {
		return true
	}
	return isMarkdownContent(content)
}

// isMarkdownContentType checks if the Content-Type header indicates markdown.
func isMarkdownContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "text/markdown") ||
		strings.HasPrefix(ct, "text/x-markdown")
}

// isMarkdownURL checks if the URL indicates a markdown file.
func isMarkdownURL(pageURL string) bool {
	lower := strings.ToLower(pageURL)
	return strings.HasSuffix(lower, ".md") ||
		strings.HasSuffix(lower, ".markdown")
}

// isMarkdownContent uses heuristics to detect if content is markdown.
func isMarkdownContent(content string) bool {
	if content == "" {
		return false
	}

	trimmed := strings.TrimSpace(content)
	if looksLikeHTML(trimmed) {
		return false
	}

	return headingPattern.MatchString(trimmed) ||
		listPattern.MatchString(trimmed) ||
		mdLinkPattern.MatchString(trimmed)
}

// looksLikeHTML checks if content appears to be HTML.
func looksLikeHTML(content string) bool {
	lower := strings.ToLower(content)
	return strings.HasPrefix(lower, "<!doctype") ||
		strings.HasPrefix(lower, "<html") ||
		strings.HasPrefix(lower, "<head") ||
		strings.HasPrefix(lower, "<body")
}
