// Package reader fetches cleaned, text-oriented versions of external links
// so they can be folded into a model card report.
package reader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Vaibhavs10/model-info-extractor/internal/links"
	"github.com/Vaibhavs10/model-info-extractor/internal/ratelimit"
	"github.com/Vaibhavs10/model-info-extractor/pkg/models"
)

// maxResponseSize caps how much of a fetched page is read.
const maxResponseSize = 10 << 20 // 10MB

// Provider fetches readable text for a single URL.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// Config holds enricher configuration.
type Config struct {
	Providers []Provider         // Tried in order, first success wins
	Limiter   *ratelimit.Limiter // Optional pacing between fetches
}

// Enricher fetches link content sequentially with per-link failure isolation.
type Enricher struct {
	providers []Provider
	limiter   *ratelimit.Limiter
}

// New creates a new Enricher with the given configuration.
func New(config Config) (*Enricher, error) {
	if len(config.Providers) == 0 {
		return nil, fmt.Errorf("at least one provider is required")
	}
	return &Enricher{
		providers: config.Providers,
		limiter:   config.Limiter,
	}, nil
}

// Enrich fetches readable text for each URL in order. A failed fetch is
// recorded on its enrichment and does not stop the remaining URLs. The
// optional onResult callback fires after each URL completes.
func (e *Enricher) Enrich(ctx context.Context, urls []string, onResult func(models.Enrichment)) []models.Enrichment {
	if len(urls) == 0 {
		return nil
	}

	slog.Debug("enriching links", "count", len(urls))

	results := make([]models.Enrichment, 0, len(urls))
	for _, pageURL := range urls {
		if ctx.Err() != nil {
			slog.Debug("enrichment cancelled", "fetched", len(results))
			break
		}

		enrichment := e.enrichOne(ctx, pageURL)
		results = append(results, enrichment)
		if onResult != nil {
			onResult(enrichment)
		}
	}

	return results
}

// enrichOne fetches one URL through the provider chain.
func (e *Enricher) enrichOne(ctx context.Context, pageURL string) models.Enrichment {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return models.Enrichment{URL: pageURL, Err: err.Error()}
		}
	}

	var lastErr error
	for _, provider := range e.providers {
		text, err := provider.Fetch(ctx, pageURL)
		if err != nil {
			slog.Debug("provider fetch failed",
				"provider", provider.Name(),
				"url", pageURL,
				"error", err)
			lastErr = err
			continue
		}

		slog.Debug("link enriched", "provider", provider.Name(), "url", pageURL, "size", len(text))
		// Strip nested URLs to keep the aggregated report compact.
		return models.Enrichment{URL: pageURL, Text: links.Strip(text)}
	}

	return models.Enrichment{URL: pageURL, Err: lastErr.Error()}
}
