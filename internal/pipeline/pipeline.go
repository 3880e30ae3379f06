// Package pipeline orchestrates model card inspection: fetch the card,
// extract and filter its links, enrich them, summarize, and optionally
// publish, archive, and index the finished report.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Vaibhavs10/model-info-extractor/internal/hub"
	"github.com/Vaibhavs10/model-info-extractor/internal/index"
	"github.com/Vaibhavs10/model-info-extractor/internal/links"
	"github.com/Vaibhavs10/model-info-extractor/internal/reader"
	"github.com/Vaibhavs10/model-info-extractor/internal/storage"
	"github.com/Vaibhavs10/model-info-extractor/internal/summary"
	"github.com/Vaibhavs10/model-info-extractor/pkg/models"
)

// Config holds pipeline configuration. Hub and Enricher are required; the
// rest switch optional stages off when nil.
type Config struct {
	Hub           *hub.Client
	Enricher      *reader.Enricher
	Summarizer    *summary.Summarizer // nil skips summarization
	Storage       *storage.Client     // nil skips archiving
	Index         *index.Client       // nil skips indexing
	ExcludedHosts []string
}

// Hooks lets callers observe pipeline progress. All fields are optional.
type Hooks struct {
	OnLinks      func(found, kept []string)
	OnEnrichment func(models.Enrichment)
}

// Pipeline runs the inspection stages.
type Pipeline struct {
	hub           *hub.Client
	enricher      *reader.Enricher
	summarizer    *summary.Summarizer
	storage       *storage.Client
	index         *index.Client
	excludedHosts []string
}

// New creates a new Pipeline with the given configuration.
func New(config Config) (*Pipeline, error) {
	if config.Hub == nil {
		return nil, fmt.Errorf("hub client is required")
	}
	if config.Enricher == nil {
		return nil, fmt.Errorf("enricher is required")
	}

	return &Pipeline{
		hub:           config.Hub,
		enricher:      config.Enricher,
		summarizer:    config.Summarizer,
		storage:       config.Storage,
		index:         config.Index,
		excludedHosts: config.ExcludedHosts,
	}, nil
}

// FetchCard loads the model card. A failure here is fatal to the whole
// inspection.
func (p *Pipeline) FetchCard(ctx context.Context, modelID string) (*hub.ModelCard, error) {
	return p.hub.GetModelCard(ctx, modelID)
}

// Analyze extracts links from a model card, filters them, and enriches the
// survivors. Enrichment failures are recorded per link and never abort the
// report.
func (p *Pipeline) Analyze(ctx context.Context, card *hub.ModelCard, hooks Hooks) *models.Report {
	now := time.Now().UTC()
	report := &models.Report{
		ID:          models.ReportID(card.ModelID, now),
		ModelID:     card.ModelID,
		Card:        card.Body,
		Tags:        card.Tags(),
		GeneratedAt: now,
	}

	report.Links = links.Extract(card.Body)
	report.Filtered = links.Filter(report.Links, p.excludedHosts)
	if hooks.OnLinks != nil {
		hooks.OnLinks(report.Links, report.Filtered)
	}

	slog.Info("model card analyzed",
		"model", card.ModelID,
		"links", len(report.Links),
		"kept", len(report.Filtered))

	if len(report.Filtered) > 0 {
		report.Enrichments = p.enricher.Enrich(ctx, report.Filtered, hooks.OnEnrichment)
	}

	return report
}

// CanSummarize reports whether a summarizer is configured.
func (p *Pipeline) CanSummarize() bool {
	return p.summarizer != nil
}

// Summarize generates the LLM summary for a report. An empty model uses the
// summarizer default; the model actually used is recorded on the report.
func (p *Pipeline) Summarize(ctx context.Context, report *models.Report, model string) error {
	if p.summarizer == nil {
		return fmt.Errorf("summarizer is not configured")
	}

	effective := model
	if effective == "" {
		effective = p.summarizer.Model()
	}
	report.LLMModel = effective

	text, err := p.summarizer.Summarize(ctx, model, report.Body())
	if err != nil {
		return err
	}
	report.Summary = text
	return nil
}

// fallbackTitle is used when title generation fails.
const fallbackTitle = "Model card link summary"

// Publish posts the report summary as a new discussion on the model
// repository. The title comes from the summarizer when available.
func (p *Pipeline) Publish(ctx context.Context, report *models.Report, model string) (*hub.Discussion, error) {
	if report.Summary == "" {
		return nil, fmt.Errorf("report has no summary to publish")
	}

	title := fallbackTitle
	if p.summarizer != nil {
		generated, err := p.summarizer.Title(ctx, model, report.Summary)
		if err != nil {
			slog.Warn("failed to generate discussion title", "error", err)
		} else {
			title = generated
		}
	}
	report.Title = title

	discussion, err := p.hub.CreateDiscussion(ctx, report.ModelID, title, report.Summary)
	if err != nil {
		return nil, err
	}

	slog.Info("discussion published", "model", report.ModelID, "num", discussion.Num)
	return discussion, nil
}

// Archive writes the report to object storage. Returns the storage prefix,
// or "" when archiving is disabled.
func (p *Pipeline) Archive(ctx context.Context, report *models.Report) (string, error) {
	if p.storage == nil {
		return "", nil
	}

	if err := p.storage.EnsureBucket(ctx); err != nil {
		return "", err
	}
	prefix, err := p.storage.PutReport(ctx, report)
	if err != nil {
		return "", err
	}

	slog.Info("report archived", "prefix", prefix, "bucket", p.storage.Bucket())
	return prefix, nil
}

// Index stores the report in the search index. A nil index client is a
// no-op.
func (p *Pipeline) Index(ctx context.Context, report *models.Report) error {
	if p.index == nil {
		return nil
	}

	if err := p.index.CreateIndex(ctx); err != nil {
		return err
	}
	if err := p.index.IndexReport(ctx, *report); err != nil {
		return err
	}

	slog.Debug("report indexed", "id", report.ID)
	return nil
}
