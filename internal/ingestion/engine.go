// Package ingestion rebuilds the search index from archived reports.
package ingestion

import (
	"context"
	"log/slog"
	"time"

	"github.com/Vaibhavs10/model-info-extractor/internal/index"
	"github.com/Vaibhavs10/model-info-extractor/internal/storage"
)

// Result holds reindex execution results.
type Result struct {
	Prefix       string
	ReportsFound int
	Indexed      int
	Duration     time.Duration
	Errors       []string
}

// Engine reads archived reports from S3 and indexes them to Elasticsearch.
type Engine struct {
	storage *storage.Client
	index   *index.Client
}

// New creates a new ingestion engine.
func New(storageClient *storage.Client, indexClient *index.Client) *Engine {
	return &Engine{
		storage: storageClient,
		index:   indexClient,
	}
}

// Reindex loads every report under an S3 prefix and indexes it. A report
// that fails to load or index is recorded and skipped.
func (e *Engine) Reindex(ctx context.Context, prefix string) (*Result, error) {
	start := time.Now()
	result := &Result{Prefix: prefix}

	slog.Info("starting reindex", "prefix", prefix)

	// Ensure the index exists
	if err := e.index.CreateIndex(ctx); err != nil {
		return nil, err
	}

	prefixes, err := e.storage.ListReportPrefixes(ctx, prefix)
	if err != nil {
		return nil, err
	}
	result.ReportsFound = len(prefixes)

	slog.Info("found reports to index", "count", len(prefixes))

	for _, reportPrefix := range prefixes {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, "context cancelled")
			break
		}

		report, err := e.storage.GetReport(ctx, reportPrefix)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}

		slog.Debug("indexing report", "id", report.ID, "model", report.ModelID)
		if err := e.index.IndexReport(ctx, *report); err != nil {
			slog.Error("failed to index report", "id", report.ID, "error", err)
			result.Errors = append(result.Errors, err.Error())
		} else {
			result.Indexed++
		}
	}

	// Refresh index to make reports searchable immediately
	e.index.Refresh(ctx)

	result.Duration = time.Since(start)
	slog.Info("reindex complete",
		"prefix", prefix,
		"reports_indexed", result.Indexed,
		"duration", result.Duration,
		"errors", len(result.Errors))

	return result, nil
}
