package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/Vaibhavs10/model-info-extractor/internal/ingestion"
	"github.com/Vaibhavs10/model-info-extractor/internal/storage"
	"github.com/spf13/cobra"
)

var reindexPrefix string

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the report index from archived reports",
	Long: `Rebuild the search index from reports archived in S3 storage.

Use this command after changing the index mapping, or to index reports
that were archived while the index was unavailable.

Examples:
  # Reindex every archived report
  model-info-extractor reindex

  # Reindex a single model's reports
  model-info-extractor reindex --prefix reports/openai_gpt-oss-20b`,
	RunE: runReindex,
}

func init() {
	rootCmd.AddCommand(reindexCmd)

	reindexCmd.Flags().StringVar(&reindexPrefix, "prefix", "reports", "Storage prefix to reindex")
}

func runReindex(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := GetConfig()
	slog.Debug("reindex command starting", "prefix", reindexPrefix)

	if cfg.Storage.Endpoint == "" {
		return fmt.Errorf("storage not configured - set storage.endpoint")
	}

	storageClient, err := storage.New(storage.Config{
		Endpoint:        cfg.Storage.Endpoint,
		Bucket:          cfg.Storage.Bucket,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		UseSSL:          cfg.Storage.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}

	indexClient, err := buildIndexClient(cfg)
	if err != nil {
		return err
	}
	if indexClient == nil {
		return fmt.Errorf("index not configured - set index.addresses")
	}

	engine := ingestion.New(storageClient, indexClient)

	fmt.Printf("Reindexing: %s\n", reindexPrefix)

	result, err := engine.Reindex(ctx, reindexPrefix)
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	fmt.Printf("\nReindex complete:\n")
	fmt.Printf("  Reports found: %d\n", result.ReportsFound)
	fmt.Printf("  Indexed: %d\n", result.Indexed)
	fmt.Printf("  Duration: %v\n", result.Duration)

	if len(result.Errors) > 0 {
		fmt.Printf("  Warnings: %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("    - %s\n", e)
		}
	}

	return nil
}
