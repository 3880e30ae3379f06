package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var (
	searchLimit  int
	searchFormat string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search generated model reports",
	Long: `Search previously generated model reports in the index.

Examples:
  # Basic search
  model-info-extractor search "speech recognition"

  # Limit results
  model-info-extractor search "diffusion" --limit 5

  # JSON output for scripting
  model-info-extractor search "quantized" --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum number of results")
	searchCmd.Flags().StringVar(&searchFormat, "format", "text", "Output format: text or json")
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Setup context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	query := args[0]
	cfg := GetConfig()

	indexClient, err := buildIndexClient(cfg)
	if err != nil {
		return err
	}
	if indexClient == nil {
		return fmt.Errorf("index not configured - set index.addresses")
	}

	reports, err := indexClient.Search(ctx, query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(reports) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	// Output results
	if searchFormat == "json" {
		output, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
	} else {
		fmt.Printf("Found %d results:\n\n", len(reports))
		for i, report := range reports {
			fmt.Printf("─── Result %d ───\n", i+1)
			fmt.Printf("Model:     %s\n", report.ModelID)
			fmt.Printf("ID:        %s\n", report.ID)
			fmt.Printf("Generated: %s\n", report.GeneratedAt.Format(time.RFC3339))

			// Truncate summary for display
			summaryText := report.Summary
			if len(summaryText) > 500 {
				summaryText = summaryText[:500] + "..."
			}
			fmt.Printf("Summary:\n%s\n\n", summaryText)
		}
	}

	return nil
}
