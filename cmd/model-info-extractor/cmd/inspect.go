package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/Vaibhavs10/model-info-extractor/internal/hub"
	"github.com/Vaibhavs10/model-info-extractor/internal/pipeline"
	"github.com/Vaibhavs10/model-info-extractor/pkg/models"
	"github.com/spf13/cobra"
)

var inspectDiscuss bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <model-id> [llm-model]",
	Short: "Inspect a model card and summarize its links",
	Long: `Fetch a model card from the Hugging Face Hub, pull readable text for
the external links it references, and print the aggregated report
followed by an LLM-generated summary.

Examples:
  # Inspect a model with the default summarization model
  model-info-extractor inspect openai/gpt-oss-20b

  # Pick the summarization model
  model-info-extractor inspect openai/gpt-oss-20b meta-llama/Llama-3.3-70B-Instruct

  # Post the summary as a discussion on the model repo
  model-info-extractor inspect openai/gpt-oss-20b --discuss`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&inspectDiscuss, "discuss", false, "Post the summary as a discussion on the model repo")
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	modelID := args[0]
	llmModel := ""
	if len(args) == 2 {
		llmModel = args[1]
	}

	cfg := GetConfig()

	p, _, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	card, err := p.FetchCard(ctx, modelID)
	if err != nil {
		switch {
		case hub.IsNotFound(err):
			return fmt.Errorf("model %q not found - check the ID", modelID)
		case hub.IsUnauthorized(err):
			return fmt.Errorf("access to %q denied - set hub.token or HF_TOKEN for gated models", modelID)
		}
		return err
	}

	// Print report sections as they complete; enrichment of a long link
	// list can take minutes at the default pacing.
	report := p.Analyze(ctx, card, pipeline.Hooks{
		OnLinks: func(found, kept []string) {
			fmt.Println("=== README markdown ===")
			fmt.Println(card.Body)
			if len(found) == 0 {
				fmt.Println("\nNo URLs detected in the model card.")
				return
			}
			fmt.Println("\n=== URLs found ===")
			for _, u := range found {
				fmt.Println(u)
			}
			if len(kept) == 0 {
				fmt.Println("\nNo external URLs (after filtering) detected in the model card.")
				return
			}
			fmt.Println("\n=== Link summaries ===")
		},
		OnEnrichment: func(e models.Enrichment) {
			if e.Err != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "❌ Failed to fetch '%s': %s\n", e.URL, e.Err)
			}
			fmt.Println(e.Section())
		},
	})

	if !p.CanSummarize() {
		fmt.Fprintln(cmd.ErrOrStderr(), "⚠️  HF_TOKEN environment variable not set. Skipping summarization.")
	} else if err := p.Summarize(ctx, report, llmModel); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "❌ Failed to generate summary: %v\n", err)
	} else {
		fmt.Println("\n=== SUMMARY ===")
		fmt.Println(report.Summary)

		if inspectDiscuss {
			discussion, err := p.Publish(ctx, report, llmModel)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "❌ Failed to create discussion: %v\n", err)
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "Discussion created: %s\n", discussion.URL)
			}
		}
	}

	// Archiving and indexing never fail the inspection.
	if prefix, err := p.Archive(ctx, report); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  Failed to archive report: %v\n", err)
	} else if prefix != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Report archived: %s\n", prefix)
	}
	if err := p.Index(ctx, report); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  Failed to index report: %v\n", err)
	}

	return nil
}
