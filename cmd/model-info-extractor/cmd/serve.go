package cmd

import (
	"fmt"

	"github.com/Vaibhavs10/model-info-extractor/internal/mcp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server for model card inspection.

The server communicates via stdio and provides these tools:
  - inspect_model: Summarize a model card and its external links
  - search_reports: Search generated reports (requires the index)
  - get_report: Get a specific report by ID (requires the index)

Example:
  model-info-extractor serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	p, indexClient, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(mcp.Config{
		Name:    cfg.MCP.Name,
		Version: cfg.MCP.Version,
	}, p, indexClient)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Starting MCP server...")

	return server.ServeStdio()
}
