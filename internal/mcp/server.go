// Package mcp exposes model card inspection and report search as MCP tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Vaibhavs10/model-info-extractor/internal/index"
	"github.com/Vaibhavs10/model-info-extractor/internal/pipeline"
	"github.com/Vaibhavs10/model-info-extractor/pkg/models"
)

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
}

// Server wraps the MCP server around the inspection pipeline.
type Server struct {
	mcpServer *server.MCPServer
	pipeline  *pipeline.Pipeline
	index     *index.Client // nil disables the search tools
}

// NewServer creates a new MCP server. The search tools are only registered
// when an index client is provided.
func NewServer(config Config, p *pipeline.Pipeline, indexClient *index.Client) (*Server, error) {
	if p == nil {
		return nil, fmt.Errorf("pipeline is required")
	}

	mcpServer := server.NewMCPServer(
		config.Name,
		config.Version,
		server.WithToolCapabilities(true),
	)

	s := &Server{
		mcpServer: mcpServer,
		pipeline:  p,
		index:     indexClient,
	}

	// Register inspect_model tool
	inspectTool := mcp.NewTool("inspect_model",
		mcp.WithDescription("Fetch a Hugging Face model card, enrich its external links, and return a concise LLM-generated summary."),
		mcp.WithString("model_id",
			mcp.Required(),
			mcp.Description("Model repository ID on the Hub (e.g. \"bert-base-uncased\")"),
		),
		mcp.WithString("llm_model",
			mcp.Description("Optional override for the summarization model ID"),
		),
	)
	mcpServer.AddTool(inspectTool, s.inspectHandler)

	if indexClient != nil {
		// Register search_reports tool
		searchTool := mcp.NewTool("search_reports",
			mcp.WithDescription("Search previously generated model reports by query. Returns matching reports as JSON."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Search query string"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results to return (default: 10)"),
			),
		)
		mcpServer.AddTool(searchTool, s.searchHandler)

		// Register get_report tool
		getReportTool := mcp.NewTool("get_report",
			mcp.WithDescription("Get a specific model report by ID"),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("Report ID to retrieve"),
			),
		)
		mcpServer.AddTool(getReportTool, s.getReportHandler)
	}

	return s, nil
}

// inspectHandler handles the inspect_model tool call.
func (s *Server) inspectHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modelID, err := req.RequireString("model_id")
	if err != nil {
		return mcp.NewToolResultError("model_id parameter is required"), nil
	}
	llmModel := req.GetString("llm_model", "")

	summaryText, err := s.handleInspect(ctx, modelID, llmModel)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(summaryText), nil
}

// handleInspect runs the full inspection and returns only the summary text.
func (s *Server) handleInspect(ctx context.Context, modelID, llmModel string) (string, error) {
	card, err := s.pipeline.FetchCard(ctx, modelID)
	if err != nil {
		return "", fmt.Errorf("failed to load model card for %q: %w", modelID, err)
	}

	report := s.pipeline.Analyze(ctx, card, pipeline.Hooks{})

	if !s.pipeline.CanSummarize() {
		return "", fmt.Errorf("LLM token not configured - set llm.token or hub.token to enable summarization")
	}
	if err := s.pipeline.Summarize(ctx, report, llmModel); err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	// Archiving and indexing are best effort for tool calls.
	if _, err := s.pipeline.Archive(ctx, report); err != nil {
		slog.Warn("failed to archive report", "model", modelID, "error", err)
	}
	if err := s.pipeline.Index(ctx, report); err != nil {
		slog.Warn("failed to index report", "model", modelID, "error", err)
	}

	return report.Summary, nil
}

// searchHandler handles the search_reports tool call.
func (s *Server) searchHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required"), nil
	}

	limit := req.GetInt("limit", 10)

	reports, err := s.handleSearch(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	result, err := json.Marshal(reports)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}

	return mcp.NewToolResultText(string(result)), nil
}

// getReportHandler handles the get_report tool call.
func (s *Server) getReportHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	report, err := s.handleGetReport(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get report failed: %v", err)), nil
	}
	if report == nil {
		return mcp.NewToolResultError(fmt.Sprintf("report not found: %s", id)), nil
	}

	result, err := json.Marshal(report)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal report: %v", err)), nil
	}

	return mcp.NewToolResultText(string(result)), nil
}

// handleSearch searches for reports matching the query.
func (s *Server) handleSearch(ctx context.Context, query string, limit int) ([]models.Report, error) {
	return s.index.Search(ctx, query, limit)
}

// handleGetReport retrieves a report by ID.
func (s *Server) handleGetReport(ctx context.Context, id string) (*models.Report, error) {
	return s.index.GetReport(ctx, id)
}

// ServeStdio starts the MCP server using stdio transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
