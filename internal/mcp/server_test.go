package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Vaibhavs10/model-info-extractor/internal/hub"
	"github.com/Vaibhavs10/model-info-extractor/internal/index"
	"github.com/Vaibhavs10/model-info-extractor/internal/llm"
	"github.com/Vaibhavs10/model-info-extractor/internal/pipeline"
	"github.com/Vaibhavs10/model-info-extractor/internal/reader"
	"github.com/Vaibhavs10/model-info-extractor/internal/summary"
	"github.com/Vaibhavs10/model-info-extractor/pkg/models"
)

func skipIfNoES(t *testing.T) {
	if os.Getenv("SKIP_ES_TESTS") == "1" {
		t.Skip("Skipping ES tests")
	}
	client, err := index.New(index.Config{
		Addresses: []string{"http://localhost:9200"},
		Index:     "test-skip",
	})
	if err != nil {
		t.Skipf("Skipping: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if !client.Ping(ctx) {
		t.Skip("Skipping: ES not available")
	}
}

// newTestPipeline wires a pipeline against fake hub, proxy, and LLM servers.
func newTestPipeline(t *testing.T, withSummarizer bool) *pipeline.Pipeline {
	t.Helper()

	hubServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/org/test-model/resolve/main/README.md" {
			w.Write([]byte("# Test Model\n\nPaper: https://papers.example.com/abs/1"))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(hubServer.Close)

	proxyServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Paper abstract text."))
	}))
	t.Cleanup(proxyServer.Close)

	llmServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Summary of the test model."}},
			},
		})
	}))
	t.Cleanup(llmServer.Close)

	enricher, err := reader.New(reader.Config{
		Providers: []reader.Provider{
			reader.NewProxy(reader.ProxyConfig{BaseURL: proxyServer.URL}),
		},
	})
	if err != nil {
		t.Fatalf("reader.New() error = %v", err)
	}

	var summarizer *summary.Summarizer
	if withSummarizer {
		llmClient, err := llm.New(llm.Config{BaseURL: llmServer.URL, Token: "hf_test", Model: "test/model"})
		if err != nil {
			t.Fatalf("llm.New() error = %v", err)
		}
		summarizer = summary.New(llmClient)
	}

	p, err := pipeline.New(pipeline.Config{
		Hub:        hub.New(hub.Config{BaseURL: hubServer.URL}),
		Enricher:   enricher,
		Summarizer: summarizer,
	})
	if err != nil {
		t.Fatalf("pipeline.New() error = %v", err)
	}
	return p
}

func TestServer_Creation(t *testing.T) {
	s, err := NewServer(Config{
		Name:    "model-info-extractor",
		Version: "1.0.0",
	}, newTestPipeline(t, false), nil)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	if s == nil {
		t.Fatal("NewServer() returned nil")
	}
	if s.mcpServer == nil {
		t.Error("mcpServer should not be nil")
	}
}

func TestServer_CreationRequiresPipeline(t *testing.T) {
	if _, err := NewServer(Config{Name: "x", Version: "1"}, nil, nil); err == nil {
		t.Error("NewServer() without a pipeline should fail")
	}
}

func TestServer_HandleInspect(t *testing.T) {
	s, err := NewServer(Config{
		Name:    "model-info-extractor",
		Version: "1.0.0",
	}, newTestPipeline(t, true), nil)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	summaryText, err := s.handleInspect(t.Context(), "org/test-model", "")
	if err != nil {
		t.Fatalf("handleInspect() error = %v", err)
	}
	if summaryText != "Summary of the test model." {
		t.Errorf("summary = %q", summaryText)
	}
}

func TestServer_HandleInspectMissingModel(t *testing.T) {
	s, err := NewServer(Config{
		Name:    "model-info-extractor",
		Version: "1.0.0",
	}, newTestPipeline(t, true), nil)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	_, err = s.handleInspect(t.Context(), "missing/model", "")
	if err == nil {
		t.Fatal("handleInspect() should fail for a missing model")
	}
	if !strings.Contains(err.Error(), "failed to load model card") {
		t.Errorf("error = %v, should name the card load failure", err)
	}
}

func TestServer_HandleInspectWithoutSummarizer(t *testing.T) {
	s, err := NewServer(Config{
		Name:    "model-info-extractor",
		Version: "1.0.0",
	}, newTestPipeline(t, false), nil)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	_, err = s.handleInspect(t.Context(), "org/test-model", "")
	if err == nil {
		t.Fatal("handleInspect() without a summarizer should fail")
	}
	if !strings.Contains(err.Error(), "token") {
		t.Errorf("error = %v, should point at the missing token", err)
	}
}

func TestServer_SearchTool(t *testing.T) {
	skipIfNoES(t)

	ctx := context.Background()

	// Setup ES with test data
	indexClient, err := index.New(index.Config{
		Addresses: []string{"http://localhost:9200"},
		Index:     "model-reports-mcp-test",
	})
	if err != nil {
		t.Fatalf("Failed to create index client: %v", err)
	}

	indexClient.DeleteIndex(ctx)
	indexClient.CreateIndex(ctx)

	reports := []models.Report{
		{
			ID:      "mcp-test-1",
			ModelID: "org/bert-base",
			Card:    "# BERT\n\nMasked language model.",
			Summary: "BERT handles fill-mask tasks and classification.",
		},
		{
			ID:      "mcp-test-2",
			ModelID: "org/whisper-small",
			Card:    "# Whisper\n\nSpeech model.",
			Summary: "Whisper transcribes speech to text.",
		},
	}

	for _, report := range reports {
		indexClient.IndexReport(ctx, report)
	}
	time.Sleep(1 * time.Second)
	indexClient.Refresh(ctx)

	s, err := NewServer(Config{
		Name:    "model-info-extractor",
		Version: "1.0.0",
	}, newTestPipeline(t, false), indexClient)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	results, err := s.handleSearch(ctx, "transcribes", 10)
	if err != nil {
		t.Fatalf("handleSearch() error = %v", err)
	}

	if len(results) == 0 {
		t.Error("handleSearch() should return results for 'transcribes'")
	}

	// Cleanup
	indexClient.DeleteIndex(ctx)
}

func TestServer_GetReportTool(t *testing.T) {
	skipIfNoES(t)

	ctx := context.Background()

	indexClient, err := index.New(index.Config{
		Addresses: []string{"http://localhost:9200"},
		Index:     "model-reports-mcp-get-test",
	})
	if err != nil {
		t.Fatalf("Failed to create index client: %v", err)
	}

	indexClient.DeleteIndex(ctx)
	indexClient.CreateIndex(ctx)

	report := models.Report{
		ID:      "mcp-get-test",
		ModelID: "org/test-model",
		Card:    "# Test\n\nCard body.",
		Summary: "A summary.",
	}
	indexClient.IndexReport(ctx, report)
	time.Sleep(500 * time.Millisecond)

	s, err := NewServer(Config{
		Name:    "model-info-extractor",
		Version: "1.0.0",
	}, newTestPipeline(t, false), indexClient)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	result, err := s.handleGetReport(ctx, "mcp-get-test")
	if err != nil {
		t.Fatalf("handleGetReport() error = %v", err)
	}

	if result == nil {
		t.Fatal("handleGetReport() returned nil")
	}
	if result.ID != report.ID {
		t.Errorf("ID = %q, want %q", result.ID, report.ID)
	}

	// Cleanup
	indexClient.DeleteIndex(ctx)
}
