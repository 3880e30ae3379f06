package summary

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Vaibhavs10/model-info-extractor/internal/llm"
)

// chatServer fakes a chat completions endpoint and records the last prompt.
func chatServer(t *testing.T, reply string) (*httptest.Server, *struct{ Model, Prompt string }) {
	t.Helper()
	got := &struct{ Model, Prompt string }{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		got.Model = req.Model
		if len(req.Messages) > 0 {
			got.Prompt = req.Messages[0].Content
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": reply}},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server, got
}

func newTestSummarizer(t *testing.T, serverURL string) *Summarizer {
	t.Helper()
	client, err := llm.New(llm.Config{BaseURL: serverURL, Token: "hf_test", Model: "default/model"})
	if err != nil {
		t.Fatalf("llm.New() error = %v", err)
	}
	return New(client)
}

func TestSummarizer_Summarize(t *testing.T) {
	server, got := chatServer(t, "A dense technical summary.")
	s := newTestSummarizer(t, server.URL)

	result, err := s.Summarize(t.Context(), "", "=== README markdown ===\nSome model card text.")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if result != "A dense technical summary." {
		t.Errorf("result = %q", result)
	}
	if got.Model != "default/model" {
		t.Errorf("model = %q, want client default", got.Model)
	}
	if !strings.Contains(got.Prompt, "Here is the information:") {
		t.Error("prompt should carry the instruction template")
	}
	if !strings.Contains(got.Prompt, "Some model card text.") {
		t.Error("prompt should embed the report body")
	}
}

func TestSummarizer_SummarizeModelOverride(t *testing.T) {
	server, got := chatServer(t, "ok")
	s := newTestSummarizer(t, server.URL)

	if _, err := s.Summarize(t.Context(), "override/model", "body"); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got.Model != "override/model" {
		t.Errorf("model = %q, want override", got.Model)
	}
}

func TestSummarizer_SummarizeTruncatesLongReports(t *testing.T) {
	server, got := chatServer(t, "ok")
	s := newTestSummarizer(t, server.URL)

	long := strings.Repeat("x", MaxContentForSummary+1000)
	if _, err := s.Summarize(t.Context(), "", long); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if len(got.Prompt) > MaxContentForSummary+len(summaryPrompt) {
		t.Errorf("prompt length = %d, report body should be truncated", len(got.Prompt))
	}
}

func TestSummarizer_SummarizeEmptyBody(t *testing.T) {
	server, _ := chatServer(t, "ok")
	s := newTestSummarizer(t, server.URL)

	if _, err := s.Summarize(t.Context(), "", ""); err == nil {
		t.Error("Summarize() should reject an empty report body")
	}
}

func TestSummarizer_Title(t *testing.T) {
	server, got := chatServer(t, "\"# Summary of BERT capabilities\"\nExtra line to drop.")
	s := newTestSummarizer(t, server.URL)

	title, err := s.Title(t.Context(), "", "The model does fill-mask.")
	if err != nil {
		t.Fatalf("Title() error = %v", err)
	}

	if title != "Summary of BERT capabilities" {
		t.Errorf("title = %q, should be a single clean line", title)
	}
	if !strings.Contains(got.Prompt, "The model does fill-mask.") {
		t.Error("prompt should embed the summary text")
	}
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "Model overview", "Model overview"},
		{"quoted", `"Model overview"`, "Model overview"},
		{"heading", "## Model overview", "Model overview"},
		{"multiline", "Model overview\nSecond line", "Model overview"},
		{"padded", "  Model overview  ", "Model overview"},
		{"empty", "\n\n", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeTitle(tt.raw); got != tt.want {
				t.Errorf("sanitizeTitle(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSanitizeTitle_CapsLength(t *testing.T) {
	long := strings.Repeat("word ", 60)
	got := sanitizeTitle(long)
	if len(got) > 120 {
		t.Errorf("len = %d, want <= 120", len(got))
	}
}
