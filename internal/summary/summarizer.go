// Package summary turns an aggregated model card report into a short
// LLM-generated summary and an optional discussion title.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Vaibhavs10/model-info-extractor/internal/llm"
)

// MaxContentForSummary limits how much report text is sent to the LLM.
// Large cards with many enriched links can exceed model context windows.
const MaxContentForSummary = 120000

// titleMaxTokens bounds the title completion length.
const titleMaxTokens = 64

const summaryPrompt = `You are given a lot of information about a machine learning model available on Hugging Face. Create a concise, technical and to the point summary highlighting the technical details, comparisons and instructions to run the model (if available). Think of the summary as a gist with all the information someone should need to know about the model without overwhelming them. Do not add any text formatting to your output text, keep it simple and plain text. If you have to then sparingly just use markdown for Heading and lists. Specifically do not use ** to bold text, just use # for headings and - for lists. No need to put any contact information in the summary. The summary is supposed to be insightful and information dense and should not be more than 200-300 words. Don't hallucinate and refer only to the content provided to you. Remember to be concise. Here is the information:

%s`

const titlePrompt = `You are given a summary of a machine learning model's documentation. Write a short descriptive title for a discussion post that shares this summary. At most ten words, plain text only, no quotes and no markdown. Here is the summary:

%s`

// Summarizer generates summaries and titles from report text.
type Summarizer struct {
	llm *llm.Client
}

// New creates a new summarizer backed by the given LLM client.
func New(llmClient *llm.Client) *Summarizer {
	return &Summarizer{llm: llmClient}
}

// Model returns the default model the summarizer completes with.
func (s *Summarizer) Model() string {
	return s.llm.Model()
}

// Summarize asks the LLM for a concise summary of the report body. An empty
// model falls back to the client default.
func (s *Summarizer) Summarize(ctx context.Context, model, reportBody string) (string, error) {
	if reportBody == "" {
		return "", fmt.Errorf("report body is empty")
	}
	if len(reportBody) > MaxContentForSummary {
		slog.Debug("truncating report body for summarization",
			"length", len(reportBody),
			"limit", MaxContentForSummary)
		reportBody = reportBody[:MaxContentForSummary]
	}

	result, err := s.llm.CompleteWithModel(ctx, model, fmt.Sprintf(summaryPrompt, reportBody))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}
	return result, nil
}

// Title asks the LLM for a short discussion title derived from a summary.
func (s *Summarizer) Title(ctx context.Context, model, summaryText string) (string, error) {
	if summaryText == "" {
		return "", fmt.Errorf("summary text is empty")
	}

	result, err := s.llm.CompleteWithMaxTokens(ctx, model, fmt.Sprintf(titlePrompt, summaryText), titleMaxTokens)
	if err != nil {
		return "", fmt.Errorf("failed to generate title: %w", err)
	}

	title := sanitizeTitle(result)
	if title == "" {
		return "", fmt.Errorf("generated title is empty")
	}
	return title, nil
}

// sanitizeTitle reduces an LLM response to a single plain-text title line.
func sanitizeTitle(raw string) string {
	title := raw
	if idx := strings.IndexByte(title, '\n'); idx >= 0 {
		title = title[:idx]
	}
	title = strings.TrimSpace(title)
	title = strings.Trim(title, `"'`)
	title = strings.TrimLeft(title, "# ")
	title = strings.Trim(title, `"' `)
	if len(title) > 120 {
		title = strings.TrimSpace(title[:120])
	}
	return title
}
