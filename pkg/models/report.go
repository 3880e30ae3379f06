package models

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Enrichment holds the readable text fetched for one URL found in a model
// card. Err is set when every fetch attempt failed; Text is empty then.
type Enrichment struct {
	URL  string `json:"url"`
	Text string `json:"text,omitempty"`
	Err  string `json:"error,omitempty"`
}

// Section renders the enrichment as one report block, with a failed fetch
// shown inline.
func (e Enrichment) Section() string {
	text := e.Text
	if e.Err != "" {
		text = "❌ Failed to fetch summary: " + e.Err
	}
	return fmt.Sprintf("\n--- %s ---\n%s", e.URL, text)
}

// Report is the result of inspecting one model card.
type Report struct {
	ID          string       `json:"id"`
	ModelID     string       `json:"model_id"`
	LLMModel    string       `json:"llm_model,omitempty"` // Model that produced the summary
	Card        string       `json:"card"`                // Markdown body of the model card
	Links       []string     `json:"links,omitempty"`     // Unique URLs in order of appearance
	Filtered    []string     `json:"filtered_links,omitempty"`
	Enrichments []Enrichment `json:"enrichments,omitempty"`
	Summary     string       `json:"summary,omitempty"`
	Title       string       `json:"title,omitempty"` // Generated discussion title
	Tags        []string     `json:"tags,omitempty"`  // Tags declared in card front matter
	GeneratedAt time.Time    `json:"generated_at"`
}

// Body renders the report sections that precede the summary: the card
// markdown, the URLs found in it, and the readable text fetched per link.
func (r *Report) Body() string {
	sections := []string{"=== README markdown ===", r.Card}

	if len(r.Links) == 0 {
		sections = append(sections, "\nNo URLs detected in the model card.")
		return strings.Join(sections, "\n")
	}

	sections = append(sections, "\n=== URLs found ===")
	sections = append(sections, r.Links...)

	if len(r.Filtered) == 0 {
		sections = append(sections, "\nNo external URLs (after filtering) detected in the model card.")
		return strings.Join(sections, "\n")
	}

	sections = append(sections, "\n=== Link summaries ===")
	for _, e := range r.Enrichments {
		sections = append(sections, e.Section())
	}

	return strings.Join(sections, "\n")
}

// Render returns the full report text, including the summary section when a
// summary is present.
func (r *Report) Render() string {
	body := r.Body()
	if r.Summary == "" {
		return body
	}
	return body + "\n\n=== SUMMARY ===\n" + r.Summary
}

// ReportID creates a deterministic ID for a report.
// The ID is a SHA-256 hash (first 16 chars) of the model ID and timestamp.
func ReportID(modelID string, generatedAt time.Time) string {
	hash := sha256.Sum256([]byte(modelID + "|" + generatedAt.UTC().Format(time.RFC3339Nano)))
	return hex.EncodeToString(hash[:])[:16]
}
