package hub

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// ModelCard is a model repository README: optional YAML front matter followed
// by a markdown body.
type ModelCard struct {
	ModelID     string
	Raw         string         // Full README content as fetched
	FrontMatter map[string]any // nil when no valid front matter block exists
	Body        string         // Markdown body without the front matter block
}

// License returns the license declared in the front matter, if any.
func (c *ModelCard) License() string {
	if s, ok := c.FrontMatter["license"].(string); ok {
		return s
	}
	return ""
}

// Tags returns the tags declared in the front matter, if any.
func (c *ModelCard) Tags() []string {
	raw, ok := c.FrontMatter["tags"].([]any)
	if !ok {
		return nil
	}
	var tags []string
	for _, t := range raw {
		if s, ok := t.(string); ok && s != "" {
			tags = append(tags, s)
		}
	}
	return tags
}

// splitFrontMatter splits README content into parsed YAML front matter and
// the markdown body. Cards without a front matter block, or with YAML that
// does not parse, yield nil front matter and the raw content as body.
func splitFrontMatter(raw string) (map[string]any, string) {
	content := strings.TrimPrefix(raw, "\uFEFF")

	rest, ok := strings.CutPrefix(content, "---\n")
	if !ok {
		rest, ok = strings.CutPrefix(content, "---\r\n")
	}
	if !ok {
		return nil, raw
	}

	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, raw
	}

	block := rest[:end]
	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\r")
	// The closing delimiter must sit on its own line.
	if body != "" && !strings.HasPrefix(body, "\n") {
		return nil, raw
	}
	body = strings.TrimPrefix(body, "\n")

	var front map[string]any
	if err := yaml.Unmarshal([]byte(block), &front); err != nil {
		return nil, raw
	}
	return front, body
}
