// Package links extracts and filters http(s) URLs from model card text.
package links

import (
	"net/url"
	"regexp"
	"strings"
)

// urlPattern matches http(s) URLs up to the first character that commonly
// terminates a link in markdown or prose: whitespace, ")", "]", ">", a quote,
// or a backtick.
var urlPattern = regexp.MustCompile("https?://[^\\s)\\]>'\"`]+")

// Extract returns the URLs found in text, deduplicated, preserving the order
// of first appearance.
func Extract(text string) []string {
	matches := urlPattern.FindAllString(text, -1)

	seen := make(map[string]struct{}, len(matches))
	var urls []string
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		urls = append(urls, m)
	}
	return urls
}

// Filter removes URLs whose host component contains any of the excluded
// substrings. URLs that cannot be parsed are kept. Order is preserved.
func Filter(urls []string, excludedHosts []string) []string {
	if len(urls) == 0 {
		return nil
	}

	var kept []string
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil {
			kept = append(kept, raw)
			continue
		}
		if !hostExcluded(u.Host, excludedHosts) {
			kept = append(kept, raw)
		}
	}
	return kept
}

func hostExcluded(host string, excluded []string) bool {
	for _, sub := range excluded {
		if sub != "" && strings.Contains(host, sub) {
			return true
		}
	}
	return false
}

// Strip removes every URL match from text.
func Strip(text string) string {
	return urlPattern.ReplaceAllString(text, "")
}
