package enhance

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xxxxxthhh/SignalFeed/internal/filter"
)

// ParseResult decodes a model response into a Result. Models often wrap the
// JSON in markdown code fences; those are stripped before decoding.
func ParseResult(content string) (Result, error) {
	cleaned := stripCodeFences(content)

	var r Result
	if err := json.Unmarshal([]byte(cleaned), &r); err != nil {
		return Result{}, fmt.Errorf("decoding enhancement: %w", err)
	}
	if r.Summary == "" {
		return Result{}, fmt.Errorf("enhancement missing summary")
	}

	r.Summary = filter.NormalizeText(r.Summary)
	r.KeyPoints = cleanList(r.KeyPoints)
	r.Tags = cleanTags(r.Tags)
	return r, nil
}

// stripCodeFences removes a surrounding ```json ... ``` block if present.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language hint on the fence line.
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		if cleaned := filter.NormalizeText(item); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

func cleanTags(tags []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tag := range tags {
		key := filter.NormalizeKey(tag)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}
