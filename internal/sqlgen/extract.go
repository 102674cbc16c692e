package sqlgen

import (
	"regexp"
	"strings"
)

var (
	sqlFencePattern = regexp.MustCompile("(?s)```sql\\s*(.*?)\\s*```")
	anyFencePattern = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// ExtractSQL pulls SQL text out of free-form model output. A fenced
// block tagged sql wins, then any fenced block, then the trimmed raw
// text. Absence of a fence is a valid fallback, not an error, and the
// function is idempotent: its output contains no fences to strip.
func ExtractSQL(raw string) string {
	if m := sqlFencePattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}

	if m := anyFencePattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}

	return strings.TrimSpace(raw)
}

// ExtractTagged returns the trimmed interior of the first fenced block
// carrying the given tag, e.g. ```explanation ... ```.
func ExtractTagged(raw, tag string) (string, bool) {
	pattern := regexp.MustCompile("(?s)```" + regexp.QuoteMeta(tag) + "\\s*(.*?)\\s*```")
	if m := pattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}
