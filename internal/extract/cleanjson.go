package extract

import (
	"regexp"
	"strings"
)

var reJSONFence = regexp.MustCompile("(?i)```json")

// CleanJSON strips Markdown code fences and surrounding whitespace from a raw
// model response so it can be handed to a JSON decoder. It never fails: an
// empty input comes back as "{}" and already-clean text passes through
// unchanged, so applying it twice is the same as applying it once. The result
// is not guaranteed to be valid JSON; callers must tolerate a failed decode.
func CleanJSON(s string) string {
	out := reJSONFence.ReplaceAllString(s, "")
	out = strings.ReplaceAll(out, "```", "")
	out = strings.TrimSpace(out)
	if out == "" {
		return "{}"
	}
	return out
}
