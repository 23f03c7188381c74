package llm

import (
	"regexp"
	"strings"
)

var fencedBlock = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

// ExtractJSON pulls the JSON object out of a model reply. It unwraps a fenced
// code block when present, then trims anything outside the outermost braces,
// so a reply with prose around a valid object is accepted. Callers still
// decode the result and fail on anything that is not valid JSON.
// Returns "" when no object is found.
func ExtractJSON(response string) string {
	text := strings.TrimSpace(response)
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	startIdx := strings.Index(text, "{")
	endIdx := strings.LastIndex(text, "}")
	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}
	return text[startIdx : endIdx+1]
}
