package llm

import (
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("(?s)^```(?:\\w+)?\\s*\\n?(.*?)\\n?\\s*```$")

// StripCodeFence removes a single surrounding markdown code fence, such as
// ```json ... ```, and trims whitespace. Text without a fence is returned
// trimmed.
func StripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}
