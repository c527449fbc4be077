package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// StripCodeBlock removes a surrounding markdown code fence, if any.
func StripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// ParseJSON decodes a model reply into T, tolerating a ```json fence.
func ParseJSON[T any](reply string) (T, error) {
	var v T
	text := StripCodeBlock(reply)
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return v, fmt.Errorf("parse json: %w (raw: %s)", err, truncate(text, 200))
	}
	return v, nil
}
