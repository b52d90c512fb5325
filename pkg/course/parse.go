package course

import (
	"encoding/json"
	"errors"
	"strings"
)

const fence = "```"

// Parse reads a course from a model reply. Replies wrapped in a ```json or
// bare ``` fence are unwrapped first; only the first fenced block is used.
func Parse(text string) (*Course, error) {
	body := extractJSON(text)
	if body == "" {
		return nil, &GenerationError{Err: errors.New("model reply is empty")}
	}

	c := &Course{}
	if err := json.Unmarshal([]byte(body), c); err != nil {
		return nil, &GenerationError{Err: err}
	}

	return c, nil
}

func extractJSON(text string) string {
	switch {
	case strings.Contains(text, fence+"json"):
		_, after, _ := strings.Cut(text, fence+"json")
		inner, _, _ := strings.Cut(after, fence)
		return strings.TrimSpace(inner)

	case strings.Contains(text, fence):
		_, after, _ := strings.Cut(text, fence)
		inner, _, _ := strings.Cut(after, fence)
		return strings.TrimSpace(inner)

	default:
		return strings.TrimSpace(text)
	}
}
