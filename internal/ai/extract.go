package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// excerptLimit bounds how much of a bad response ends up in logs.
const excerptLimit = 800

// MalformedResponseError means the model's text could not be reduced to
// the expected JSON object. Excerpt carries a bounded prefix of the raw
// response for diagnostics.
type MalformedResponseError struct {
	Excerpt string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed ai response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ExtractJSON recovers a single JSON object from a raw model response and
// unmarshals it into v. Markdown fences and prose before or after the
// object are tolerated; parse success is all-or-nothing and there are no
// retries here.
func ExtractJSON(raw string, v any) error {
	text := strings.ReplaceAll(raw, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return &MalformedResponseError{
			Excerpt: excerpt(raw),
			Err:     fmt.Errorf("no JSON object found"),
		}
	}
	text = text[start : end+1]

	if err := json.Unmarshal([]byte(text), v); err != nil {
		return &MalformedResponseError{
			Excerpt: excerpt(text),
			Err:     err,
		}
	}
	return nil
}

func excerpt(s string) string {
	if len(s) > excerptLimit {
		return s[:excerptLimit]
	}
	return s
}
