package inference

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// ErrStructuredOutput marks a json_object response that did not contain
// valid JSON after fence stripping. Callers map it to a client error: the
// model, not the server, produced the bad payload, but the request asked
// for a guarantee that cannot be met.
var ErrStructuredOutput = errors.New("structured output is not valid JSON")

// NormalizeJSONOutput prepares model output for response_format
// {"type":"json_object"}: markdown code fences are stripped and the
// payload is re-serialized in canonical form.
func NormalizeJSONOutput(text string) (string, error) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		lines := strings.Split(s, "\n")
		if len(lines) >= 2 {
			s = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}
	if strings.HasPrefix(s, "json") {
		s = strings.TrimLeft(strings.TrimPrefix(s, "json"), " \t\n")
	}

	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStructuredOutput, err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStructuredOutput, err)
	}
	return string(b), nil
}
