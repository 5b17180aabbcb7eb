package medicine

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fenceOpenPattern  = regexp.MustCompile("(?i)```json\\s*")
	fenceClosePattern = regexp.MustCompile("```\\s*")
	jsonStringPattern = regexp.MustCompile(`"([^"\\]*(?:\\.[^"\\]*)*)"`)
)

// StripCodeFences removes markdown code fences the models like to wrap JSON in
func StripCodeFences(text string) string {
	text = fenceOpenPattern.ReplaceAllString(text, "")
	text = fenceClosePattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// FixJSONEscaping escapes raw control characters inside JSON string values.
// Models sometimes emit literal newlines inside strings, which encoding/json rejects.
func FixJSONEscaping(jsonStr string) string {
	return jsonStringPattern.ReplaceAllStringFunc(jsonStr, func(match string) string {
		if len(match) < 2 {
			return match
		}
		content := match[1 : len(match)-1]

		var builder strings.Builder
		for _, ch := range content {
			switch ch {
			case '\n':
				builder.WriteString(`\n`)
			case '\r':
				builder.WriteString(`\r`)
			case '\t':
				builder.WriteString(`\t`)
			case '\f':
				builder.WriteString(`\f`)
			case '\b':
				builder.WriteString(`\b`)
			default:
				if ch < 0x20 {
					fmt.Fprintf(&builder, `\u%04x`, ch)
				} else {
					builder.WriteRune(ch)
				}
			}
		}

		return `"` + builder.String() + `"`
	})
}

// errorProbe detects the {"error": ...} sentinel without caring about its type
type errorProbe struct {
	Error interface{} `json:"error"`
}

func isTruthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}

// ParseRecord decodes a provider answer into a validated Record.
// The not-found sentinel, malformed JSON and schema-invalid objects all return an error.
func ParseRecord(text string) (*Record, error) {
	cleaned := FixJSONEscaping(StripCodeFences(text))
	if cleaned == "" {
		return nil, fmt.Errorf("empty provider response")
	}

	var probe errorProbe
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, fmt.Errorf("failed to parse provider JSON: %w", err)
	}
	if isTruthy(probe.Error) {
		return nil, ErrNotFoundSentinel
	}

	var rec Record
	if err := json.Unmarshal([]byte(cleaned), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode medicine record: %w", err)
	}
	// Providers never get to set the cache flag
	rec.Cached = false

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}
