package perception

import (
	"encoding/json"
	"errors"
	"strings"

	"organizer/internal/types"
)

// DecodeObject turns raw model text into a JSON object. It tries, in order:
// the trimmed text as-is (minus markdown fences), the widest span from the
// first '{' to the last '}', and every balanced {...} block from left to
// right. Failure is an InvalidModelResponse error.
func DecodeObject(raw string) (map[string]any, error) {
	text := stripFences(strings.TrimSpace(raw))
	if text == "" {
		return nil, types.InvalidModelResponse(errors.New("empty response"))
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil && obj != nil {
		return obj, nil
	}

	if span := widestSpan(text); span != "" {
		if err := json.Unmarshal([]byte(span), &obj); err == nil && obj != nil {
			return obj, nil
		}
	}

	for start := strings.IndexByte(text, '{'); start >= 0; {
		if block := extractJSON(text[start:]); block != "" {
			if err := json.Unmarshal([]byte(block), &obj); err == nil && obj != nil {
				return obj, nil
			}
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}

	return nil, types.InvalidModelResponse(errors.New("no JSON object in response"))
}

func stripFences(s string) string {
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func widestSpan(s string) string {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// extractJSON returns the first balanced {...} block of response, skipping
// braces inside string literals.
func extractJSON(response string) string {
	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(response); i++ {
		c := response[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return response[start : i+1]
			}
		}
	}

	return ""
}
