package types

import (
	"fmt"
	"strings"
)

// =============================================================================
// PARAMETER EXTRACTION UTILITIES
// =============================================================================
//
// Params come from two places: matchers (always strings) and decoded model
// JSON (strings, float64, bool, []any, nested maps). These helpers do the
// type-aware extraction so action code never type-asserts directly.

// Params carries action-specific arguments.
type Params map[string]any

// ExtractString extracts a string from a decoded JSON value.
func ExtractString(arg any) string {
	switch v := arg.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ExtractStrings extracts a string slice from []any, []string or a single
// comma-separated string.
func ExtractStrings(arg any) []string {
	switch v := arg.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := strings.TrimSpace(ExtractString(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// ExtractBool extracts a boolean, accepting "true"/"false" strings.
func ExtractBool(arg any) (bool, bool) {
	switch v := arg.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true, true
		case "false", "no", "0":
			return false, true
		}
	}
	return false, false
}

// String returns the first non-empty string among the given key aliases.
// Models are inconsistent about naming ("from" vs "source"), so callers
// pass every accepted alias.
func (p Params) String(keys ...string) string {
	for _, k := range keys {
		if v, ok := p[k]; ok {
			if s := strings.TrimSpace(ExtractString(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

// Strings returns the first non-empty string slice among the key aliases.
func (p Params) Strings(keys ...string) []string {
	for _, k := range keys {
		if v, ok := p[k]; ok {
			if out := ExtractStrings(v); len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

// Bool returns the boolean stored under key, false if absent.
func (p Params) Bool(key string) bool {
	b, _ := ExtractBool(p[key])
	return b
}

// Clone returns a shallow copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
