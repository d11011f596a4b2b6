package perception

import (
	"regexp"
	"strings"
)

var spaceRun = regexp.MustCompile(`\s+`)

// squash collapses whitespace runs and trims.
func squash(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// trimQuotes strips one layer of matching quotes or backticks.
func trimQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'' || first == '`') && first == last {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

// isRootWord reports phrases that mean the workspace root.
func isRootWord(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "root", "home", "/", "~", "the root", "workspace root", "the workspace root", "top", "top level":
		return true
	}
	return false
}

// hasSeparator reports whether a proposed name contains a path separator.
func hasSeparator(s string) bool {
	return strings.ContainsAny(s, `/\`)
}
