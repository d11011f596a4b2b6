package resolver

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	leadingArticle = regexp.MustCompile(`^(?:the|my|this|that)\s+`)
	trailingNoun   = regexp.MustCompile(`\s+(?:folder|directory|dir|file)$`)
	leadingNoun    = regexp.MustCompile(`^(?:folder|directory|file)\s+`)
	folderCounter  = regexp.MustCompile(`\(\d+\)$`)
)

// CleanPhrase strips quoting, trailing punctuation and the conversational
// wrapping around a name: "the 'Docs' folder?" becomes "Docs".
func CleanPhrase(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "?!.,;:")
	s = strings.Trim(s, "\"'`“”‘’")
	for {
		prev := s
		lower := strings.ToLower(s)
		if loc := leadingArticle.FindStringIndex(lower); loc != nil {
			s = s[loc[1]:]
			lower = strings.ToLower(s)
		}
		if loc := trailingNoun.FindStringIndex(lower); loc != nil && loc[0] > 0 {
			s = s[:loc[0]]
			lower = strings.ToLower(s)
		}
		if loc := leadingNoun.FindStringIndex(lower); loc != nil && loc[1] < len(s) {
			s = s[loc[1]:]
		}
		s = strings.Trim(strings.TrimSpace(s), "\"'`“”‘’")
		if s == prev {
			return s
		}
	}
}

func nameSet(existing []string) map[string]bool {
	set := make(map[string]bool, len(existing))
	for _, n := range existing {
		set[strings.ToLower(n)] = true
	}
	return set
}

// splitExt separates the extension, treating a leading dot as part of the
// name.
func splitExt(name string) (string, string) {
	ext := path.Ext(name)
	if ext == name || ext == "" {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

// UniqueName returns name, or name with " (n)" inserted before its
// extension for the smallest n >= 2 not present in existing. Comparison is
// case-insensitive.
func UniqueName(name string, existing []string) string {
	taken := nameSet(existing)
	if !taken[strings.ToLower(name)] {
		return name
	}
	base, ext := splitExt(name)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)
		if !taken[strings.ToLower(candidate)] {
			return candidate
		}
	}
}

// UniqueFolderName returns name, or "Base(n)" for the smallest n >= 2 not in
// existing, where Base is name with any trailing "(n)" removed.
func UniqueFolderName(name string, existing []string) string {
	taken := nameSet(existing)
	if !taken[strings.ToLower(name)] {
		return name
	}
	base := folderCounter.ReplaceAllString(name, "")
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s(%d)", base, n)
		if !taken[strings.ToLower(candidate)] {
			return candidate
		}
	}
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
