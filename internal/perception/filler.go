package perception

import (
	"regexp"
	"strings"
)

// =============================================================================
// FILLER STRIPPING
// =============================================================================
//
// Politeness and "also"-style words at either end of a command are never
// part of a name. "move report.pdf to new workspace as well" must not create
// a workspace called "as well".

var (
	trailingFiller = regexp.MustCompile(`(?i)[\s,]+(?:as well|too|also|please|pls|plz|thanks|thank you|thx)[\s.!?]*$`)
	leadingFiller  = regexp.MustCompile(`(?i)^(?:please|pls|plz|kindly|can you|could you)[\s,]+`)
	fillerOnly     = regexp.MustCompile(`(?i)^(?:as well|too|also|please|pls|plz|thanks|thank you|thx|kindly)[\s.!?]*$`)
)

// StripFiller removes filler words from both ends of text until none are
// left, then trims trailing punctuation.
func StripFiller(text string) string {
	s := strings.TrimSpace(text)
	for {
		next := leadingFiller.ReplaceAllString(s, "")
		next = trailingFiller.ReplaceAllString(next, "")
		next = strings.TrimRight(strings.TrimSpace(next), ".!?")
		if next == s {
			return s
		}
		s = next
	}
}

// IsFiller reports whether s consists of nothing but a filler phrase.
func IsFiller(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || fillerOnly.MatchString(s)
}
