// Package text holds the small string helpers shared by ingestion, ranking
// and digest rendering.
package text

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize collapses every run of whitespace to a single space and trims
// both ends.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Lower lower-cases s using Unicode casing rules.
func Lower(s string) string {
	// A Caser keeps state, so build one per call.
	return cases.Lower(language.Und).String(s)
}

// Truncate cuts s to at most n runes. The second result reports whether
// anything was cut.
func Truncate(s string, n int) (string, bool) {
	if n <= 0 {
		return "", s != ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s, false
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], true
		}
		i++
	}
	return s, false
}
