// Package search provides the small text helpers behind poem search and
// content hygiene: Unicode-aware case folding for the denormalised search
// columns, LIKE-pattern construction, HTML cleanup of poem bodies, and slug
// generation.
//
// Matching itself happens in the store (see repo.SearchPoems); this package
// only guarantees that the stored columns and the query pattern are folded the
// same way, so "ЛЪАГЪУНЫГЪЭ" finds "лъагъуныгъэ" on SQLite as well as Postgres.
package search

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns the case-folded form of s with surrounding whitespace trimmed
// and inner whitespace runs collapsed to a single space.
func Fold(s string) string {
	s = Normalize(s)
	if s == "" {
		return ""
	}
	// A Caser is stateful and must not be shared across goroutines.
	return cases.Fold().String(s)
}

// Normalize trims s and collapses consecutive whitespace.
func Normalize(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// ContainsPattern builds a LIKE pattern that matches any value containing q
// (after folding). Wildcards in q are escaped with '\'; callers must use
// "LIKE ? ESCAPE '\'".
func ContainsPattern(q string) string {
	return "%" + EscapeLike(Fold(q)) + "%"
}

// EscapeLike escapes the LIKE metacharacters '%', '_' and the escape rune itself.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	likeEscaper  = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
)
