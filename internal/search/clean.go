package search

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var (
	tagRE      = regexp.MustCompile(`(?s)<.*?>`)
	ctrlRE     = regexp.MustCompile(`[\r\t]+`)
	spaceRunRE = regexp.MustCompile(` +`)
	slugDashRE = regexp.MustCompile(`-+`)
)

// CleanText strips markup from a poem body imported from rich-text sources.
//
// Entities are unescaped first so encoded tags are removed as well, then tags
// are dropped, carriage returns and tabs are deleted, and runs of spaces are
// collapsed. Line breaks are kept: they carry the verse structure.
func CleanText(s string) string {
	s = html.UnescapeString(s)
	s = tagRE.ReplaceAllString(s, "")
	s = ctrlRE.ReplaceAllString(s, "")
	s = spaceRunRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Slugify turns a title into a URL slug. Letters and digits from any script
// are kept (Circassian titles stay readable), everything else becomes a
// single '-'.
func Slugify(s string) string {
	var b strings.Builder
	for _, r := range Fold(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	out := slugDashRE.ReplaceAllString(b.String(), "-")
	return strings.Trim(out, "-")
}
