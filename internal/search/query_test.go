package search

import "testing"

func TestFold(t *testing.T) {
	cases := map[string]string{
		"":                "",
		"   ":             "",
		"Dawn":            "dawn",
		"  LOVE   song  ": "love song",
		"ЛЪАГЪУНЫГЪЭ":     "лъагъуныгъэ",
		"Ӏуэху":           "ӏуэху",
	}
	for in, want := range cases {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestContainsPattern_EscapesWildcards(t *testing.T) {
	cases := map[string]string{
		"Love":    "%love%",
		"50%":     `%50\%%`,
		"a_b":     `%a\_b%`,
		`back\sl`: `%back\\sl%`,
	}
	for in, want := range cases {
		if got := ContainsPattern(in); got != want {
			t.Errorf("ContainsPattern(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestCleanText(t *testing.T) {
	cases := map[string]string{
		"<p>Line one</p>\r\n<p>Line   two</p>": "Line one\nLine two",
		"&lt;b&gt;bold&lt;/b&gt; text":         "bold text",
		"\tindented\t":                         "indented",
		"plain":                                "plain",
		"<div\nclass=\"x\">multi</div>":        "multi",
	}
	for in, want := range cases {
		if got := CleanText(in); got != want {
			t.Errorf("CleanText(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":      "hello-world",
		"  --Dawn--  ":       "dawn",
		"Сабий и Адыгэ 2":    "сабий-и-адыгэ-2",
		"!!!":                "",
		"Multi   space name": "multi-space-name",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q; want %q", in, got, want)
		}
	}
}
