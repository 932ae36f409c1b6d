package domain

import (
	"fmt"
	"strings"
)

// ThemeDeletePolicy decides what happens to a theme's poems when the theme
// is deleted.
type ThemeDeletePolicy string

const (
	// ThemeDeleteRestrict refuses to delete a theme that still has poems.
	ThemeDeleteRestrict ThemeDeletePolicy = "restrict"
	// ThemeDeleteSetNull detaches the poems (category becomes NULL).
	ThemeDeleteSetNull ThemeDeletePolicy = "set_null"
	// ThemeDeleteCascade deletes the poems together with the theme.
	ThemeDeleteCascade ThemeDeletePolicy = "cascade"
)

// ParseThemeDeletePolicy accepts restrict, set_null (or set-null) and cascade.
func ParseThemeDeletePolicy(s string) (ThemeDeletePolicy, error) {
	p := ThemeDeletePolicy(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch p {
	case ThemeDeleteRestrict, ThemeDeleteSetNull, ThemeDeleteCascade:
		return p, nil
	}
	return "", fmt.Errorf("unknown theme delete policy %q", s)
}
