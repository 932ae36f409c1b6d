// Package utils holds request-parsing helpers shared by the handlers.
package utils

import "strconv"

// AtoiDefault parses s as a decimal int, returning def for empty or
// malformed input. Surrounding spaces are not trimmed.
func AtoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
