package utils

import (
	"errors"
	"strconv"
)

// ErrInvalidID is returned by ParseID for anything that is not a positive
// integer that fits in a uint.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses a positive integer primary key from a path segment.
func ParseID(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 0)
	if err != nil || n == 0 {
		return 0, ErrInvalidID
	}
	return uint(n), nil
}
