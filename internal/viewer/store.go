// Package viewer holds per-viewer context: small named sets of identifiers
// remembered for an anonymous visitor across requests, such as the poems
// they have already viewed or liked.
package viewer

import (
	"context"
	"errors"
	"strings"
)

// ErrNoContext is returned when an operation needs a viewer id and none was given.
var ErrNoContext = errors.New("viewer: empty context id")

// Store persists named string sets per viewer context.
type Store interface {
	// Get returns the set stored under key. ok is false when nothing is stored.
	Get(ctx context.Context, contextID, key string) (values []string, ok bool, err error)
	// Set replaces the set stored under key.
	Set(ctx context.Context, contextID, key string, values []string) error
	// Add inserts value into the set under key and reports whether it was
	// absent. Check and insert happen atomically.
	Add(ctx context.Context, contextID, key, value string) (added bool, err error)
	// Remove deletes value from the set under key. Removing an absent value
	// is not an error.
	Remove(ctx context.Context, contextID, key, value string) error
}

// Contains reports whether value is in the set under key.
func Contains(ctx context.Context, s Store, contextID, key, value string) (bool, error) {
	vals, ok, err := s.Get(ctx, contextID, key)
	if err != nil || !ok {
		return false, err
	}
	for _, v := range vals {
		if v == value {
			return true, nil
		}
	}
	return false, nil
}

func checkID(contextID string) error {
	if strings.TrimSpace(contextID) == "" {
		return ErrNoContext
	}
	return nil
}
