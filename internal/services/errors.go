// Package services defines the business logic for poems, authors, themes and
// the featured poem of the day. This file centralizes service-level error
// values so they can be returned consistently and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

// Not-found errors.
var (
	// ErrPoemNotFound indicates that the requested poem does not exist.
	ErrPoemNotFound = errors.New("poem not found")

	// ErrAuthorNotFound indicates that the requested author does not exist.
	ErrAuthorNotFound = errors.New("author not found")

	// ErrThemeNotFound indicates that the requested theme does not exist.
	ErrThemeNotFound = errors.New("theme not found")

	// ErrFeaturedNotFound indicates that nobody asked for a past day while
	// it was current, so it has no featured poem.
	ErrFeaturedNotFound = errors.New("no featured poem for that day")
)

// Invalid-argument errors.
var (
	// ErrEmptyQuery is returned when a search is requested without a term.
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrInvalidInput wraps validation failures of create requests and
	// malformed arguments such as an unparsable day.
	ErrInvalidInput = errors.New("invalid input")
)

// Conflict errors.
var (
	// ErrFeaturedConflict signals that another request featured the same day
	// first. FeaturedService absorbs it by re-reading; it is exported so
	// FeaturedRepo implementations can return it.
	ErrFeaturedConflict = errors.New("featured day already assigned")

	// ErrThemeInUse is returned when deleting a theme that still has poems
	// under the restrict policy.
	ErrThemeInUse = errors.New("theme still has poems")

	// ErrPoemFeatured is returned when a delete would remove a poem that
	// has been featured; the poem-of-the-day history is never rewritten.
	ErrPoemFeatured = errors.New("poem has been featured and cannot be deleted")

	// ErrDuplicateSlug is returned when an explicitly requested slug is taken.
	ErrDuplicateSlug = errors.New("slug already exists")
)

// ErrNoPoems is returned when a poem must be featured but none exist.
// Retrying cannot help; it is surfaced to the caller.
var ErrNoPoems = errors.New("no poems available")
