package handlers

import "github.com/tbourn/go-poetry-api/internal/http/middleware"

// Error codes carried in the envelope's code field. Clients switch on these;
// the message is for people.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = middleware.CodeUnauthorized
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = middleware.CodeRateLimited
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = middleware.CodeInternal

	// ErrCodeNoPoems means the featured poem cannot be chosen yet.
	ErrCodeNoPoems = "no_poems"
	// ErrCodeEmptyQuery is a search without a usable term.
	ErrCodeEmptyQuery = "empty_query"
)
