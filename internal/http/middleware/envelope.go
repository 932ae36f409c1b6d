package middleware

import "github.com/gin-gonic/gin"

// Codes of the errors written by middleware.
const (
	CodeUnauthorized      = "unauthorized"
	CodeRateLimited       = "rate_limited"
	CodeBadIdempotencyKey = "bad_idempotency_key"
	CodeInternal          = "internal_error"
)

// ErrorEnvelope is the error body of every endpoint, whether written by a
// middleware or a handler.
type ErrorEnvelope struct {
	// Echo of X-Request-ID
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable machine-readable code
	Code string `json:"code" example:"not_found"`
	// Safe to show to users
	Message string `json:"message" example:"poem not found"`
}

// AbortWithEnvelope stops the chain and answers with status and an
// ErrorEnvelope echoing the response's X-Request-ID.
func AbortWithEnvelope(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		RequestID: c.Writer.Header().Get(requestIDHeader),
		Code:      code,
		Message:   msg,
	})
}
