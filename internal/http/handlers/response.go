// Package handlers holds the Gin handlers of the poetry API and the helpers
// that give every response the same shape. Errors always use ErrorResponse:
//
//	HTTP/1.1 404 Not Found
//	{"request_id": "123e4567-e89b-12d3-a456-426614174000", "code": "not_found", "message": "poem not found"}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-poetry-api/internal/http/middleware"
	"github.com/tbourn/go-poetry-api/internal/services"
)

// ErrorResponse is the error envelope of every endpoint.
type ErrorResponse = middleware.ErrorEnvelope

// fail aborts with the envelope. 5xx responses are also logged on the
// request logger, since the client only sees a generic message.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	middleware.AbortWithEnvelope(c, status, code, msg)
}

// Fail lets the router answer with the envelope (404 and 405 fallbacks).
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// errorMapping pairs service sentinels with their HTTP outcome. A fixed
// message replaces the error text when set.
var errorMapping = []struct {
	targets []error
	status  int
	code    string
	message string
}{
	{
		targets: []error{services.ErrPoemNotFound, services.ErrAuthorNotFound, services.ErrThemeNotFound, services.ErrFeaturedNotFound},
		status:  http.StatusNotFound,
		code:    ErrCodeNotFound,
	},
	{
		targets: []error{services.ErrEmptyQuery},
		status:  http.StatusBadRequest,
		code:    ErrCodeEmptyQuery,
		message: "query parameter q is required",
	},
	{
		targets: []error{services.ErrInvalidInput},
		status:  http.StatusBadRequest,
		code:    ErrCodeBadRequest,
	},
	{
		targets: []error{services.ErrThemeInUse, services.ErrPoemFeatured, services.ErrDuplicateSlug},
		status:  http.StatusConflict,
		code:    ErrCodeConflict,
	},
	{
		targets: []error{services.ErrNoPoems},
		status:  http.StatusServiceUnavailable,
		code:    ErrCodeNoPoems,
		message: "there are no poems to feature yet",
	},
}

// failErr answers with the mapping for err. Anything unmapped is a 500 whose
// text stays in the logs.
func failErr(c *gin.Context, err error) {
	for _, m := range errorMapping {
		for _, target := range m.targets {
			if !errors.Is(err, target) {
				continue
			}
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			fail(c, m.status, m.code, msg)
			return
		}
	}
	_ = c.Error(err)
	fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
}

func ok(c *gin.Context, status int, body any) { c.JSON(status, body) }

func noContent(c *gin.Context) { c.Status(http.StatusNoContent) }
