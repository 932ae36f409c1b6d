package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HeaderAPIKey carries the admin API key.
const HeaderAPIKey = "X-API-Key"

// RequireAPIKey rejects requests whose X-API-Key does not equal key.
// An empty key rejects everything.
func RequireAPIKey(key string) gin.HandlerFunc {
	want := []byte(key)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader(HeaderAPIKey))
		if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			AbortWithEnvelope(c, http.StatusUnauthorized, CodeUnauthorized, "missing or invalid API key")
			return
		}
		c.Next()
	}
}
