package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Viewer identity transport.
const (
	ViewerCookie       = "viewer_id"
	HeaderViewerID     = "X-Viewer-ID"
	ctxKeyViewerID     = "viewer.id"
	ctxKeyViewerIssued = "viewer.issued"
)

// ViewerOptions configures ViewerContext.
type ViewerOptions struct {
	// MaxAge of the issued cookie in seconds. Values <= 0 default to one year.
	MaxAge int
	// Secure marks the cookie Secure (HTTPS only).
	Secure bool
}

// ViewerContext resolves the anonymous viewer id used for once-per-viewer
// counting. The id comes from the viewer_id cookie or the X-Viewer-ID header;
// when neither carries a UUID a fresh one is issued as a cookie and echoed in
// the X-Viewer-ID response header.
func ViewerContext(opts ViewerOptions) gin.HandlerFunc {
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = 365 * 24 * 60 * 60
	}
	return func(c *gin.Context) {
		id := ""
		if v, err := c.Cookie(ViewerCookie); err == nil {
			id = normalizeViewerID(v)
		}
		if id == "" {
			id = normalizeViewerID(c.GetHeader(HeaderViewerID))
		}
		if id == "" {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(ViewerCookie, id, maxAge, "/", "", opts.Secure, true)
			c.Set(ctxKeyViewerIssued, true)
		}
		c.Set(ctxKeyViewerID, id)
		c.Header(HeaderViewerID, id)
		c.Next()
	}
}

// ViewerID returns the viewer id resolved by ViewerContext, or "" when the
// middleware did not run.
func ViewerID(c *gin.Context) string {
	v, _ := c.Get(ctxKeyViewerID)
	s, _ := v.(string)
	return s
}

// ViewerIssued reports whether the viewer id was minted for this request.
func ViewerIssued(c *gin.Context) bool {
	v, _ := c.Get(ctxKeyViewerIssued)
	b, _ := v.(bool)
	return b
}

func normalizeViewerID(s string) string {
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return u.String()
}
