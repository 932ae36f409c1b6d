// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file carries request correlation, the access log and panic recovery:
//
//   - RequestID() reuses a well-formed X-Request-ID or issues a UUID.
//   - AccessLog() writes one structured line per request and attaches a
//     request-scoped zerolog.Logger that handlers fetch with LoggerFrom().
//     With Redact set, query strings and headers are scrubbed first.
//   - Recovery() turns panics into the standard JSON 500 envelope.
//
// Order: RequestID, ViewerContext, AccessLog, Recovery. The access line then
// carries both ids and panics are logged with them.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"

	// maxRequestIDLen bounds client-supplied correlation ids.
	maxRequestIDLen = 128
	// maxQueryLogLength caps the logged raw query; search terms can be long.
	maxQueryLogLength = 2048
)

// RequestID propagates the caller's X-Request-ID when it is short and
// printable, and otherwise issues a new UUID. The id is echoed on the
// response and stored in the Gin context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if !validRequestID(rid) {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

func validRequestID(s string) bool {
	if s == "" || len(s) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

// AccessLogOptions tunes AccessLog.
type AccessLogOptions struct {
	// Redact scrubs emails, phone numbers and UUIDs from the query string and
	// header values, masks credential headers, and leaves out the viewer id.
	Redact bool
	// MaskHeaders are extra headers whose values are replaced entirely when
	// Redact is set.
	MaskHeaders []string
	// QuietPaths are logged at debug level when they succeed (probes, scrapes).
	QuietPaths []string
}

// Logger is AccessLog without redaction.
func Logger() gin.HandlerFunc { return AccessLog(AccessLogOptions{}) }

// AccessLog writes one line per request: route, status, latency, sizes, the
// viewed entity id and whether a create was replayed. The level follows the
// outcome: error for 5xx or recorded Gin errors, warn for 4xx, info otherwise.
func AccessLog(opts AccessLogOptions) gin.HandlerFunc {
	var scrub *scrubber
	if opts.Redact {
		scrub = newScrubber(opts.MaskHeaders)
	}
	quiet := make(map[string]struct{}, len(opts.QuietPaths))
	for _, p := range opts.QuietPaths {
		quiet[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		rid, _ := c.Get(requestIDKey)

		ctx := log.With().Str("request_id", asString(rid))
		if vid := ViewerID(c); vid != "" && scrub == nil {
			ctx = ctx.Str("viewer_id", vid)
		}
		scoped := ctx.Logger()
		c.Set(loggerKey, &scoped)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		query := truncate(c.Request.URL.RawQuery, maxQueryLogLength)
		if scrub != nil {
			query = scrub.text(query)
		}
		status := c.Writer.Status()

		ev := levelFor(&scoped, status, len(c.Errors) > 0)
		if _, ok := quiet[route]; ok && status < http.StatusBadRequest {
			ev = scoped.Debug()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		if id := c.Param("id"); id != "" {
			ev = ev.Str("entity_id", id)
		}
		if scrub != nil {
			ev = ev.Interface("headers", scrub.headers(c.Request.Header))
		} else {
			ev = ev.Str("remote_ip", c.ClientIP()).Str("user_agent", c.Request.UserAgent())
		}
		ev.
			Str("method", c.Request.Method).
			Str("route", route).
			Str("query", query).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Int64("bytes_in", c.Request.ContentLength).
			Int("bytes_out", c.Writer.Size()).
			Bool("viewer_issued", ViewerIssued(c)).
			Bool("replayed", c.Writer.Header().Get(HeaderReplayed) == "true").
			Msg("request")
	}
}

func levelFor(l *zerolog.Logger, status int, ginErrors bool) *zerolog.Event {
	switch {
	case ginErrors || status >= http.StatusInternalServerError:
		return l.Error()
	case status >= http.StatusBadRequest:
		return l.Warn()
	default:
		return l.Info()
	}
}

// Recovery logs a panic with its stack and answers with the JSON 500
// envelope, unless the handler already started writing.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			rid := asString(c.Value(requestIDKey))
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("route", c.FullPath()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Header(requestIDHeader, rid)
			AbortWithEnvelope(c, http.StatusInternalServerError, CodeInternal, "internal server error")
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger, or the global one when
// AccessLog is not installed.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if lg, ok := c.Value(loggerKey).(*zerolog.Logger); ok {
		return lg
	}
	l := log.With().Logger()
	return &l
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// truncate cuts s to max bytes plus an ellipsis; max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
