package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Idempotent create headers.
const (
	HeaderIdempotencyKey = "Idempotency-Key"
	// HeaderReplayed marks a create answered from an earlier request with the
	// same key.
	HeaderReplayed = "Idempotency-Replayed"
)

const (
	ctxKeyIdempotency = "idempotency"
	ctxKeyRateBypass  = "rate.bypass"

	defaultMaxKeyLen = 200
)

var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// IdempotencyState is what IdempotencyValidator learned about a request that
// carried a valid key.
type IdempotencyState struct {
	Key   string
	Scope string
	// ReplayOf is the id created by the earlier request with the same scope
	// and key; zero when this request is the first.
	ReplayOf uint
}

// Replay reports whether the request repeats a completed create.
func (s *IdempotencyState) Replay() bool { return s != nil && s.ReplayOf != 0 }

// IdempotencyFrom returns the request's state, or nil when it had no key.
func IdempotencyFrom(c *gin.Context) *IdempotencyState {
	st, _ := c.Value(ctxKeyIdempotency).(*IdempotencyState)
	return st
}

// IdempotencyOptions configures IdempotencyValidator.
type IdempotencyOptions struct {
	MaxLen  int            // default 200
	Pattern *regexp.Regexp // default ^[A-Za-z0-9._~\-:]+$
	// Scope names the resource kind a key belongs to. Defaults to the last
	// static segment of the matched route.
	Scope func(*gin.Context) string
}

// IdempotencyLookup finds the resource created by a still-valid earlier
// request with the same scope and key.
type IdempotencyLookup func(ctx context.Context, scope, key string, now time.Time) (resourceID uint, exists bool, err error)

// IdempotencyValidator checks the Idempotency-Key header of a request and
// records an IdempotencyState for the handler. Requests without the header
// pass untouched; a malformed key is a 400. When lookup finds an earlier
// create the request is marked as a replay and skips the rate limiter. The
// handler serves the replay itself by loading the resource.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	if opts.MaxLen <= 0 {
		opts.MaxLen = defaultMaxKeyLen
	}
	if opts.Pattern == nil {
		opts.Pattern = defaultKeyPattern
	}
	if opts.Scope == nil {
		opts.Scope = routeScope
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > opts.MaxLen || !opts.Pattern.MatchString(key) {
			AbortWithEnvelope(c, http.StatusBadRequest, CodeBadIdempotencyKey, "invalid Idempotency-Key")
			return
		}

		st := &IdempotencyState{Key: key, Scope: opts.Scope(c)}
		if lookup != nil {
			id, exists, err := lookup(c.Request.Context(), st.Scope, key, time.Now().UTC())
			switch {
			case err != nil:
				LoggerFrom(c).Warn().Err(err).Str("scope", st.Scope).Msg("idempotency lookup failed")
			case exists:
				st.ReplayOf = id
				c.Set(ctxKeyRateBypass, true)
			}
		}
		c.Set(ctxKeyIdempotency, st)
		c.Next()
	}
}

// routeScope is the last static segment of the matched route, or of the raw
// path when nothing matched.
func routeScope(c *gin.Context) string {
	p := c.FullPath()
	if p == "" {
		p = c.Request.URL.Path
	}
	segs := strings.Split(strings.Trim(p, "/"), "/")
	for i := len(segs) - 1; i >= 0; i-- {
		if s := segs[i]; s != "" && s[0] != ':' && s[0] != '*' {
			return s
		}
	}
	return "root"
}
