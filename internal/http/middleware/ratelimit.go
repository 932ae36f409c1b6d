package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/tbourn/go-poetry-api/internal/observability"
)

// Rate-limit response headers.
const (
	HeaderRateLimit     = "X-RateLimit-Limit"
	HeaderRateRemaining = "X-RateLimit-Remaining"
)

// keyFunc selects the bucket a request draws from.
type keyFunc func(*gin.Context) string

// KeyByClientIP buckets requests by client address. Viewer ids are
// self-issued and trivially rotated, so they are not a rate-limit identity.
func KeyByClientIP() keyFunc {
	return func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	}
}

// sweepEvery is the number of lookups between sweeps of idle buckets.
const sweepEvery = 5000

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a process-local token bucket per key. Idle buckets are
// dropped after idleTTL by a sweep that runs every sweepEvery lookups.
type RateLimiter struct {
	limit rate.Limit
	burst int
	keyFn keyFunc
	now   func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
	lookups int
	idleTTL time.Duration
}

// NewRateLimiter allows rps requests per second per key with bursts of
// burst (at least 1).
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	return &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   max(burst, 1),
		keyFn:   keyFn,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		idleTTL: 10 * time.Minute,
	}
}

// bucketFor returns the limiter for key. The sweep runs before the lookup so
// an idle bucket is replaced rather than refreshed.
func (rl *RateLimiter) bucketFor(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.lookups++; rl.lookups >= sweepEvery {
		rl.sweepLocked(now)
	}
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	return b.lim
}

func (rl *RateLimiter) sweepLocked(now time.Time) {
	for k, b := range rl.buckets {
		if now.Sub(b.lastSeen) >= rl.idleTTL {
			delete(rl.buckets, k)
		}
	}
	rl.lookups = 0
}

// IsRateBypass reports whether IdempotencyValidator marked the request as a
// replay, which is served without drawing a token.
func IsRateBypass(c *gin.Context) bool {
	b, _ := c.Value(ctxKeyRateBypass).(bool)
	return b
}

// Handler enforces the limit. Every limited response carries the bucket size
// and the tokens left; a rejection answers 429 with Retry-After set to the
// whole seconds until the next token.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		now := rl.now()
		lim := rl.bucketFor(rl.keyFn(c), now)
		c.Header(HeaderRateLimit, strconv.Itoa(rl.burst))

		r := lim.ReserveN(now, 1)
		if delay := r.DelayFrom(now); r.OK() && delay == 0 {
			c.Header(HeaderRateRemaining, strconv.Itoa(int(lim.TokensAt(now))))
			c.Next()
			return
		} else if r.OK() {
			r.CancelAt(now)
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
		} else {
			// rps 0 never refills
			c.Header("Retry-After", "60")
		}

		c.Header(HeaderRateRemaining, "0")
		observability.RateLimited.Inc()
		AbortWithEnvelope(c, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded")
	}
}
