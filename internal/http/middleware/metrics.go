package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-poetry-api/internal/observability"
)

const unmatchedRoute = "unmatched"

// Metrics records request count, latency, in-flight requests and response
// size per route, plus viewer ids issued and idempotent replays served.
// Mount /metrics with promhttp next to it.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		observability.HTTPInflight.Inc()
		defer observability.HTTPInflight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method

		observability.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		observability.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		// -1 when nothing was written
		if size := c.Writer.Size(); size >= 0 {
			observability.HTTPResponseSize.WithLabelValues(method, route).Observe(float64(size))
		}
		if ViewerIssued(c) {
			observability.ViewersIssued.Inc()
		}
		if c.Writer.Header().Get(HeaderReplayed) == "true" {
			observability.IdempotentReplays.WithLabelValues(route).Inc()
		}
	}
}
