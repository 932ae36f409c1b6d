package observability

import "github.com/prometheus/client_golang/prometheus"

// Domain metrics. Label values are fixed sets (entity kind, outcome), so
// cardinality stays bounded.
var (
	// ViewsCounted counts detail views that incremented a counter, by kind.
	ViewsCounted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poetry_views_counted_total",
			Help: "Detail views that incremented a view counter.",
		},
		[]string{"kind"},
	)

	// ViewsSkipped counts detail views that did not increment, by kind and reason.
	ViewsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poetry_views_skipped_total",
			Help: "Detail views that were not counted.",
		},
		[]string{"kind", "reason"},
	)

	// FeaturedSelections counts featured-poem rows created.
	FeaturedSelections = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poetry_featured_selections_total",
		Help: "Featured poems selected and stored.",
	})

	// FeaturedFallbacks counts selections where excluding yesterday's poem
	// left no candidates and the full pool was used.
	FeaturedFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poetry_featured_fallbacks_total",
		Help: "Featured selections that fell back to the full pool.",
	})

	// FeaturedConflicts counts concurrent inserts for an already featured day.
	FeaturedConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poetry_featured_conflicts_total",
		Help: "Featured-day uniqueness conflicts absorbed by a re-read.",
	})
)

// HTTP metrics. The route label is the registered Gin route, or "unmatched",
// so probes for random URLs cannot grow the series count.
var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poetry_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poetry_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "poetry_http_requests_inflight",
		Help: "HTTP requests being served.",
	})

	// HTTPResponseSize buckets run from a single poem to a full page of them.
	HTTPResponseSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poetry_http_response_size_bytes",
			Help:    "HTTP response body size.",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		},
		[]string{"method", "route"},
	)

	// ViewersIssued counts first visits (or clients that drop cookies).
	ViewersIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poetry_http_viewers_issued_total",
		Help: "Viewer ids issued to clients without one.",
	})

	RateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "poetry_http_rate_limited_total",
		Help: "Requests rejected with 429.",
	})

	// IdempotentReplays counts admin creates answered from an earlier request.
	IdempotentReplays = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poetry_http_idempotent_replays_total",
			Help: "Create requests replayed by Idempotency-Key.",
		},
		[]string{"route"},
	)
)

func init() {
	prometheus.MustRegister(
		ViewsCounted, ViewsSkipped,
		FeaturedSelections, FeaturedFallbacks, FeaturedConflicts,
		HTTPRequests, HTTPDuration, HTTPInflight, HTTPResponseSize,
		ViewersIssued, RateLimited, IdempotentReplays,
	)
}
