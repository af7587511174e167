package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_recommendations_total",
			Help: "Recommendation lists served, by scoring mode",
		},
		[]string{"mode"}, // "anonymous", "personalized"
	)

	Checkouts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_checkouts_total",
			Help: "Checkout attempts by result",
		},
		[]string{"result"}, // "ok", "empty", "failed"
	)

	UpstreamFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_upstream_failures_total",
			Help: "Failed calls to best-effort upstreams",
		},
		[]string{"upstream"}, // "catalog", "chat"
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)
)

func ObserveHTTP(route, method string, status int, started time.Time) {
	HTTPRequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(time.Since(started).Seconds())
}
