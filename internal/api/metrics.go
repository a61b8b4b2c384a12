package api

import "github.com/prometheus/client_golang/prometheus"

// Request metrics. The endpoint label is the client method name, never
// a URL, so id-bearing paths cannot blow up cardinality.
var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "powertrack_api_requests_total",
			Help: "Upstream API requests by method, endpoint and status code.",
		},
		[]string{"method", "endpoint", "code"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "powertrack_api_request_duration_seconds",
			Help:    "Upstream API request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
	cacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "powertrack_api_cache_hits_total",
			Help: "GET responses served from the in-process cache.",
		},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration, cacheHits)
}
