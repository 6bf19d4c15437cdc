package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelog_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"route", "method", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinelog_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// Authentication metrics
	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelog_auth_failures_total",
			Help: "Total number of failed authentication attempts",
		},
		[]string{"reason"},
	)

	TokensIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinelog_tokens_issued_total",
			Help: "Total number of token pairs issued",
		},
		[]string{"grant"},
	)

	// Catalog proxy metrics
	CatalogCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinelog_catalog_cache_hits_total",
			Help: "Total number of catalog responses served from cache",
		},
	)

	CatalogCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinelog_catalog_cache_misses_total",
			Help: "Total number of catalog cache misses",
		},
	)

	CatalogUpstreamErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinelog_catalog_upstream_errors_total",
			Help: "Total number of catalog upstream transport errors",
		},
	)
)
