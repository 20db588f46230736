// Package metrics defines Prometheus metrics for the storefront client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// API client metrics.
var (
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of storefront API requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of storefront API requests.",
	}, []string{"method", "path", "status"})

	APIErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_errors_total",
		Help:      "Total number of storefront API failures by error kind.",
	}, []string{"kind"})
)

// Catalog metrics.
var (
	PagesLoadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pages_loaded_total",
		Help:      "Total number of feed pages fetched (initial loads and load-mores).",
	})

	ProductsLoadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_loaded_total",
		Help:      "Total number of products added to the in-memory collection.",
	})

	FallbackFilterTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallback_filter_total",
		Help:      "Times the filter endpoint failed and in-memory filtering ran instead.",
	})

	FallbackSearchTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallback_search_total",
		Help:      "Times the search endpoint failed and in-memory search ran instead.",
	})

	StaleResultsDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_results_discarded_total",
		Help:      "Completions discarded because a newer request of the same kind superseded them.",
	})
)

// Scroll metrics.
var (
	ScrollTriggersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scroll_triggers_total",
		Help:      "Total number of load-more invocations fired by the scroll trigger.",
	})
)
