// Package metrics exposes Prometheus instrumentation for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "roadassist"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests served.",
	}, []string{"method", "path", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	requestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "service_requests_created_total",
		Help:      "Service requests submitted by clients.",
	})

	statusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Service request status transitions.",
	}, []string{"from", "to"})

	acceptConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accept_conflicts_total",
		Help:      "Accept attempts that lost the race to another mechanic.",
	})

	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "response_cache_hits_total",
		Help:      "GET responses served from cache.",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "response_cache_misses_total",
		Help:      "GET requests that missed the response cache.",
	})
)

// RecordRequest counts one served request and observes its latency.
func RecordRequest(method, path string, status int, dur time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(dur.Seconds())
}

// RequestCreated counts a newly submitted service request.
func RequestCreated() { requestsCreated.Inc() }

// StatusTransition counts a status change on a service request.
func StatusTransition(from, to string) {
	statusTransitions.WithLabelValues(from, to).Inc()
}

// AcceptConflict counts a mechanic losing the accept race.
func AcceptConflict() { acceptConflicts.Inc() }

// CacheHit counts a response served from cache.
func CacheHit() { cacheHits.Inc() }

// CacheMiss counts a cacheable request that missed.
func CacheMiss() { cacheMisses.Inc() }

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler { return promhttp.Handler() }
