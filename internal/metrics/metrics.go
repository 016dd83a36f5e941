// metrics - Prometheus-коллекторы catalog-сервиса.
// Регистрируются в prometheus.DefaultRegisterer и отдаются через /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// Значения label result.
const (
	ResultOK    = "ok"
	ResultError = "error"
	ResultHit   = "hit"
	ResultMiss  = "miss"
)

var (
	storeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Duration of document store operations.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op", "result"},
	)

	cacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Facet/count cache lookups by outcome.",
		},
		[]string{"kind", "result"},
	)

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// ObserveStore фиксирует длительность операции хранилища.
func ObserveStore(op string, started time.Time, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}

	storeDuration.WithLabelValues(op, result).Observe(time.Since(started).Seconds())
}

// CacheLookup фиксирует обращение к кэшу: result - hit/miss/error.
func CacheLookup(kind, result string) {
	cacheRequests.WithLabelValues(kind, result).Inc()
}

// ObserveHTTP фиксирует обработанный HTTP-запрос.
func ObserveHTTP(method, route, status string, dur time.Duration) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpDuration.WithLabelValues(method, route, status).Observe(dur.Seconds())
}
