// Package metrics provides Prometheus metrics for obsfs backend operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obsfs_requests_total",
			Help: "Total number of backend HTTP requests",
		},
		[]string{"operation", "code"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "obsfs_request_duration_seconds",
			Help:    "Backend HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obsfs_errors_total",
			Help: "Total number of backend errors by kind",
		},
		[]string{"operation", "kind"},
	)

	// Payload metrics
	BytesTransferred = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "obsfs_bytes_transferred_total",
			Help: "Total bytes transferred to and from the backend",
		},
		[]string{"direction"}, // "upload" or "download"
	)
)

// RegisterMetrics ensures all metrics are registered with Prometheus.
// This function is idempotent and safe to call multiple times.
func RegisterMetrics() {
	// All metrics are automatically registered via promauto.
}
