// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "negocio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "negocio_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "negocio_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// RecordOperationsTotal counts service operations per collection
	// (ventas, gastos, menu) and outcome.
	RecordOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "negocio_record_operations_total",
			Help: "Total number of record operations",
		},
		[]string{"collection", "operation", "status"},
	)

	BackupOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "negocio_backup_operations_total",
			Help: "Total number of backup exports and restores",
		},
		[]string{"operation", "status"},
	)
)

// Outcome labels.
const (
	StatusSuccess = "success"
	StatusInvalid = "invalid"
	StatusError   = "error"
)
