// Package metrics provides Prometheus metrics for the amo-server service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "amo"
	Subsystem = "server"
)

var (
	// HTTPRequestsTotal counts HTTP requests by route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ProviderCallsTotal counts outbound provider calls by operation and outcome.
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "provider_calls_total",
			Help:      "Total number of calls made to the model provider",
		},
		[]string{"operation", "outcome"},
	)

	// ProviderCallDuration tracks provider call latency.
	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "provider_call_duration_seconds",
			Help:      "Duration of calls made to the model provider",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"operation"},
	)

	// RealtimeCredentialsIssued counts ephemeral realtime credentials handed out.
	RealtimeCredentialsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "realtime_credentials_issued_total",
			Help:      "Total number of ephemeral realtime credentials issued",
		},
	)

	// ActiveRealtimeLeases tracks credentials that have not yet expired.
	ActiveRealtimeLeases = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "realtime_active_leases",
			Help:      "Number of issued realtime credentials that have not expired",
		},
	)

	// RealtimeLeasesExpired counts leases removed by the janitor.
	RealtimeLeasesExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "realtime_leases_expired_total",
			Help:      "Total number of realtime leases removed after expiry",
		},
	)

	// VisualDetections counts visual content selections by category.
	VisualDetections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: Subsystem,
			Name:      "visual_detections_total",
			Help:      "Total number of visual content detections by category",
		},
		[]string{"category"},
	)
)

// RecordProviderCall records the outcome and latency of one provider call.
func RecordProviderCall(operation string, started time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	ProviderCallsTotal.WithLabelValues(operation, outcome).Inc()
	ProviderCallDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// RecordLeaseIssued increments credential issuance metrics.
func RecordLeaseIssued() {
	RealtimeCredentialsIssued.Inc()
	ActiveRealtimeLeases.Inc()
}

// RecordLeaseExpired decrements the active lease gauge.
func RecordLeaseExpired() {
	RealtimeLeasesExpired.Inc()
	ActiveRealtimeLeases.Dec()
}

// RecordVisualDetection counts a visual content selection.
func RecordVisualDetection(category string) {
	VisualDetections.WithLabelValues(category).Inc()
}
