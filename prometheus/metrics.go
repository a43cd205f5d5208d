package prometheus

import (
	"time"

	"warescan-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthErrorsCounter   *prometheus.CounterVec

	// Engine operation metrics, labelled by operation and outcome
	EngineOperationsCounter *prometheus.CounterVec

	// Manifest import metrics
	ImportRowsCounter *prometheus.CounterVec

	// Replication queue metrics
	ReplicationJobsCounter    *prometheus.CounterVec
	ReplicationDroppedCounter prometheus.Counter

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	prefix := config.Metrics.Prefix

	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthErrorsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"reason"},
	)

	EngineOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_engine_operations_total",
			Help: "Total number of package lifecycle operations",
		},
		[]string{"operation", "outcome"},
	)

	ImportRowsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_import_rows_total",
			Help: "Total number of manifest rows processed by result",
		},
		[]string{"result"},
	)

	ReplicationJobsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_replication_jobs_total",
			Help: "Total number of replication jobs by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	ReplicationDroppedCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_replication_dropped_total",
			Help: "Total number of replication jobs dropped due to a full queue",
		},
	)

	DbOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordEngineOperation increments the counter for a lifecycle operation
func RecordEngineOperation(operation, outcome string) {
	if EngineOperationsCounter == nil {
		return
	}
	EngineOperationsCounter.WithLabelValues(operation, outcome).Inc()
}

// RecordImportRow increments the counter for one manifest row result
func RecordImportRow(result string) {
	if ImportRowsCounter == nil {
		return
	}
	ImportRowsCounter.WithLabelValues(result).Inc()
}

// RecordReplicationJob increments the counter for one replication attempt outcome
func RecordReplicationJob(kind, outcome string) {
	if ReplicationJobsCounter == nil {
		return
	}
	ReplicationJobsCounter.WithLabelValues(kind, outcome).Inc()
}

// RecordReplicationDrop counts a job discarded because the queue was full
func RecordReplicationDrop() {
	if ReplicationDroppedCounter == nil {
		return
	}
	ReplicationDroppedCounter.Inc()
}

// RecordAuthAttempt counts one login or register attempt
func RecordAuthAttempt() {
	if AuthAttemptsCounter == nil {
		return
	}
	AuthAttemptsCounter.Inc()
}

// RecordAuthError counts one authentication failure by reason
func RecordAuthError(reason string) {
	if AuthErrorsCounter == nil {
		return
	}
	AuthErrorsCounter.WithLabelValues(reason).Inc()
}
