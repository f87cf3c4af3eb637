// Package metrics exposes Prometheus instrumentation for sync runs.
//
// boltsync is a short-lived process, so metrics are not served over HTTP.
// They are written once per run to a node_exporter textfile-collector
// file when --metrics-file is given.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream request metrics.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boltsync_requests_total",
			Help: "Upstream API requests by endpoint and HTTP status",
		},
		[]string{"endpoint", "status"},
	)

	RequestRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boltsync_request_retries_total",
			Help: "Upstream API retries by endpoint and reason",
		},
		[]string{"endpoint", "reason"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boltsync_request_duration_seconds",
			Help:    "Duration of upstream API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Sync metrics.
	RecordsUpserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boltsync_records_upserted_total",
			Help: "Records upserted into the destination by table",
		},
		[]string{"table"},
	)

	RecordsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boltsync_records_dropped_total",
			Help: "Records skipped by normalisation by table",
		},
		[]string{"table"},
	)

	PagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boltsync_pages_processed_total",
			Help: "Pages checkpointed by table",
		},
		[]string{"table"},
	)

	TableOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boltsync_table_outcomes_total",
			Help: "Table sync outcomes by table and outcome",
		},
		[]string{"table", "outcome"},
	)

	LastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "boltsync_last_run_timestamp_seconds",
			Help: "Unix time the last sync run finished",
		},
	)
)

// RecordRequest records one upstream request.
func RecordRequest(endpoint string, status int, d time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	RequestsTotal.WithLabelValues(endpoint, label).Inc()
	RequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// RecordRetry records one retry of an upstream request.
func RecordRetry(endpoint, reason string) {
	RequestRetries.WithLabelValues(endpoint, reason).Inc()
}

// RecordRunFinished stamps the end of a run.
func RecordRunFinished(at time.Time) {
	LastRunTimestamp.Set(float64(at.Unix()))
}

// WriteTextfile writes every registered metric to path in the
// Prometheus text exposition format. The file is replaced atomically.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
