// Package metrics provides Prometheus metrics for pubmirror runs.
//
// A run is short-lived, so nothing is served over HTTP: the collected
// metrics are written once in the text exposition format with WriteTextfile,
// ready for the node_exporter textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every pubmirror collector.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// Mirror metrics
	entriesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pubmirror_entries_total",
			Help: "Catalog entries processed, by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	filesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pubmirror_files_total",
			Help: "Individual files linked, copied, deleted or ignored",
		},
		[]string{"action"},
	)

	runDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pubmirror_run_duration_seconds",
			Help:    "Duration of a mirror or delete run",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	// Upload metrics
	uploadsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pubmirror_uploads_total",
			Help: "Total uploads, by status",
		},
		[]string{"status"},
	)

	uploadBytes = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "pubmirror_upload_bytes_total",
			Help: "Total bytes uploaded",
		},
	)

	uploadDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pubmirror_upload_duration_seconds",
			Help:    "Duration of a single upload",
			Buckets: prometheus.DefBuckets,
		},
	)

	uploadBatches = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "pubmirror_upload_batches_total",
			Help: "Upload batches drained",
		},
	)

	clientRotations = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "pubmirror_upload_client_rotations_total",
			Help: "Storage clients rebuilt to start a fresh session",
		},
	)

	uploadsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "pubmirror_uploads_in_flight",
			Help: "Uploads currently in flight",
		},
	)
)

// RecordEntry records the outcome of one catalog entry.
func RecordEntry(kind, outcome string) {
	entriesTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordFile records one per-file action inside an entry.
func RecordFile(action string) {
	filesTotal.WithLabelValues(action).Inc()
}

// RecordRun records the duration of a mirror or delete run.
func RecordRun(mode string, duration time.Duration) {
	runDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordUpload records a finished upload.
func RecordUpload(bytes int64, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	} else {
		uploadBytes.Add(float64(bytes))
	}
	uploadsTotal.WithLabelValues(status).Inc()
	uploadDuration.Observe(duration.Seconds())
}

// RecordBatch records a drained upload batch.
func RecordBatch() {
	uploadBatches.Inc()
}

// RecordClientRotation records a storage client rebuild.
func RecordClientRotation() {
	clientRotations.Inc()
}

// UploadStarted and UploadFinished track the in-flight gauge.
func UploadStarted()  { uploadsInFlight.Inc() }
func UploadFinished() { uploadsInFlight.Dec() }

// WriteTextfile writes every collected metric to path in the Prometheus
// text format. The file is replaced atomically.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
