package metrics

import (
	"corrplot/domain/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values
const (
	StatusSuccess          = "success"
	StatusInputError       = "input_error"
	StatusComputationError = "computation_error"
	StatusError            = "error"
	StatusRateLimited      = "rate_limited"
)

var (
	// uploads counts dataset uploads.
	// Labels: format (csv, xlsx, unknown), status
	uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "corrplot",
		Subsystem: "dataset",
		Name:      "uploads_total",
		Help:      "Dataset uploads by format and status",
	}, []string{"format", "status"})

	// fits counts regression computations.
	// Labels: status
	fits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "corrplot",
		Subsystem: "regression",
		Name:      "fits_total",
		Help:      "Regression fits by status",
	}, []string{"status"})

	fitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "corrplot",
		Subsystem: "regression",
		Name:      "fit_duration_seconds",
		Help:      "Time to extract pairs and fit a regression",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	// chartRenders counts chart renders.
	// Labels: format (svg, png), status
	chartRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "corrplot",
		Subsystem: "chart",
		Name:      "renders_total",
		Help:      "Chart renders by format and status",
	}, []string{"format", "status"})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "corrplot",
		Subsystem: "session",
		Name:      "active",
		Help:      "Sessions currently held in memory",
	})
)

// StatusOf maps an error onto a status label
func StatusOf(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case core.IsInputError(err):
		return StatusInputError
	case core.IsComputationError(err):
		return StatusComputationError
	default:
		return StatusError
	}
}

// RecordUpload records an upload attempt. format is empty when the
// extension was not recognised.
func RecordUpload(format string, err error) {
	if format == "" {
		format = "unknown"
	}
	uploads.WithLabelValues(format, StatusOf(err)).Inc()
}

// RecordUploadRateLimited records an upload rejected by the limiter
func RecordUploadRateLimited() {
	uploads.WithLabelValues("unknown", StatusRateLimited).Inc()
}

// RecordFit records a regression attempt and its duration in seconds
func RecordFit(durationSec float64, err error) {
	fits.WithLabelValues(StatusOf(err)).Inc()
	fitDuration.Observe(durationSec)
}

// RecordChartRender records a chart render attempt
func RecordChartRender(format string, err error) {
	chartRenders.WithLabelValues(format, StatusOf(err)).Inc()
}

// SetActiveSessions sets the session gauge
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}
