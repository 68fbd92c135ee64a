package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes engine activity as Prometheus metrics.
type Recorder struct {
	evaluations     *prometheus.CounterVec
	validationFails *prometheus.CounterVec
	skippedEntities *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	lastMagnitude   *prometheus.GaugeVec
}

// New creates the metric set under the arblens namespace.
func New() *Recorder {
	return &Recorder{
		evaluations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arblens_evaluations_total",
				Help: "Total model evaluations by resulting signal",
			},
			[]string{"model", "signal"},
		),
		validationFails: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arblens_validation_failures_total",
				Help: "Inputs rejected for breaking record invariants",
			},
			[]string{"model"},
		),
		skippedEntities: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arblens_skipped_entities_total",
				Help: "Entities skipped during batch evaluation",
			},
			[]string{"model"},
		),
		duration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arblens_evaluation_duration_seconds",
				Help:    "Duration of single model evaluations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"model"},
		),
		lastMagnitude: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "arblens_last_magnitude",
				Help: "Magnitude of the most recent evaluation per model",
			},
			[]string{"model"},
		),
	}
}

// ObserveEvaluation records one completed evaluation.
func (r *Recorder) ObserveEvaluation(model, signal string, d time.Duration) {
	if signal == "" {
		signal = "error"
	}
	r.evaluations.WithLabelValues(model, signal).Inc()
	r.duration.WithLabelValues(model).Observe(d.Seconds())
}

// RecordValidationFailure records a rejected input.
func (r *Recorder) RecordValidationFailure(model string) {
	r.validationFails.WithLabelValues(model).Inc()
}

// RecordSkippedEntity records a batch entity skipped over an error.
func (r *Recorder) RecordSkippedEntity(model string) {
	r.skippedEntities.WithLabelValues(model).Inc()
}

// RecordMagnitude records the latest magnitude for a model.
func (r *Recorder) RecordMagnitude(model string, magnitude float64) {
	r.lastMagnitude.WithLabelValues(model).Set(magnitude)
}
