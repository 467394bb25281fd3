package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the identity pipeline.
type Metrics struct {
	IdentitiesGenerated prometheus.Counter
	TrainingRuns        *prometheus.CounterVec
	ModelAccuracy       prometheus.Gauge
	TrainingDuration    prometheus.Histogram
	RecordsExported     *prometheus.CounterVec
	RecordsImported     *prometheus.CounterVec
	DecryptionFailures  prometheus.Counter
}

// New registers the identity metrics on reg. Each System gets its own
// registry in tests so instances do not collide.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		IdentitiesGenerated: f.NewCounter(prometheus.CounterOpts{
			Name: "idsynth_identities_generated_total",
			Help: "Total number of synthetic identities generated",
		}),
		TrainingRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "idsynth_training_runs_total",
			Help: "Country model training calls by outcome",
		}, []string{"outcome"}),
		ModelAccuracy: f.NewGauge(prometheus.GaugeOpts{
			Name: "idsynth_model_accuracy",
			Help: "Held-out accuracy of the most recently trained country model",
		}),
		TrainingDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "idsynth_training_duration_seconds",
			Help:    "Duration of successful training calls",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RecordsExported: f.NewCounterVec(prometheus.CounterOpts{
			Name: "idsynth_records_exported_total",
			Help: "Records written by export, by format",
		}, []string{"format"}),
		RecordsImported: f.NewCounterVec(prometheus.CounterOpts{
			Name: "idsynth_records_imported_total",
			Help: "Records read by import, by format",
		}, []string{"format"}),
		DecryptionFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "idsynth_decryption_failures_total",
			Help: "Decryption calls rejected by the integrity check",
		}),
	}
}

func (m *Metrics) IncrementGenerated(n int) {
	m.IdentitiesGenerated.Add(float64(n))
}

func (m *Metrics) IncrementTraining(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.TrainingRuns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetAccuracy(accuracy float64) {
	m.ModelAccuracy.Set(accuracy)
}

// ObserveTraining records the duration of a training call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveTraining(start time.Time) {
	m.TrainingDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) AddExported(format string, n int) {
	m.RecordsExported.WithLabelValues(format).Add(float64(n))
}

func (m *Metrics) AddImported(format string, n int) {
	m.RecordsImported.WithLabelValues(format).Add(float64(n))
}

func (m *Metrics) IncrementDecryptionFailures() {
	m.DecryptionFailures.Inc()
}
