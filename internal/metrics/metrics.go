// Package metrics exposes Prometheus instrumentation for training,
// classification and plugin dispatch.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kalam"

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	// Training
	TrainingsTotal   prometheus.Counter   // examples folded into a letter model
	TrainingFailures prometheus.Counter   // rejected or failed training requests
	TrainingDuration prometheus.Histogram // time spent retraining one letter

	// Classification
	ClassificationsTotal   prometheus.Counter
	ClassificationFailures prometheus.Counter
	ClassificationDuration prometheus.Histogram

	// Model inventory
	Letters  prometheus.Gauge
	Examples prometheus.Gauge

	// PluginExecutions is labelled by plugin name and result (ok, error).
	PluginExecutions *prometheus.CounterVec
}

// New registers the collectors on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors on registerer, which keeps tests isolated.
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		TrainingsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trainings_total",
			Help:      "Total number of training examples accepted",
		}),
		TrainingFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "training_failures_total",
			Help:      "Total number of rejected training examples",
		}),
		TrainingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "training_duration_seconds",
			Help:      "Time spent retraining a letter model",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		ClassificationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Total number of gestures classified",
		}),
		ClassificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classification_failures_total",
			Help:      "Total number of failed classifications",
		}),
		ClassificationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classification_duration_seconds",
			Help:      "Time spent scoring a gesture against every letter",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		Letters: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "letters",
			Help:      "Number of trained letters",
		}),
		Examples: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "examples",
			Help:      "Number of stored training examples across all letters",
		}),
		PluginExecutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plugin_executions_total",
			Help:      "Plugin executions by plugin and result",
		}, []string{"plugin", "result"}),
	}
}

// SetInventory records the current letter and example counts.
func (m *Metrics) SetInventory(letters, examples int) {
	m.Letters.Set(float64(letters))
	m.Examples.Set(float64(examples))
}

// PluginResult counts one plugin execution.
func (m *Metrics) PluginResult(plugin string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.PluginExecutions.WithLabelValues(plugin, result).Inc()
}
