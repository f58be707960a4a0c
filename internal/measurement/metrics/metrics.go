package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the measurement module.
type Metrics struct {
	// Pipeline ingests by photo type and outcome
	Ingests *prometheus.CounterVec

	// Thumb plus four-finger merges by outcome
	Merges *prometheus.CounterVec
}

// New creates a new Metrics instance with all measurement module metrics registered.
func New() *Metrics {
	return &Metrics{
		Ingests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sev_measurement_ingests_total",
			Help: "Total measurement ingests by photo type and outcome",
		}, []string{"photo_type", "outcome"}), // outcome: "ok" or an error code

		Merges: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sev_measurement_merges_total",
			Help: "Total thumb plus four-finger merges by outcome",
		}, []string{"outcome"}),
	}
}

// IncrementIngest records an ingest outcome for a photo type.
func (m *Metrics) IncrementIngest(photoType, outcome string) {
	if m != nil {
		m.Ingests.WithLabelValues(photoType, outcome).Inc()
	}
}

// IncrementMerge records a merge outcome.
func (m *Metrics) IncrementMerge(outcome string) {
	if m != nil {
		m.Merges.WithLabelValues(outcome).Inc()
	}
}
