package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the chart module.
type Metrics struct {
	// Admin mutations by action and outcome
	Mutations *prometheus.CounterVec

	// Snapshot loads by source and outcome
	SnapshotLoads *prometheus.CounterVec
}

// New creates a new Metrics instance with all chart module metrics registered.
func New() *Metrics {
	return &Metrics{
		Mutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sev_chart_mutations_total",
			Help: "Total chart admin mutations by action and outcome",
		}, []string{"action", "outcome"}), // outcome: "ok" or an error code

		SnapshotLoads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sev_chart_snapshot_loads_total",
			Help: "Total chart snapshot loads by source and outcome",
		}, []string{"source", "outcome"}), // source: "cache" or "stores"
	}
}

// IncrementMutation records a mutation outcome for an admin action.
func (m *Metrics) IncrementMutation(action, outcome string) {
	if m != nil {
		m.Mutations.WithLabelValues(action, outcome).Inc()
	}
}

// IncrementSnapshotLoad records where a snapshot read was served from.
func (m *Metrics) IncrementSnapshotLoad(source, outcome string) {
	if m != nil {
		m.SnapshotLoads.WithLabelValues(source, outcome).Inc()
	}
}
