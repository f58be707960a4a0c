package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the sizing module.
type Metrics struct {
	// Recommendation requests by chart and outcome
	Recommendations *prometheus.CounterVec

	// Per-finger match resolutions by branch and fit
	MatchBranch *prometheus.CounterVec

	// Overall recommendation latency including store reads and the write
	RecommendLatency prometheus.Histogram
}

// New creates a new Metrics instance with all sizing module metrics registered.
func New() *Metrics {
	return &Metrics{
		Recommendations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sev_sizing_recommendations_total",
			Help: "Total recommendation requests by chart and outcome",
		}, []string{"chart", "outcome"}), // outcome: "ok" or an error code

		MatchBranch: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sev_sizing_match_branch_total",
			Help: "Per-finger match resolutions by branch and reported fit",
		}, []string{"branch", "fit"}),

		RecommendLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sev_sizing_recommend_duration_seconds",
			Help:    "Duration of full recommendation including snapshot, match and record",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementRecommendation records a recommendation outcome for a chart.
func (m *Metrics) IncrementRecommendation(chart, outcome string) {
	if m != nil {
		m.Recommendations.WithLabelValues(chart, outcome).Inc()
	}
}

// IncrementMatchBranch records which branch resolved a finger and the fit it reported.
func (m *Metrics) IncrementMatchBranch(branch, fit string) {
	if m != nil {
		m.MatchBranch.WithLabelValues(branch, fit).Inc()
	}
}

// ObserveRecommendLatency records the total recommendation duration.
func (m *Metrics) ObserveRecommendLatency(d time.Duration) {
	if m != nil {
		m.RecommendLatency.Observe(d.Seconds())
	}
}
