package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "petmatch"

// Matching workflow Prometheus metrics.
var (
	ReportsSubmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_submitted_total",
			Help:      "Pet reports accepted, by status",
		},
		[]string{"status"},
	)

	MatchScores = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_scores",
			Help:      "Distribution of lost/found pair scores",
			Buckets:   []float64{0, 0.1, 0.3, 0.5, 0.7, 0.8, 0.85, 0.9, 0.95, 1},
		},
	)

	MatchesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_created_total",
			Help:      "Match records persisted",
		},
	)

	PairFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pair_failures_total",
			Help:      "Lost/found pairs skipped because scoring failed",
		},
	)
)

var matchMetricsRegistered bool

// RegisterMatchingMetrics registers Prometheus matching metrics. Must be called once from main.
func RegisterMatchingMetrics() {
	if matchMetricsRegistered {
		return
	}
	prometheus.MustRegister(ReportsSubmittedTotal)
	prometheus.MustRegister(MatchScores)
	prometheus.MustRegister(MatchesCreatedTotal)
	prometheus.MustRegister(PairFailuresTotal)
	matchMetricsRegistered = true
}
