// Package metrics exposes Prometheus counters for the scoring engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "scoreengine"

// Manager holds the engine's Prometheus collectors. A nil *Manager is a
// no-op so library code can record unconditionally.
type Manager struct {
	submissionsGraded    prometheus.Counter
	gradingDegraded      prometheus.Counter
	ledgerUpdateFailures prometheus.Counter
	bestScoreImproved    prometheus.Counter
	gradingLatency       prometheus.Histogram
}

func New(reg prometheus.Registerer) *Manager {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Manager{
		submissionsGraded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_graded_total",
			Help:      "Quiz submissions graded, including degraded ones.",
		}),
		gradingDegraded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grading_degraded_total",
			Help:      "Submissions that fell back to single-section grading.",
		}),
		ledgerUpdateFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_update_failures_total",
			Help:      "Best-score ledger writes that failed after the submission was saved.",
		}),
		bestScoreImproved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "best_score_improvements_total",
			Help:      "Ledger writes that raised a stored best score.",
		}),
		gradingLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "grading_duration_seconds",
			Help:      "Wall time of one submission grading pass.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Manager) SubmissionGraded() {
	if m != nil {
		m.submissionsGraded.Inc()
	}
}

func (m *Manager) GradingDegraded() {
	if m != nil {
		m.gradingDegraded.Inc()
	}
}

func (m *Manager) LedgerUpdateFailed() {
	if m != nil {
		m.ledgerUpdateFailures.Inc()
	}
}

func (m *Manager) BestScoreImproved() {
	if m != nil {
		m.bestScoreImproved.Inc()
	}
}

func (m *Manager) ObserveGradingSeconds(sec float64) {
	if m != nil {
		m.gradingLatency.Observe(sec)
	}
}
