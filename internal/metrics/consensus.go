// Package metrics exports consensus engine activity to Prometheus
package metrics

import (
	"checkmate/internal/consensus"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// ConsensusMetrics records cycle and recovery outcomes. It implements
// consensus.Recorder and prometheus.Collector.
type ConsensusMetrics struct {
	cyclesTotal          *prometheus.CounterVec
	cycleDuration        prometheus.Histogram
	submissionsTotal     *prometheus.CounterVec
	excludedBallotsTotal *prometheus.CounterVec
	recoveriesTotal      *prometheus.CounterVec
	reopenedTotal        prometheus.Counter
	lastCycleTimestamp   prometheus.Gauge
	lastCycleFailedGauge prometheus.Gauge
}

// NewConsensusMetrics creates the consensus metrics and registers them with
// registry
func NewConsensusMetrics(registry *prometheus.Registry) (*ConsensusMetrics, error) {
	m := &ConsensusMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ConsensusMetrics) initMetrics() {
	m.cyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkmate_consensus_cycles_total",
			Help: "Total number of consensus cycles run",
		},
		[]string{"status"}, // status: success, error
	)

	m.cycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "checkmate_consensus_cycle_duration_seconds",
			Help:    "Time taken by one consensus cycle",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	m.submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkmate_consensus_submissions_total",
			Help: "Submissions handled by consensus cycles, by result",
		},
		[]string{"result"}, // result: closed, skipped, failed
	)

	m.excludedBallotsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkmate_consensus_excluded_ballots_total",
			Help: "Ballots dropped from verdicts by integrity checks",
		},
		[]string{"reason"},
	)

	m.recoveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkmate_consensus_recoveries_total",
			Help: "Total number of stale claim recovery sweeps",
		},
		[]string{"status"},
	)

	m.reopenedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "checkmate_consensus_reopened_total",
			Help: "Submissions returned to open after a stale claim",
		},
	)

	m.lastCycleTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "checkmate_consensus_last_cycle_timestamp_seconds",
			Help: "Unix time of the last completed consensus cycle",
		},
	)

	m.lastCycleFailedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "checkmate_consensus_last_cycle_failed",
			Help: "Submissions that failed in the last consensus cycle",
		},
	)
}

// ObserveCycle implements consensus.Recorder
func (m *ConsensusMetrics) ObserveCycle(summary consensus.CycleSummary, err error) {
	status := statusSuccess
	if err != nil {
		status = statusError
	}
	m.cyclesTotal.WithLabelValues(status).Inc()
	m.cycleDuration.Observe(summary.Duration.Seconds())

	m.submissionsTotal.WithLabelValues("closed").Add(float64(summary.Closed))
	m.submissionsTotal.WithLabelValues("skipped").Add(float64(summary.Skipped))
	m.submissionsTotal.WithLabelValues("failed").Add(float64(summary.Failed))

	m.lastCycleFailedGauge.Set(float64(summary.Failed))
	if !summary.StartedAt.IsZero() {
		m.lastCycleTimestamp.Set(float64(summary.StartedAt.Add(summary.Duration).Unix()))
	}
}

// ObserveRecovery implements consensus.Recorder
func (m *ConsensusMetrics) ObserveRecovery(summary consensus.RecoverySummary, err error) {
	status := statusSuccess
	if err != nil {
		status = statusError
	}
	m.recoveriesTotal.WithLabelValues(status).Inc()
	m.reopenedTotal.Add(float64(summary.Reopened))
}

// ObserveExcludedBallot implements consensus.Recorder
func (m *ConsensusMetrics) ObserveExcludedBallot(reason string) {
	m.excludedBallotsTotal.WithLabelValues(reason).Inc()
}

// Describe implements the Collector interface
func (m *ConsensusMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.cyclesTotal.Describe(ch)
	m.cycleDuration.Describe(ch)
	m.submissionsTotal.Describe(ch)
	m.excludedBallotsTotal.Describe(ch)
	m.recoveriesTotal.Describe(ch)
	m.reopenedTotal.Describe(ch)
	m.lastCycleTimestamp.Describe(ch)
	m.lastCycleFailedGauge.Describe(ch)
}

// Collect implements the Collector interface
func (m *ConsensusMetrics) Collect(ch chan<- prometheus.Metric) {
	m.cyclesTotal.Collect(ch)
	m.cycleDuration.Collect(ch)
	m.submissionsTotal.Collect(ch)
	m.excludedBallotsTotal.Collect(ch)
	m.recoveriesTotal.Collect(ch)
	m.reopenedTotal.Collect(ch)
	m.lastCycleTimestamp.Collect(ch)
	m.lastCycleFailedGauge.Collect(ch)
}

var _ consensus.Recorder = (*ConsensusMetrics)(nil)
