// Package metrics registers the service's Prometheus collectors.
//
// Collectors are registered on the Registerer handed to the constructor so
// tests can use a private registry. A nil *Ledger or *HTTP records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pointledger"

// Ledger holds the ledger engine and history collectors.
type Ledger struct {
	batches       *prometheus.CounterVec
	batchDuration prometheus.Histogram
	userOutcomes  *prometheus.CounterVec
	redemptions   *prometheus.CounterVec
	historyRows   *prometheus.CounterVec
	truncations   *prometheus.CounterVec
}

func NewLedger(reg prometheus.Registerer) *Ledger {
	m := &Ledger{
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "batches_total",
			Help:      "Bulk point assignments by terminal state.",
		}, []string{"state"}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "batch_duration_seconds",
			Help:      "Wall time of bulk point assignments.",
			Buckets:   prometheus.DefBuckets,
		}),
		userOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "user_updates_total",
			Help:      "Per-user results inside bulk assignments.",
		}, []string{"outcome"}),
		redemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "redemptions_total",
			Help:      "Reward redemptions by outcome.",
		}, []string{"outcome"}),
		historyRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "rows_total",
			Help:      "Rows emitted by the merged history feed.",
		}, []string{"kind"}),
		truncations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "truncations_total",
			Help:      "History passes stopped by a dangling reference.",
		}, []string{"log"}),
	}

	reg.MustRegister(
		m.batches,
		m.batchDuration,
		m.userOutcomes,
		m.redemptions,
		m.historyRows,
		m.truncations,
	)

	return m
}

func (m *Ledger) ObserveBatch(state string, took time.Duration) {
	if m == nil {
		return
	}

	m.batches.WithLabelValues(state).Inc()
	m.batchDuration.Observe(took.Seconds())
}

func (m *Ledger) UserOutcome(outcome string) {
	if m == nil {
		return
	}

	m.userOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Ledger) UsersSkipped(n int) {
	if m == nil || n == 0 {
		return
	}

	m.userOutcomes.WithLabelValues("skipped").Add(float64(n))
}

func (m *Ledger) Redemption(outcome string) {
	if m == nil {
		return
	}

	m.redemptions.WithLabelValues(outcome).Inc()
}

func (m *Ledger) HistoryRows(kind string, n int) {
	if m == nil || n == 0 {
		return
	}

	m.historyRows.WithLabelValues(kind).Add(float64(n))
}

func (m *Ledger) HistoryTruncated(log string) {
	if m == nil {
		return
	}

	m.truncations.WithLabelValues(log).Inc()
}
