package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "affiliate"

// Metrics of the node, the confirmation protocol and the ingestion pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	transactions  *prometheus.CounterVec
	notifications prometheus.Counter
	queueDepth    prometheus.Gauge

	confirmOutcomes *prometheus.CounterVec
	confirmDuration prometheus.Histogram

	ingestBatches    *prometheus.CounterVec
	ingestEvents     *prometheus.CounterVec
	ingestCheckpoint prometheus.Gauge
	ingestHalted     prometheus.Gauge
}

// New creates and registers all collectors
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "node_transactions_total",
				Help:      "Executed ledger messages by operation and outcome",
			},
			[]string{"operation", "status"},
		),
		notifications: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "node_notifications_total",
				Help:      "Notifications appended to the stream",
			},
		),
		queueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "node_queue_depth",
				Help:      "Submitted messages waiting for execution",
			},
		),

		confirmOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "confirm_outcomes_total",
				Help:      "Confirmation protocol results",
			},
			[]string{"state"},
		),
		confirmDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "confirm_duration_seconds",
				Help:      "Time from submission to a final confirmation state",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
			},
		),

		ingestBatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingest_batches_total",
				Help:      "Processed notification batches",
			},
			[]string{"status"},
		),
		ingestEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingest_events_total",
				Help:      "Delivered events by kind",
			},
			[]string{"kind"},
		),
		ingestCheckpoint: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ingest_checkpoint",
				Help:      "Last persisted sequence number",
			},
		),
		ingestHalted: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ingest_halted",
				Help:      "1 when the pipeline waits on a failed record",
			},
		),
	}

	reg.MustRegister(
		m.transactions,
		m.notifications,
		m.queueDepth,
		m.confirmOutcomes,
		m.confirmDuration,
		m.ingestBatches,
		m.ingestEvents,
		m.ingestCheckpoint,
		m.ingestHalted,
	)
	return m
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "failed"
}

// ObserveTransaction ...
func (m *Metrics) ObserveTransaction(operation string, success bool, notifications int) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(operation, status(success)).Inc()
	m.notifications.Add(float64(notifications))
}

// SetQueueDepth ...
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}

// ObserveConfirmation ...
func (m *Metrics) ObserveConfirmation(state string, d time.Duration) {
	if m == nil {
		return
	}
	m.confirmOutcomes.WithLabelValues(state).Inc()
	m.confirmDuration.Observe(d.Seconds())
}

// ObserveBatch ...
func (m *Metrics) ObserveBatch(success bool, checkpoint uint64, halted bool) {
	if m == nil {
		return
	}
	m.ingestBatches.WithLabelValues(status(success)).Inc()
	m.ingestCheckpoint.Set(float64(checkpoint))
	if halted {
		m.ingestHalted.Set(1)
	} else {
		m.ingestHalted.Set(0)
	}
}

// ObserveEvent ...
func (m *Metrics) ObserveEvent(kind string) {
	if m == nil {
		return
	}
	m.ingestEvents.WithLabelValues(kind).Inc()
}
