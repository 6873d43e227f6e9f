package metrics

import "github.com/prometheus/client_golang/prometheus"

// OutboxMetrics tracks the outbox publisher and the dead-letter backlog.
type OutboxMetrics struct {
	events      *prometheus.CounterVec
	deadLetters *prometheus.GaugeVec
}

// NewOutboxMetrics registers the outbox collectors on the provided registerer.
func NewOutboxMetrics(reg prometheus.Registerer) *OutboxMetrics {
	if reg == nil {
		return &OutboxMetrics{}
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outbox_events_total",
		Help:      "Outbox rows processed by event type and result (published, retry, dead_lettered).",
	}, []string{"event_type", "result"})
	deadLetters := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "outbox_dead_letters",
		Help:      "Dead-lettered quote events currently stored, by reason.",
	}, []string{"reason"})
	reg.MustRegister(events, deadLetters)
	return &OutboxMetrics{events: events, deadLetters: deadLetters}
}

// Inc counts one processed outbox row.
func (m *OutboxMetrics) Inc(eventType, result string) {
	if m == nil || m.events == nil {
		return
	}
	m.events.WithLabelValues(normalizeLabel(eventType), normalizeLabel(result)).Inc()
}

// SetDeadLetters records the stored dead-letter count for reason.
func (m *OutboxMetrics) SetDeadLetters(reason string, n int64) {
	if m == nil || m.deadLetters == nil {
		return
	}
	m.deadLetters.WithLabelValues(normalizeLabel(reason)).Set(float64(n))
}
