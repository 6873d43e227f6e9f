package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "asesfy"

// Submission outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeFailure    = "failure"
	OutcomeRejected   = "rejected"
	OutcomeInProgress = "in_progress"
)

// QuoteMetrics records quote submissions and cart activity.
type QuoteMetrics struct {
	submissions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	cartOps     *prometheus.CounterVec
	searches    *prometheus.CounterVec
}

// NewQuoteMetrics registers the quote metrics on the provided registerer.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		return &QuoteMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quote_submissions_total",
		Help:      "Quote request submissions by backend and outcome.",
	}, []string{"backend", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "quote_submission_duration_seconds",
		Help:      "Time spent in the quote backend in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"backend"})
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_operations_total",
		Help:      "Cart mutations by operation.",
	}, []string{"op"})
	searches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_searches_total",
		Help:      "Settled catalog searches by whether anything matched.",
	}, []string{"result"})
	reg.MustRegister(submissions, duration, cartOps, searches)
	return &QuoteMetrics{
		submissions: submissions,
		duration:    duration,
		cartOps:     cartOps,
		searches:    searches,
	}
}

// IncSubmission counts one submission attempt.
func (m *QuoteMetrics) IncSubmission(backend, outcome string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(backend), normalizeLabel(outcome)).Inc()
}

// ObserveSubmission records the backend latency of one submission.
func (m *QuoteMetrics) ObserveSubmission(backend string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(backend)).Observe(d.Seconds())
}

// IncCartOp counts one cart mutation.
func (m *QuoteMetrics) IncCartOp(op string) {
	if m == nil || m.cartOps == nil {
		return
	}
	m.cartOps.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncSearch counts one settled search; hit reports whether any service matched.
func (m *QuoteMetrics) IncSearch(hit bool) {
	if m == nil || m.searches == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.searches.WithLabelValues(result).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

// RegisterActiveCarts exposes the number of live cart sessions, read on every scrape.
func RegisterActiveCarts(reg prometheus.Registerer, count func() int) {
	if reg == nil || count == nil {
		return
	}
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_carts",
		Help:      "Cart sessions currently held in memory.",
	}, func() float64 { return float64(count()) }))
}
