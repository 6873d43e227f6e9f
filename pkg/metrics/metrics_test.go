package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestQuoteMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewQuoteMetrics(reg)
	m.IncSubmission("rpc", OutcomeSuccess)
	m.IncSubmission("rpc", OutcomeSuccess)
	m.IncSubmission("", OutcomeFailure)
	m.ObserveSubmission("rpc", 250*time.Millisecond)
	m.IncCartOp("add")
	m.IncSearch(true)
	m.IncSearch(false)
	m.IncSearch(false)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "asesfy_quote_submissions_total", map[string]string{"backend": "rpc", "outcome": OutcomeSuccess}); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 2 {
		t.Fatalf("expected success=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "asesfy_quote_submissions_total", map[string]string{"backend": "unknown", "outcome": OutcomeFailure}); err != nil {
		t.Fatalf("fetch failure: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failure=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "asesfy_catalog_searches_total", map[string]string{"result": "miss"}); err != nil {
		t.Fatalf("fetch searches: %v", err)
	} else if got != 2 {
		t.Fatalf("expected miss=2, got %f", got)
	}
	if got, err := fetchHistogramSum(mfs, "asesfy_quote_submission_duration_seconds", map[string]string{"backend": "rpc"}); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "asesfy_cart_operations_total", map[string]string{"op": "add"}); err != nil || got != 1 {
		t.Fatalf("expected add=1, got %f (%v)", got, err)
	}
}

func TestOutboxMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOutboxMetrics(reg)
	m.Inc("quote_requested", "published")
	m.SetDeadLetters("max_attempts", 4)
	m.SetDeadLetters("max_attempts", 2)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "asesfy_outbox_events_total", map[string]string{"event_type": "quote_requested", "result": "published"}); err != nil || got != 1 {
		t.Fatalf("expected published=1, got %f (%v)", got, err)
	}
	if got, err := fetchGaugeValue(mfs, "asesfy_outbox_dead_letters", map[string]string{"reason": "max_attempts"}); err != nil || got != 2 {
		t.Fatalf("expected dead letters=2, got %f (%v)", got, err)
	}
}

func TestRegisterActiveCarts(t *testing.T) {
	reg := prometheus.NewRegistry()
	live := 3
	RegisterActiveCarts(reg, func() int { return live })
	RegisterActiveCarts(nil, func() int { return 0 })

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchGaugeValue(mfs, "asesfy_active_carts", nil); err != nil || got != 3 {
		t.Fatalf("expected active carts=3, got %f (%v)", got, err)
	}
}

func TestNilMetricsAreNoops(t *testing.T) {
	var q *QuoteMetrics
	q.IncSubmission("rpc", OutcomeSuccess)
	q.ObserveSubmission("rpc", time.Second)
	q.IncCartOp("add")

	NewQuoteMetrics(nil).IncSubmission("rpc", OutcomeSuccess)

	var o *OutboxMetrics
	o.Inc("quote_requested", "failed")
	o.SetDeadLetters("non_retryable", 1)
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe("/api/v1/cart/items/{itemId}", "PATCH", 200, 15*time.Millisecond)
	m.Observe("", "GET", 404, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "asesfy_http_requests_total", map[string]string{"route": "/api/v1/cart/items/{itemId}", "method": "PATCH", "code": "200"}); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 request, got %f", got)
	}
	if _, err := fetchCounterValue(mfs, "asesfy_http_requests_total", map[string]string{"route": "unknown", "code": "404"}); err != nil {
		t.Fatalf("expected empty route to be labelled unknown: %v", err)
	}

	var nilMetrics *HTTPMetrics
	nilMetrics.Observe("/", "GET", 200, time.Second)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func fetchGaugeValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetGauge().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("gauge %q missing labels %v", name, labels)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok && v == pair.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}

func TestJobMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewJobMetrics(reg)
	m.Observe("outbox-retention", time.Second, nil)
	m.Observe("outbox-retention", time.Second, fmt.Errorf("locked"))

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, result := range []string{"success", "failure"} {
		got, err := fetchCounterValue(mfs, "asesfy_maintenance_job_runs_total", map[string]string{"job": "outbox-retention", "result": result})
		if err != nil {
			t.Fatalf("fetch %s: %v", result, err)
		}
		if got != 1 {
			t.Fatalf("expected one %s run, got %v", result, got)
		}
	}

	var nilMetrics *JobMetrics
	nilMetrics.Observe("noop", time.Second, nil)
}
