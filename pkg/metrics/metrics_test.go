package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.Observe("GET", "/api/v1/trips", 200, 120*time.Millisecond)
	m.Observe("GET", "/api/v1/trips", 200, 80*time.Millisecond)
	m.Observe("GET", "", 404, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	got, err := fetchCounterValue(mfs, "http_requests_total", map[string]string{"route": "/api/v1/trips", "status": "200"})
	if err != nil {
		t.Fatalf("fetch requests: %v", err)
	}
	if got != 2 {
		t.Fatalf("expected 2 requests, got %f", got)
	}
	if _, err := fetchCounterValue(mfs, "http_requests_total", map[string]string{"route": "unknown", "status": "404"}); err != nil {
		t.Fatalf("expected unknown route label: %v", err)
	}

	mf := findMetricFamily(mfs, "http_request_duration_seconds")
	if mf == nil {
		t.Fatalf("histogram missing")
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), map[string]string{"route": "/api/v1/trips"}) {
			if metric.GetHistogram().GetSampleCount() != 2 {
				t.Fatalf("expected 2 samples, got %d", metric.GetHistogram().GetSampleCount())
			}
			return
		}
	}
	t.Fatalf("histogram sample for route not found")
}

func TestTripMetricsCountsResults(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewTripMetrics(reg)
	m.Operation("create", nil)
	m.Operation("create", errors.New("boom"))
	m.Transition("Scheduled", "InTransit")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "trip_operations_total", map[string]string{"operation": "create", "result": ResultFailure}); err != nil || got != 1 {
		t.Fatalf("expected one failure, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "trip_status_transitions_total", map[string]string{"from": "Scheduled", "to": "InTransit"}); err != nil || got != 1 {
		t.Fatalf("expected one transition, got %f (%v)", got, err)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	NewHTTPMetrics(nil).Observe("GET", "/", 200, time.Second)
	NewTripMetrics(nil).Operation("create", nil)
	var m *TripMetrics
	m.Transition("a", "b")
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

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	for name, value := range want {
		found := false
		for _, pair := range pairs {
			if pair.GetName() == name && pair.GetValue() == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
