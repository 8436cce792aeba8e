package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestDomainMetricsExports(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewDomainMetrics(reg)

	metrics.IncPriceResolution("resolved")
	metrics.IncPriceResolution("NO_PRICE_FOR_BAND")
	metrics.ObserveOrderPlaced(3, 120*time.Millisecond)
	metrics.IncOutboxPublished()
	metrics.IncOutboxFailed()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "price_resolutions_total", "outcome", "resolved"); err != nil {
		t.Fatalf("fetch resolutions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected resolved=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "price_resolutions_total", "outcome", "NO_PRICE_FOR_BAND"); err != nil {
		t.Fatalf("fetch resolutions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected NO_PRICE_FOR_BAND=1, got %f", got)
	}

	if got := fetchPlainCounter(mfs, "orders_placed_total"); got != 1 {
		t.Fatalf("expected orders_placed_total=1, got %f", got)
	}
	if got := fetchPlainCounter(mfs, "outbox_published_total"); got != 1 {
		t.Fatalf("expected outbox_published_total=1, got %f", got)
	}
	if got := fetchPlainCounter(mfs, "outbox_publish_failures_total"); got != 1 {
		t.Fatalf("expected outbox_publish_failures_total=1, got %f", got)
	}

	if mf := findMetricFamily(mfs, "checkout_duration_seconds"); mf == nil {
		t.Fatalf("checkout_duration_seconds not exported")
	} else if sum := mf.GetMetric()[0].GetHistogram().GetSampleSum(); sum <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", sum)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *DomainMetrics
	metrics.IncPriceResolution("resolved")
	metrics.ObserveOrderPlaced(1, time.Second)
	metrics.IncOutboxPublished()
	metrics.IncOutboxFailed()

	empty := NewDomainMetrics(nil)
	empty.IncPriceResolution("")
	empty.ObserveOrderPlaced(0, 0)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchPlainCounter(mfs []*dto.MetricFamily, name string) float64 {
	mf := findMetricFamily(mfs, name)
	if mf == nil || len(mf.GetMetric()) == 0 {
		return -1
	}
	return mf.GetMetric()[0].GetCounter().GetValue()
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
