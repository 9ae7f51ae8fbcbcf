package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestConsumerMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConsumerMetrics(reg)

	m.IncProcessed("inventory.reserve")
	m.IncProcessed("inventory.reserve")
	m.IncFailed("inventory.release")
	m.IncDropped("")
	m.ObserveDuration("inventory.reserve", 25*time.Millisecond)

	if got := testutil.ToFloat64(m.processed.WithLabelValues("inventory.reserve")); got != 2 {
		t.Fatalf("expected 2 processed, got %v", got)
	}
	if got := testutil.ToFloat64(m.failed.WithLabelValues("inventory.release")); got != 1 {
		t.Fatalf("expected 1 failed, got %v", got)
	}
	if got := testutil.ToFloat64(m.dropped.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("expected empty topic to be normalized, got %v", got)
	}
}

func TestConsumerMetricsNilSafe(t *testing.T) {
	var m *ConsumerMetrics
	m.IncProcessed("inventory.reserve")
	m.IncFailed("inventory.reserve")
	m.IncDropped("inventory.reserve")
	m.ObserveDuration("inventory.reserve", time.Second)

	unregistered := NewConsumerMetrics(nil)
	unregistered.IncProcessed("inventory.reserve")
}
