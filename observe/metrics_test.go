package observe

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jonwraymond/resilient/invoke"
)

func newTestMetrics(t *testing.T) (Metrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() = %v", err)
	}
	return m, reader
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, scope := range rm.ScopeMetrics {
		for i := range scope.Metrics {
			if scope.Metrics[i].Name == name {
				return &scope.Metrics[i]
			}
		}
	}
	return nil
}

func sumValue(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()

	m := findMetric(rm, name)
	if m == nil {
		t.Fatalf("%s metric not found", name)
	}
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s data is %T, want Sum[int64]", name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetrics_RecordInvocation_Success(t *testing.T) {
	m, reader := newTestMetrics(t)
	meta := CallMeta{Name: "fetch", Target: "api"}

	m.RecordInvocation(context.Background(), meta, invoke.OutcomeSuccess, 1, 50*time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() = %v", err)
	}

	if got := sumValue(t, rm, "invoke.calls.total"); got != 1 {
		t.Errorf("invoke.calls.total = %d, want 1", got)
	}
	if got := sumValue(t, rm, "invoke.attempts.total"); got != 1 {
		t.Errorf("invoke.attempts.total = %d, want 1", got)
	}
	if findMetric(rm, "invoke.retries.total") != nil {
		t.Error("invoke.retries.total recorded for a single-attempt call")
	}
}

func TestMetrics_RecordInvocation_Retried(t *testing.T) {
	m, reader := newTestMetrics(t)
	meta := CallMeta{Name: "fetch"}

	m.RecordInvocation(context.Background(), meta, invoke.OutcomeTimedOut, 3, 400*time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() = %v", err)
	}

	if got := sumValue(t, rm, "invoke.attempts.total"); got != 3 {
		t.Errorf("invoke.attempts.total = %d, want 3", got)
	}
	if got := sumValue(t, rm, "invoke.retries.total"); got != 2 {
		t.Errorf("invoke.retries.total = %d, want 2", got)
	}
}

func TestMetrics_RecordInvocation_ZeroAttempts(t *testing.T) {
	// A pre-cancelled call makes no attempts; the counters must not
	// move backwards or record phantom attempts.
	m, reader := newTestMetrics(t)
	meta := CallMeta{Name: "fetch"}

	m.RecordInvocation(context.Background(), meta, invoke.OutcomeCancelled, 0, time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() = %v", err)
	}

	if got := sumValue(t, rm, "invoke.calls.total"); got != 1 {
		t.Errorf("invoke.calls.total = %d, want 1", got)
	}
	if findMetric(rm, "invoke.attempts.total") != nil {
		t.Error("invoke.attempts.total recorded for a zero-attempt call")
	}
}

func TestMetrics_DurationHistogram(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordInvocation(context.Background(), CallMeta{Name: "fetch"}, invoke.OutcomeSuccess, 1, 120*time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() = %v", err)
	}

	found := findMetric(rm, "invoke.duration_ms")
	if found == nil {
		t.Fatal("invoke.duration_ms metric not found")
	}
	hist, ok := found.Data.(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("data is %T, want Histogram[float64]", found.Data)
	}
	if len(hist.DataPoints) == 0 || hist.DataPoints[0].Count != 1 {
		t.Error("histogram did not record the invocation")
	}
}

func TestNoopMetrics(t *testing.T) {
	// Must not panic.
	NewNoopMetrics().RecordInvocation(context.Background(), CallMeta{Name: "x"}, invoke.OutcomeFailed, 1, time.Second)
}
