package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/resilient/invoke"
)

// Metrics records invocation metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordInvocation records one completed invocation with its outcome,
	// the number of attempts made, and the total wall-clock duration.
	RecordInvocation(ctx context.Context, meta CallMeta, outcome invoke.Outcome, attempts int, duration time.Duration)
}

type metricsImpl struct {
	meter        metric.Meter
	callCount    metric.Int64Counter
	attemptCount metric.Int64Counter
	retryCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates a Metrics instance on the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	callCount, err := meter.Int64Counter(
		"invoke.calls.total",
		metric.WithDescription("Total number of invocations, tagged by outcome"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	attemptCount, err := meter.Int64Counter(
		"invoke.attempts.total",
		metric.WithDescription("Total number of attempts across all invocations"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"invoke.retries.total",
		metric.WithDescription("Total number of retried attempts"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"invoke.duration_ms",
		metric.WithDescription("Invocation duration in milliseconds, all attempts included"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		callCount:    callCount,
		attemptCount: attemptCount,
		retryCount:   retryCount,
		durationHist: durationHist,
	}, nil
}

// RecordInvocation records metrics for one invocation.
func (m *metricsImpl) RecordInvocation(ctx context.Context, meta CallMeta, outcome invoke.Outcome, attempts int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("call.id", meta.ID()),
		attribute.String("call.outcome", outcome.String()),
	}
	opts := metric.WithAttributes(attrs...)

	m.callCount.Add(ctx, 1, opts)
	if attempts > 0 {
		m.attemptCount.Add(ctx, int64(attempts), opts)
	}
	if attempts > 1 {
		m.retryCount.Add(ctx, int64(attempts-1), opts)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opts)
}

// noopMetrics discards all recordings.
type noopMetrics struct{}

// NewNoopMetrics creates a Metrics that records nothing.
func NewNoopMetrics() Metrics {
	return &noopMetrics{}
}

func (m *noopMetrics) RecordInvocation(ctx context.Context, meta CallMeta, outcome invoke.Outcome, attempts int, duration time.Duration) {
}
