package observe

import (
	"context"
	"errors"
	"time"

	"github.com/jonwraymond/resilient/invoke"
)

// Middleware attaches tracing, metrics, and logging to invocations.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Context: propagates the span context into the operation.
//   - Errors: errors from the invoker are recorded and propagated
//     unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware from the given components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// FromObserver creates a Middleware wired to an Observer's tracer,
// meter and logger.
func FromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Invoke runs op through inv under a span named for meta, logging retry
// waits with their attempt number and recording outcome-tagged metrics.
func Invoke[T any](ctx context.Context, m *Middleware, meta CallMeta, inv *invoke.Invoker[T], op invoke.Operation[T]) (T, error) {
	if meta.Name == "" {
		var zero T
		return zero, ErrMissingCallName
	}

	ctx, span := m.tracer.StartSpan(ctx, meta)
	logger := m.logger.WithCall(meta)
	start := time.Now()

	// Layer retry logging onto whatever hook the caller configured. The
	// hook also tracks how many retries preceded a success, which the
	// invoker only reports for failures.
	retries := 0
	cfg := inv.Config()
	callerOnRetry := cfg.OnRetry
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		retries = attempt
		m.tracer.AddAttempt(span, attempt, err)
		logger.Warn(ctx, "invocation attempt timed out, retrying",
			Field{Key: "attempt", Value: attempt},
			Field{Key: "delay_ms", Value: float64(delay.Milliseconds())},
		)
		if callerOnRetry != nil {
			callerOnRetry(attempt, err, delay)
		}
	}

	value, err := invoke.New[T](cfg).Do(ctx, op)
	duration := time.Since(start)

	outcome := invoke.OutcomeOf(err)
	attempts := retries + 1
	var ie *invoke.Error
	if errors.As(err, &ie) {
		attempts = ie.Attempts
	}

	m.tracer.EndSpan(span, attempts, err)
	m.metrics.RecordInvocation(ctx, meta, outcome, attempts, duration)

	fields := []Field{
		{Key: "outcome", Value: outcome.String()},
		{Key: "attempts", Value: attempts},
		{Key: "duration_ms", Value: float64(duration.Milliseconds())},
	}
	if err != nil {
		fields = append(fields, Field{Key: "error", Value: err.Error()})
		logger.Error(ctx, "invocation failed", fields...)
	} else {
		logger.Info(ctx, "invocation completed", fields...)
	}

	return value, err
}
