package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// CallMeta identifies an invocation for telemetry purposes.
type CallMeta struct {
	Name    string   // logical operation name (required)
	Target  string   // dependency being invoked (optional)
	Version string   // target version (optional)
	Tags    []string // free-form tags (optional)
}

// SpanName returns the deterministic span name for this call.
// Format: invoke.<target>.<name> or invoke.<name>
func (m CallMeta) SpanName() string {
	if m.Target != "" {
		return "invoke." + m.Target + "." + m.Name
	}
	return "invoke." + m.Name
}

// ID returns the fully qualified call identifier.
func (m CallMeta) ID() string {
	if m.Target != "" {
		return m.Target + "." + m.Name
	}
	return m.Name
}

// Tracer wraps OpenTelemetry tracing with invocation span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for an invocation.
	StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span)

	// AddAttempt records a retry boundary on the span.
	AddAttempt(span trace.Span, attempt int, err error)

	// EndSpan ends the span, recording the attempt count and any error.
	EndSpan(span trace.Span, attempts int, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with call metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("call.id", meta.ID()),
		attribute.String("call.name", meta.Name),
	}
	if meta.Target != "" {
		attrs = append(attrs, attribute.String("call.target", meta.Target))
	}
	if meta.Version != "" {
		attrs = append(attrs, attribute.String("call.version", meta.Version))
	}
	if len(meta.Tags) > 0 {
		attrs = append(attrs, attribute.StringSlice("call.tags", meta.Tags))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// AddAttempt records a timed-out attempt as a span event.
func (t *tracerImpl) AddAttempt(span trace.Span, attempt int, err error) {
	span.AddEvent("invoke.retry",
		trace.WithAttributes(
			attribute.Int("call.attempt", attempt),
			attribute.String("call.attempt_error", err.Error()),
		),
	)
}

// EndSpan ends the span with the attempt count and error status.
func (t *tracerImpl) EndSpan(span trace.Span, attempts int, err error) {
	span.SetAttributes(attribute.Int("call.attempts", attempts))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// NewNoopTracer creates a no-op tracer.
func NewNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) AddAttempt(span trace.Span, attempt int, err error) {}

func (t *noopTracer) EndSpan(span trace.Span, attempts int, err error) {
	span.End()
}
