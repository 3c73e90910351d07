package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const TracerName = "fieldsync"

// Tracer wraps an OpenTelemetry tracer with sync-specific span starters.
type Tracer struct {
	tracer trace.Tracer
}

func NewTracer(tp trace.TracerProvider) *Tracer {
	return &Tracer{tracer: tp.Tracer(TracerName)}
}

func NewNoopTracer() *Tracer {
	return NewTracer(tracenoop.NewTracerProvider())
}

func (t *Tracer) StartCycle(ctx context.Context) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "fieldsync.cycle")
}

// StartPhase starts a span for one phase of a cycle: push_jobs, push_photos
// or pull.
func (t *Tracer) StartPhase(ctx context.Context, phase string, items int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "fieldsync."+phase, trace.WithAttributes(
		attribute.String("fieldsync.phase", phase),
		attribute.Int("fieldsync.items", items),
	))
}

// EndSpan records err on the span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
