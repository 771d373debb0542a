package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// SpanName is the name of the span wrapping one pipeline execution
const SpanName = "resilience.execute"

// NoopTracer returns a tracer that records nothing
func NoopTracer() trace.Tracer {
	return tracenoop.NewTracerProvider().Tracer("noop")
}

// StartSpan starts the execution span for the named pipeline
func StartSpan(ctx context.Context, tracer trace.Tracer, pipeline string) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = NoopTracer()
	}
	return tracer.Start(ctx, SpanName,
		trace.WithAttributes(attribute.String("resilience.pipeline", pipeline)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan records the outcome kind and error status, then ends the span
func EndSpan(span trace.Span, outcome string, attempts int, err error) {
	span.SetAttributes(
		attribute.String("resilience.outcome", outcome),
		attribute.Int("resilience.attempts", attempts),
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
