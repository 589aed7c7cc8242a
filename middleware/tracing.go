package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/simflow/event"
)

// tracerName is the instrumentation scope name for simflow traces.
const tracerName = "github.com/xraph/simflow"

// Tracing returns middleware that wraps event processing in an OTel span
// using the global TracerProvider. If no TracerProvider is configured,
// noop spans are created and this middleware is effectively free.
func Tracing() Middleware {
	tracer := otel.Tracer(tracerName)
	return TracingWithTracer(tracer)
}

// TracingWithTracer returns tracing middleware using the provided tracer.
// This variant allows injecting a specific TracerProvider for testing.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, e *event.Event, next Handler) error {
		ctx, span := tracer.Start(ctx, "simflow.event.process",
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(
				attribute.String("event.id", e.ID.String()),
				attribute.String("run.id", e.RunID.String()),
				attribute.Int("event.seq", e.Seq),
				attribute.Int("event.tracks", len(e.Tracks)),
			),
		)
		defer span.End()

		err := next(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}
