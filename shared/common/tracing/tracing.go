package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pair-programming-backend/shared/common/logger"
)

const instrumentationName = "pair-programming-backend"

var tracer = otel.Tracer(instrumentationName)

// Start opens a span and tags it with the inbound request id when one is known.
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if id := logger.RequestID(ctx); id != "" {
		attrs = append(attrs, attribute.String("request.id", id))
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// End records err on span, if any, and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
