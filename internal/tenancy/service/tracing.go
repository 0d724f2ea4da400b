package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/abyford453/FleetGuard/internal/tenancy/metrics"
)

const tracerName = "github.com/abyford453/FleetGuard/internal/tenancy/service"

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan closes span with the outcome of err. Rejections are expected
// outcomes: they are counted and tagged but do not mark the span failed.
func endSpan(span trace.Span, m *metrics.Metrics, err error) {
	defer span.End()

	if err == nil {
		return
	}
	if r, ok := AsRejection(err); ok {
		m.IncRejection(r.Code)
		span.SetAttributes(
			attribute.String("rejection.code", r.Code),
			attribute.String("rejection.class", r.Class.String()),
		)
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
