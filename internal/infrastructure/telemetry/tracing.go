package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name of application spans
const TracerName = "storefront"

// Span attribute keys used by application services
const (
	AttrOrderID     = "order_id"
	AttrOrderNumber = "order_number"
	AttrOrderStatus = "order_status"
	AttrOwnerKind   = "owner_kind"
	AttrProductID   = "product_id"
	AttrQuantity    = "quantity"
	AttrEventType   = "event_type"
)

// StartServiceSpan starts a span named {service}.{method}.
// The caller must end the span.
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "order", "place")
//	defer span.End()
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx,
		fmt.Sprintf("%s.%s", service, method),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError records err on the span and marks it failed. Nil errors are ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// End records err, if any, and ends the span. Meant for defer with a named error result.
func End(span trace.Span, err *error) {
	if err != nil {
		RecordError(span, *err)
	}
	span.End()
}
