package oteladapters

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/lending-registry-go/registry"
)

// RejectedAttribute marks spans of operations that ended in a business rejection.
const RejectedAttribute = "registry.rejected"

// TracingCollector implements registry.TracingCollector with an OpenTelemetry tracer.
type TracingCollector struct {
	tracer trace.Tracer
}

var _ registry.TracingCollector = (*TracingCollector)(nil)

// NewTracingCollector creates a collector that starts its spans from tracer.
func NewTracingCollector(tracer trace.Tracer) *TracingCollector {
	return &TracingCollector{tracer: tracer}
}

// StartSpan starts a span with attrs and returns the context carrying it.
func (t *TracingCollector) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, registry.SpanContext) {
	spanCtx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attributes(attrs)...))

	return spanCtx, &OTelSpanContext{span: span}
}

// FinishSpan adds attrs, sets the status, and ends the span. Spans not started by this collector are ignored.
func (t *TracingCollector) FinishSpan(spanCtx registry.SpanContext, status string, attrs map[string]string) {
	otelSpanCtx, ok := spanCtx.(*OTelSpanContext)
	if !ok {
		return
	}

	otelSpanCtx.span.SetAttributes(attributes(attrs)...)
	otelSpanCtx.SetStatus(status)
	otelSpanCtx.span.End()
}

// OTelSpanContext implements registry.SpanContext by wrapping an OpenTelemetry span.
type OTelSpanContext struct {
	span trace.Span
}

var _ registry.SpanContext = (*OTelSpanContext)(nil)

// SetStatus maps a status string to the span status.
// "rejected" leaves the status unset and sets RejectedAttribute instead.
func (s *OTelSpanContext) SetStatus(status string) {
	switch status {
	case "ok", "success":
		s.span.SetStatus(codes.Ok, "")
	case "error":
		s.span.SetStatus(codes.Error, "Operation failed")
	case "rejected":
		s.span.SetAttributes(attribute.Bool(RejectedAttribute, true))
	default:
		s.span.SetAttributes(attribute.String("status", status))
	}
}

// AddAttribute adds a string attribute to the span.
func (s *OTelSpanContext) AddAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}
