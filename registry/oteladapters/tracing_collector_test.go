package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/lending-registry-go/registry/oteladapters"
)

func newTracer() (*tracetest.InMemoryExporter, *oteladapters.TracingCollector) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return exporter, oteladapters.NewTracingCollector(provider.Tracer("test"))
}

func spanAttribute(span tracetest.SpanStub, key string) (attribute.Value, bool) {
	for _, attr := range span.Attributes {
		if string(attr.Key) == key {
			return attr.Value, true
		}
	}

	return attribute.Value{}, false
}

func Test_TracingCollector_StatusMapping(t *testing.T) {
	testCases := []struct {
		status       string
		expectedCode codes.Code
		rejected     bool
	}{
		{status: "success", expectedCode: codes.Ok},
		{status: "ok", expectedCode: codes.Ok},
		{status: "error", expectedCode: codes.Error},
		{status: "rejected", expectedCode: codes.Unset, rejected: true},
		{status: "something-else", expectedCode: codes.Unset},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			// arrange
			exporter, collector := newTracer()

			// act
			_, span := collector.StartSpan(context.Background(), "registry.BorrowByID", map[string]string{"operation": "BorrowByID"})
			collector.FinishSpan(span, tc.status, map[string]string{"status": "detail"})

			// assert
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, "registry.BorrowByID", spans[0].Name)
			assert.Equal(t, tc.expectedCode, spans[0].Status.Code)

			operation, ok := spanAttribute(spans[0], "operation")
			require.True(t, ok)
			assert.Equal(t, "BorrowByID", operation.AsString())

			rejected, ok := spanAttribute(spans[0], oteladapters.RejectedAttribute)
			assert.Equal(t, tc.rejected, ok && rejected.AsBool())
		})
	}
}

func Test_TracingCollector_StartSpan_PropagatesContext(t *testing.T) {
	// arrange
	exporter, collector := newTracer()

	// act
	ctx, parent := collector.StartSpan(context.Background(), "parent", nil)
	_, child := collector.StartSpan(ctx, "child", nil)
	child.AddAttribute("item_id", "3")
	collector.FinishSpan(child, "success", nil)
	collector.FinishSpan(parent, "success", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanContext.TraceID(), spans[0].SpanContext.TraceID())
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())

	itemID, ok := spanAttribute(spans[0], "item_id")
	require.True(t, ok)
	assert.Equal(t, "3", itemID.AsString())
}
