package config

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ServiceVersion is reported as the service.version resource attribute.
const ServiceVersion = "0.1.0"

// ObservabilityProviders holds the OpenTelemetry providers of one process.
type ObservabilityProviders struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Resource       *resource.Resource
}

// ObservabilityOption attaches exporters or readers to the providers.
type ObservabilityOption func(*observabilityOptions)

type observabilityOptions struct {
	spanExporters []trace.SpanExporter
	metricReaders []metric.Reader
}

// WithSpanExporter sends finished spans to exporter, synchronously.
func WithSpanExporter(exporter trace.SpanExporter) ObservabilityOption {
	return func(o *observabilityOptions) {
		o.spanExporters = append(o.spanExporters, exporter)
	}
}

// WithMetricReader registers reader with the meter provider.
func WithMetricReader(reader metric.Reader) ObservabilityOption {
	return func(o *observabilityOptions) {
		o.metricReaders = append(o.metricReaders, reader)
	}
}

// NewObservabilityProviders creates tracer and meter providers for serviceName.
// The providers are not registered globally.
func NewObservabilityProviders(
	ctx context.Context,
	serviceName string,
	options ...ObservabilityOption,
) (*ObservabilityProviders, error) {

	collected := observabilityOptions{}
	for _, option := range options {
		option(&collected)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(ServiceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	tracerOptions := []trace.TracerProviderOption{trace.WithResource(res)}
	for _, exporter := range collected.spanExporters {
		tracerOptions = append(tracerOptions, trace.WithSyncer(exporter))
	}

	meterOptions := []metric.Option{metric.WithResource(res)}
	for _, reader := range collected.metricReaders {
		meterOptions = append(meterOptions, metric.WithReader(reader))
	}

	return &ObservabilityProviders{
		TracerProvider: trace.NewTracerProvider(tracerOptions...),
		MeterProvider:  metric.NewMeterProvider(meterOptions...),
		Resource:       res,
	}, nil
}

// Shutdown flushes and stops both providers.
func (p *ObservabilityProviders) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return errors.Join(
		p.TracerProvider.Shutdown(ctx),
		p.MeterProvider.Shutdown(ctx),
	)
}
