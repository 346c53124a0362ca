package oteladapters

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/AntonStoeckl/lending-registry-go/registry"
)

// MetricsCollector implements registry.ContextualMetricsCollector with OpenTelemetry instruments:
//   - RecordDuration -> Float64Histogram in seconds
//   - IncrementCounter -> Int64Counter
//   - RecordValue -> Float64Gauge
//
// Instruments are created on first use and cached per metric name.
type MetricsCollector struct {
	meter      metric.Meter
	mu         sync.Mutex
	histograms map[string]metric.Float64Histogram
	counters   map[string]metric.Int64Counter
	gauges     map[string]metric.Float64Gauge
}

var _ registry.ContextualMetricsCollector = (*MetricsCollector)(nil)

// NewMetricsCollector creates a collector that creates its instruments from meter.
func NewMetricsCollector(meter metric.Meter) *MetricsCollector {
	return &MetricsCollector{
		meter:      meter,
		histograms: make(map[string]metric.Float64Histogram),
		counters:   make(map[string]metric.Int64Counter),
		gauges:     make(map[string]metric.Float64Gauge),
	}
}

// RecordDuration records duration in seconds.
func (m *MetricsCollector) RecordDuration(metricName string, duration time.Duration, labels map[string]string) {
	m.RecordDurationContext(context.Background(), metricName, duration, labels)
}

// RecordDurationContext records duration in seconds with context for exemplar correlation.
func (m *MetricsCollector) RecordDurationContext(ctx context.Context, metricName string, duration time.Duration, labels map[string]string) {
	histogram := m.histogram(metricName)
	if histogram == nil {
		return
	}

	histogram.Record(ctx, duration.Seconds(), metric.WithAttributes(attributes(labels)...))
}

// IncrementCounter adds one to the counter.
func (m *MetricsCollector) IncrementCounter(metricName string, labels map[string]string) {
	m.IncrementCounterContext(context.Background(), metricName, labels)
}

// IncrementCounterContext adds one to the counter with context for exemplar correlation.
func (m *MetricsCollector) IncrementCounterContext(ctx context.Context, metricName string, labels map[string]string) {
	counter := m.counter(metricName)
	if counter == nil {
		return
	}

	counter.Add(ctx, 1, metric.WithAttributes(attributes(labels)...))
}

// RecordValue sets the gauge to value.
func (m *MetricsCollector) RecordValue(metricName string, value float64, labels map[string]string) {
	m.RecordValueContext(context.Background(), metricName, value, labels)
}

// RecordValueContext sets the gauge to value with context for exemplar correlation.
func (m *MetricsCollector) RecordValueContext(ctx context.Context, metricName string, value float64, labels map[string]string) {
	gauge := m.gauge(metricName)
	if gauge == nil {
		return
	}

	gauge.Record(ctx, value, metric.WithAttributes(attributes(labels)...))
}

func (m *MetricsCollector) histogram(name string) metric.Float64Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()

	if histogram, exists := m.histograms[name]; exists {
		return histogram
	}

	histogram, err := m.meter.Float64Histogram(name, metric.WithDescription(description(name)), metric.WithUnit("s"))
	if err != nil {
		return nil
	}

	m.histograms[name] = histogram

	return histogram
}

func (m *MetricsCollector) counter(name string) metric.Int64Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if counter, exists := m.counters[name]; exists {
		return counter
	}

	counter, err := m.meter.Int64Counter(name, metric.WithDescription(description(name)))
	if err != nil {
		return nil
	}

	m.counters[name] = counter

	return counter
}

func (m *MetricsCollector) gauge(name string) metric.Float64Gauge {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gauge, exists := m.gauges[name]; exists {
		return gauge
	}

	gauge, err := m.meter.Float64Gauge(name, metric.WithDescription(description(name)))
	if err != nil {
		return nil
	}

	m.gauges[name] = gauge

	return gauge
}

func description(metricName string) string {
	switch metricName {
	case registry.OperationDurationMetric:
		return "Lending registry operation duration"
	case registry.OperationCallsMetric:
		return "Lending registry operation calls"
	case registry.NotificationFailuresMetric:
		return "Notifications the notifier did not accept"
	case registry.ItemsTotalMetric:
		return "Registered catalog items"
	default:
		return "Lending registry metric"
	}
}

func attributes(labels map[string]string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for key, value := range labels {
		attrs = append(attrs, attribute.String(key, value))
	}

	return attrs
}
