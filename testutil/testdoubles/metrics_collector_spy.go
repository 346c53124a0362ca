package testdoubles

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/AntonStoeckl/lending-registry-go/registry"
)

// Metric record kinds.
const (
	KindDuration = "duration"
	KindCounter  = "counter"
	KindValue    = "value"
)

// SpyMetricRecord represents a recorded metrics call. Duration is set for KindDuration, Value for KindValue.
type SpyMetricRecord struct {
	Kind     string
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
}

// MetricsCollectorSpy is a ContextualMetricsCollector implementation that captures metrics calls for testing.
type MetricsCollectorSpy struct {
	records     []SpyMetricRecord
	mu          sync.Mutex
	recordCalls bool
}

var _ registry.ContextualMetricsCollector = (*MetricsCollectorSpy)(nil)

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy.
func NewMetricsCollectorSpy(recordCalls bool) *MetricsCollectorSpy {
	return &MetricsCollectorSpy{recordCalls: recordCalls}
}

func (s *MetricsCollectorSpy) record(record SpyMetricRecord) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record.Labels = maps.Clone(record.Labels)
	s.records = append(s.records, record)
}

// RecordDuration implements the MetricsCollector interface for testing.
func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: KindDuration, Metric: metric, Duration: duration, Labels: labels})
}

// IncrementCounter implements the MetricsCollector interface for testing.
func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: KindCounter, Metric: metric, Labels: labels})
}

// RecordValue implements the MetricsCollector interface for testing.
func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: KindValue, Metric: metric, Value: value, Labels: labels})
}

// RecordDurationContext implements the ContextualMetricsCollector interface for testing.
func (s *MetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.RecordDuration(metric, duration, labels)
}

// IncrementCounterContext implements the ContextualMetricsCollector interface for testing.
func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.IncrementCounter(metric, labels)
}

// RecordValueContext implements the ContextualMetricsCollector interface for testing.
func (s *MetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.RecordValue(metric, value, labels)
}

// Records returns a copy of all recorded metrics calls in call order.
func (s *MetricsCollectorSpy) Records() []SpyMetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyMetricRecord(nil), s.records...)
}

// RecordsFor returns all records of the given kind and metric whose labels contain every given label.
func (s *MetricsCollectorSpy) RecordsFor(kind, metric string, labels map[string]string) []SpyMetricRecord {
	matching := make([]SpyMetricRecord, 0)

	for _, record := range s.Records() {
		if record.Kind != kind || record.Metric != metric {
			continue
		}

		if containsLabels(record.Labels, labels) {
			matching = append(matching, record)
		}
	}

	return matching
}

// HasCounterRecordFor reports whether the counter metric was incremented for operation with status.
func (s *MetricsCollectorSpy) HasCounterRecordFor(metric, operation, status string) bool {
	return len(s.RecordsFor(KindCounter, metric, registry.BuildOperationLabels(operation, status))) > 0
}

// HasDurationRecordFor reports whether the duration metric was recorded for operation with status.
func (s *MetricsCollectorSpy) HasDurationRecordFor(metric, operation, status string) bool {
	return len(s.RecordsFor(KindDuration, metric, registry.BuildOperationLabels(operation, status))) > 0
}

// Reset clears all recorded metrics calls.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
}

func containsLabels(have, want map[string]string) bool {
	for k, v := range want {
		if have[k] != v {
			return false
		}
	}

	return true
}
