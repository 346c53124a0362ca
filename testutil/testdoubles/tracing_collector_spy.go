package testdoubles

import (
	"context"
	"maps"
	"sync"

	"github.com/AntonStoeckl/lending-registry-go/registry"
)

// SpySpanContext implements registry.SpanContext for testing.
type SpySpanContext struct {
	status     string
	attributes map[string]string
	mu         sync.Mutex
}

// SetStatus implements the SpanContext interface for testing.
func (c *SpySpanContext) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
}

// AddAttribute implements the SpanContext interface for testing.
func (c *SpySpanContext) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attributes == nil {
		c.attributes = make(map[string]string)
	}

	c.attributes[key] = value
}

// Status returns the status set via SetStatus.
func (c *SpySpanContext) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status
}

// Attributes returns a copy of the attributes added via AddAttribute.
func (c *SpySpanContext) Attributes() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return maps.Clone(c.attributes)
}

// SpySpanRecord represents a finished span.
type SpySpanRecord struct {
	Name            string
	StartAttributes map[string]string
	Status          string
	EndAttributes   map[string]string
}

// TracingCollectorSpy is a TracingCollector implementation that captures finished spans for testing.
type TracingCollectorSpy struct {
	started     map[*SpySpanContext]SpySpanRecord
	finished    []SpySpanRecord
	mu          sync.Mutex
	recordCalls bool
}

var _ registry.TracingCollector = (*TracingCollectorSpy)(nil)

// NewTracingCollectorSpy creates a new TracingCollectorSpy.
func NewTracingCollectorSpy(recordCalls bool) *TracingCollectorSpy {
	return &TracingCollectorSpy{
		started:     make(map[*SpySpanContext]SpySpanRecord),
		recordCalls: recordCalls,
	}
}

// StartSpan implements the TracingCollector interface for testing.
func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, registry.SpanContext) {
	span := &SpySpanContext{}

	if !s.recordCalls {
		return ctx, span
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.started[span] = SpySpanRecord{Name: name, StartAttributes: maps.Clone(attrs)}

	return ctx, span
}

// FinishSpan implements the TracingCollector interface for testing.
func (s *TracingCollectorSpy) FinishSpan(spanCtx registry.SpanContext, status string, attrs map[string]string) {
	if !s.recordCalls {
		return
	}

	span, ok := spanCtx.(*SpySpanContext)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.started[span]
	if !ok {
		return
	}

	delete(s.started, span)

	record.Status = status
	record.EndAttributes = maps.Clone(attrs)
	s.finished = append(s.finished, record)
}

// SpanRecords returns a copy of all finished spans in finishing order.
func (s *TracingCollectorSpy) SpanRecords() []SpySpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpySpanRecord(nil), s.finished...)
}

// SpanRecordsNamed returns all finished spans with the given name.
func (s *TracingCollectorSpy) SpanRecordsNamed(name string) []SpySpanRecord {
	matching := make([]SpySpanRecord, 0)

	for _, record := range s.SpanRecords() {
		if record.Name == name {
			matching = append(matching, record)
		}
	}

	return matching
}

// OpenSpanCount returns the number of spans started but not yet finished.
func (s *TracingCollectorSpy) OpenSpanCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.started)
}

// Reset clears all recorded spans.
func (s *TracingCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.started = make(map[*SpySpanContext]SpySpanRecord)
	s.finished = nil
}
