package testdoubles

import (
	"context"
	"sync"
)

// Log levels as recorded by the logger spies.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// SpyLogRecord represents a recorded log call.
type SpyLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// Arg returns the value logged for key, and whether the key was present.
func (r SpyLogRecord) Arg(key string) (any, bool) {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if k, ok := r.Args[i].(string); ok && k == key {
			return r.Args[i+1], true
		}
	}

	return nil, false
}

type logRecorder struct {
	records     []SpyLogRecord
	mu          sync.Mutex
	recordCalls bool
}

func (l *logRecorder) record(ctx context.Context, level, msg string, args []any) {
	if !l.recordCalls {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, SpyLogRecord{
		Level:   level,
		Message: msg,
		Args:    append([]any(nil), args...),
		Context: ctx,
	})
}

// Records returns a copy of all recorded log calls in call order.
func (l *logRecorder) Records() []SpyLogRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]SpyLogRecord(nil), l.records...)
}

// RecordsAtLevel returns a copy of all recorded log calls with the given level.
func (l *logRecorder) RecordsAtLevel(level string) []SpyLogRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	matching := make([]SpyLogRecord, 0)

	for _, record := range l.records {
		if record.Level == level {
			matching = append(matching, record)
		}
	}

	return matching
}

// HasLog reports whether a log call with the given level and message was recorded.
func (l *logRecorder) HasLog(level, message string) bool {
	for _, record := range l.RecordsAtLevel(level) {
		if record.Message == message {
			return true
		}
	}

	return false
}

// Reset clears all recorded log calls.
func (l *logRecorder) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = nil
}

// LoggerSpy is a Logger implementation that captures logging calls for testing.
type LoggerSpy struct {
	logRecorder
}

// NewLoggerSpy creates a new LoggerSpy.
func NewLoggerSpy(recordCalls bool) *LoggerSpy {
	return &LoggerSpy{logRecorder: logRecorder{recordCalls: recordCalls}}
}

// Debug implements the Logger interface for testing.
func (s *LoggerSpy) Debug(msg string, args ...any) {
	s.record(context.Background(), LevelDebug, msg, args)
}

// Info implements the Logger interface for testing.
func (s *LoggerSpy) Info(msg string, args ...any) {
	s.record(context.Background(), LevelInfo, msg, args)
}

// Warn implements the Logger interface for testing.
func (s *LoggerSpy) Warn(msg string, args ...any) {
	s.record(context.Background(), LevelWarn, msg, args)
}

// Error implements the Logger interface for testing.
func (s *LoggerSpy) Error(msg string, args ...any) {
	s.record(context.Background(), LevelError, msg, args)
}

// ContextualLoggerSpy is a ContextualLogger implementation that captures contextual logging calls for testing.
type ContextualLoggerSpy struct {
	logRecorder
}

// NewContextualLoggerSpy creates a new ContextualLoggerSpy.
func NewContextualLoggerSpy(recordCalls bool) *ContextualLoggerSpy {
	return &ContextualLoggerSpy{logRecorder: logRecorder{recordCalls: recordCalls}}
}

// DebugContext implements the ContextualLogger interface for testing.
func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, LevelDebug, msg, args)
}

// InfoContext implements the ContextualLogger interface for testing.
func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, LevelInfo, msg, args)
}

// WarnContext implements the ContextualLogger interface for testing.
func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, LevelWarn, msg, args)
}

// ErrorContext implements the ContextualLogger interface for testing.
func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, LevelError, msg, args)
}
