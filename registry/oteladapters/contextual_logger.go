package oteladapters

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log"

	"github.com/AntonStoeckl/lending-registry-go/registry"
)

// SlogBridgeLogger implements registry.ContextualLogger on top of log/slog.
// Built with NewSlogBridgeLogger it routes records through the OpenTelemetry slog bridge,
// which attaches the trace and span ids found in the context.
type SlogBridgeLogger struct {
	logger *slog.Logger
}

var _ registry.ContextualLogger = (*SlogBridgeLogger)(nil)

// NewSlogBridgeLogger creates a logger that emits through the global OpenTelemetry LoggerProvider.
func NewSlogBridgeLogger(name string) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: otelslog.NewLogger(name)}
}

// NewSlogBridgeLoggerWithHandler creates a logger that writes to handler as-is, without trace correlation.
func NewSlogBridgeLoggerWithHandler(handler slog.Handler) *SlogBridgeLogger {
	return &SlogBridgeLogger{logger: slog.New(handler)}
}

// DebugContext logs at debug level.
func (l *SlogBridgeLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

// InfoContext logs at info level.
func (l *SlogBridgeLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

// WarnContext logs at warn level.
func (l *SlogBridgeLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

// ErrorContext logs at error level.
func (l *SlogBridgeLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, args...)
}

// Slog exposes the underlying *slog.Logger, e.g. for components that take the plain Logger interface.
func (l *SlogBridgeLogger) Slog() *slog.Logger {
	return l.logger
}

// OTelLogger implements registry.ContextualLogger by emitting OpenTelemetry log records directly.
type OTelLogger struct {
	logger log.Logger
}

var _ registry.ContextualLogger = (*OTelLogger)(nil)

// NewOTelLogger creates a logger that emits records to logger.
func NewOTelLogger(logger log.Logger) *OTelLogger {
	return &OTelLogger{logger: logger}
}

// DebugContext emits a record with debug severity.
func (l *OTelLogger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityDebug, msg, args)
}

// InfoContext emits a record with info severity.
func (l *OTelLogger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityInfo, msg, args)
}

// WarnContext emits a record with warn severity.
func (l *OTelLogger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityWarn, msg, args)
}

// ErrorContext emits a record with error severity.
func (l *OTelLogger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.emit(ctx, log.SeverityError, msg, args)
}

func (l *OTelLogger) emit(ctx context.Context, severity log.Severity, msg string, args []any) {
	record := log.Record{}
	record.SetSeverity(severity)
	record.SetBody(log.StringValue(msg))
	record.AddAttributes(keyValues(args)...)

	l.logger.Emit(ctx, record)
}

// keyValues converts slog-style alternating key/value args; a trailing key without a value is dropped.
func keyValues(args []any) []log.KeyValue {
	kvs := make([]log.KeyValue, 0, len(args)/2)

	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}

		kvs = append(kvs, keyValue(key, args[i+1]))
	}

	return kvs
}

func keyValue(key string, value any) log.KeyValue {
	switch v := value.(type) {
	case string:
		return log.String(key, v)
	case int:
		return log.Int(key, v)
	case uint:
		return log.Int64(key, int64(v))
	case int64:
		return log.Int64(key, v)
	case float64:
		return log.Float64(key, v)
	case bool:
		return log.Bool(key, v)
	default:
		return log.String(key, slog.AnyValue(v).String())
	}
}
