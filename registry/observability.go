package registry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// OperationDurationMetric tracks registry operation duration (OpenTelemetry-compatible).
	OperationDurationMetric = "registry_operation_duration_seconds"

	// OperationCallsMetric tracks total registry operation calls.
	OperationCallsMetric = "registry_operation_calls_total"

	// NotificationFailuresMetric tracks notifications the Notifier failed to accept.
	NotificationFailuresMetric = "registry_notification_failures_total"

	// ItemsTotalMetric tracks the number of registered items.
	ItemsTotalMetric = "registry_items_total"

	// OperationRegisterItem identifies RegisterItem in logs, metrics, and spans.
	OperationRegisterItem = "RegisterItem"

	// OperationBorrowByTitle identifies BorrowByTitle in logs, metrics, and spans.
	OperationBorrowByTitle = "BorrowByTitle"

	// OperationBorrowByID identifies BorrowByID in logs, metrics, and spans.
	OperationBorrowByID = "BorrowByID"

	// OperationReturnByTitle identifies ReturnByTitle in logs, metrics, and spans.
	OperationReturnByTitle = "ReturnByTitle"

	// OperationReturnByID identifies ReturnByID in logs, metrics, and spans.
	OperationReturnByID = "ReturnByID"

	// OperationReplay identifies Replay in logs, metrics, and spans.
	OperationReplay = "Replay"

	// OperationRestore identifies Restore in logs, metrics, and spans.
	OperationRestore = "Restore"

	// StatusSuccess indicates a completed operation.
	StatusSuccess = "success"

	// StatusError indicates a failure that is none of the business rejections below.
	StatusError = "error"

	// StatusInvalidArgument indicates an ErrInvalidArgument rejection.
	StatusInvalidArgument = "invalid_argument"

	// StatusAlreadyExists indicates an ErrAlreadyExists rejection.
	StatusAlreadyExists = "already_exists"

	// StatusNotFound indicates an ErrNotFound rejection.
	StatusNotFound = "not_found"

	// StatusUnavailable indicates an ErrUnavailable rejection.
	StatusUnavailable = "unavailable"

	// StatusAlreadyBorrowed indicates an ErrAlreadyBorrowed rejection.
	StatusAlreadyBorrowed = "already_borrowed"

	// StatusNotBorrowed indicates an ErrNotBorrowed rejection.
	StatusNotBorrowed = "not_borrowed"

	// StatusUnauthorized indicates an ErrUnauthorized rejection.
	StatusUnauthorized = "unauthorized"

	// LogMsgOperationStarted is logged when an operation begins.
	LogMsgOperationStarted = "registry operation started"

	// LogMsgOperationCompleted is logged when an operation succeeds.
	LogMsgOperationCompleted = "registry operation completed"

	// LogMsgOperationFailed is logged when an operation fails.
	LogMsgOperationFailed = "registry operation failed"

	// LogMsgNotificationFailed is logged when the Notifier rejects a notification.
	LogMsgNotificationFailed = "registry notification failed"

	// LogAttrOperation identifies the operation in logs.
	LogAttrOperation = "operation"

	// LogAttrStatus indicates the operation status.
	LogAttrStatus = "status"

	// LogAttrDurationMS indicates the processing duration in milliseconds.
	LogAttrDurationMS = "duration_ms"

	// LogAttrError contains error details.
	LogAttrError = "error"

	// LogAttrNotificationType identifies the notification type in logs.
	LogAttrNotificationType = "notification_type"

	// LogAttrItemID identifies the item in logs.
	LogAttrItemID = "item_id"

	// SpanNamePrefix is prepended to the operation name to build span names.
	SpanNamePrefix = "registry."
)

// Logger interface for basic logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger interface for context-aware logging with automatic trace correlation.
// It is preferred over Logger when both are configured.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// MetricsCollector interface for collecting registry performance and operational metrics.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// ContextualMetricsCollector extends MetricsCollector with context-aware methods for trace correlation.
// The registry uses the context-aware methods when available.
type ContextualMetricsCollector interface {
	MetricsCollector
	RecordDurationContext(ctx context.Context, metric string, duration time.Duration, labels map[string]string)
	IncrementCounterContext(ctx context.Context, metric string, labels map[string]string)
	RecordValueContext(ctx context.Context, metric string, value float64, labels map[string]string)
}

// SpanContext represents an active tracing span that can be finished and updated with attributes.
type SpanContext interface {
	SetStatus(status string)
	AddAttribute(key, value string)
}

// TracingCollector interface for distributed tracing of registry operations.
type TracingCollector interface {
	StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, SpanContext)
	FinishSpan(spanCtx SpanContext, status string, attrs map[string]string)
}

// StatusFor classifies an operation error into one of the Status constants.
func StatusFor(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrInvalidArgument):
		return StatusInvalidArgument
	case errors.Is(err, ErrAlreadyExists):
		return StatusAlreadyExists
	case errors.Is(err, ErrNotFound):
		return StatusNotFound
	case errors.Is(err, ErrUnavailable):
		return StatusUnavailable
	case errors.Is(err, ErrAlreadyBorrowed):
		return StatusAlreadyBorrowed
	case errors.Is(err, ErrNotBorrowed):
		return StatusNotBorrowed
	case errors.Is(err, ErrUnauthorized):
		return StatusUnauthorized
	default:
		return StatusError
	}
}

// BuildOperationLabels creates standard metric labels for registry operations.
func BuildOperationLabels(operation, status string) map[string]string {
	return map[string]string{
		LogAttrOperation: operation,
		LogAttrStatus:    status,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// observer bundles the optional observability collaborators of a LendingRegistry.
// Every method is safe to call with any of them unset.
type observer struct {
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// startOperation logs the start of an operation and opens its span.
// The returned function finishes both and records the operation metrics.
func (o observer) startOperation(ctx context.Context, operation string) (context.Context, func(err error)) {
	start := time.Now()

	var span SpanContext
	if o.tracingCollector != nil {
		ctx, span = o.tracingCollector.StartSpan(ctx, SpanNamePrefix+operation, map[string]string{LogAttrOperation: operation})
	}

	o.debug(ctx, LogMsgOperationStarted, LogAttrOperation, operation)

	return ctx, func(err error) {
		duration := time.Since(start)
		status := StatusFor(err)

		o.recordDuration(ctx, OperationDurationMetric, duration, BuildOperationLabels(operation, status))
		o.incrementCounter(ctx, OperationCallsMetric, BuildOperationLabels(operation, status))

		if o.tracingCollector != nil && span != nil {
			attrs := map[string]string{
				LogAttrStatus:     status,
				LogAttrDurationMS: fmt.Sprintf("%.2f", ToMilliseconds(duration)),
			}
			if err != nil {
				attrs[LogAttrError] = err.Error()
			}

			o.tracingCollector.FinishSpan(span, spanStatus(err), attrs)
		}

		if status == StatusError {
			o.error(ctx, LogMsgOperationFailed,
				LogAttrOperation, operation,
				LogAttrError, err.Error(),
				LogAttrDurationMS, ToMilliseconds(duration))

			return
		}

		// business rejections are logged at info level
		o.info(ctx, LogMsgOperationCompleted,
			LogAttrOperation, operation,
			LogAttrStatus, status,
			LogAttrDurationMS, ToMilliseconds(duration))
	}
}

func (o observer) notificationFailed(ctx context.Context, notification Notification, err error) {
	o.warn(ctx, LogMsgNotificationFailed,
		LogAttrNotificationType, notification.IsNotificationType(),
		LogAttrItemID, notification.AffectedItemID(),
		LogAttrError, err.Error())

	o.incrementCounter(ctx, NotificationFailuresMetric, map[string]string{
		LogAttrNotificationType: notification.IsNotificationType(),
	})
}

func (o observer) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if o.metricsCollector == nil {
		return
	}

	if contextual, ok := o.metricsCollector.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	o.metricsCollector.RecordDuration(metric, duration, labels)
}

func (o observer) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if o.metricsCollector == nil {
		return
	}

	if contextual, ok := o.metricsCollector.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	o.metricsCollector.IncrementCounter(metric, labels)
}

func (o observer) recordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if o.metricsCollector == nil {
		return
	}

	if contextual, ok := o.metricsCollector.(ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	o.metricsCollector.RecordValue(metric, value, labels)
}

func (o observer) debug(ctx context.Context, msg string, args ...any) {
	if o.contextualLogger != nil {
		o.contextualLogger.DebugContext(ctx, msg, args...)
	} else if o.logger != nil {
		o.logger.Debug(msg, args...)
	}
}

func (o observer) info(ctx context.Context, msg string, args ...any) {
	if o.contextualLogger != nil {
		o.contextualLogger.InfoContext(ctx, msg, args...)
	} else if o.logger != nil {
		o.logger.Info(msg, args...)
	}
}

func (o observer) warn(ctx context.Context, msg string, args ...any) {
	if o.contextualLogger != nil {
		o.contextualLogger.WarnContext(ctx, msg, args...)
	} else if o.logger != nil {
		o.logger.Warn(msg, args...)
	}
}

func (o observer) error(ctx context.Context, msg string, args ...any) {
	if o.contextualLogger != nil {
		o.contextualLogger.ErrorContext(ctx, msg, args...)
	} else if o.logger != nil {
		o.logger.Error(msg, args...)
	}
}

// spanStatus maps an operation error to the generic span status strings the tracing adapters understand.
func spanStatus(err error) string {
	switch StatusFor(err) {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "rejected"
	}
}
