package registry

import (
	"context"
	"errors"
)

// Notifier receives every notification the registry raises, in mutation order.
// It is called while the registry holds its write lock, so implementations must not call back into the registry.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(ctx context.Context, notification Notification) error

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, notification Notification) error {
	return f(ctx, notification)
}

// MultiNotifier fans a notification out to several notifiers.
// Every notifier is called even if an earlier one fails; the failures are joined.
type MultiNotifier []Notifier

// Notify passes the notification to all notifiers.
func (m MultiNotifier) Notify(ctx context.Context, notification Notification) error {
	var errs []error

	for _, notifier := range m {
		if err := notifier.Notify(ctx, notification); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
