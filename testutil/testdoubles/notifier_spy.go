package testdoubles

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/lending-registry-go/registry"
)

// NotifierSpy is a Notifier implementation that captures notifications for testing.
// It can be told to fail, in which case it still records the notification and returns the configured error.
type NotifierSpy struct {
	notifications registry.Notifications
	failWith      error
	mu            sync.Mutex
}

var _ registry.Notifier = (*NotifierSpy)(nil)

// NewNotifierSpy creates a new NotifierSpy.
func NewNotifierSpy() *NotifierSpy {
	return &NotifierSpy{}
}

// FailWith makes every following Notify call return err. Pass nil to succeed again.
func (s *NotifierSpy) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failWith = err
}

// Notify implements the Notifier interface for testing.
func (s *NotifierSpy) Notify(_ context.Context, notification registry.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = append(s.notifications, notification)

	return s.failWith
}

// Notifications returns a copy of all received notifications in delivery order.
func (s *NotifierSpy) Notifications() registry.Notifications {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append(registry.Notifications(nil), s.notifications...)
}

// NotificationTypes returns the type identifiers of all received notifications in delivery order.
func (s *NotifierSpy) NotificationTypes() []string {
	notifications := s.Notifications()
	types := make([]string, 0, len(notifications))

	for _, notification := range notifications {
		types = append(types, notification.IsNotificationType())
	}

	return types
}

// Reset clears all received notifications.
func (s *NotifierSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = nil
}
