package journal

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/lending-registry-go/registry"
)

// MemoryJournal keeps journaled notifications in memory. It is safe for concurrent use.
type MemoryJournal struct {
	mu      sync.RWMutex
	entries StorableNotifications
}

var _ Journal = (*MemoryJournal)(nil)

// NewMemoryJournal creates an empty MemoryJournal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

// Notify implements registry.Notifier by appending the notification.
func (j *MemoryJournal) Notify(ctx context.Context, notification registry.Notification) error {
	storable, err := StorableNotificationFrom(notification, BuildMetadata(ctx))
	if err != nil {
		return err
	}

	return j.Append(ctx, storable)
}

// Append stores storable after all previously appended notifications.
func (j *MemoryJournal) Append(_ context.Context, storable StorableNotification) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = append(j.entries, storable)

	return nil
}

// Query returns the matching notifications in append order.
func (j *MemoryJournal) Query(_ context.Context, filter QueryFilter) (StorableNotifications, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	matching := make(StorableNotifications, 0)

	for _, storable := range j.entries {
		if filter.Matches(storable) {
			matching = append(matching, storable)
		}
	}

	return matching, nil
}

// Len returns the number of journaled notifications.
func (j *MemoryJournal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return len(j.entries)
}
