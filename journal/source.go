package journal

import (
	"context"

	"github.com/AntonStoeckl/lending-registry-go/registry"
)

// Source returns journaled notifications in the order they were appended.
type Source interface {
	Query(ctx context.Context, filter QueryFilter) (StorableNotifications, error)
}

// Journal is a Source that also accepts the notifications of a registry.
type Journal interface {
	registry.Notifier
	Source
}

// Rehydrate loads every notification from source and replays it into r.
// It returns the number of replayed notifications.
func Rehydrate(ctx context.Context, source Source, r *registry.LendingRegistry) (int, error) {
	if source == nil {
		return 0, ErrNilSource
	}

	if r == nil {
		return 0, ErrNilRegistry
	}

	storables, err := source.Query(ctx, MatchingAll())
	if err != nil {
		return 0, err
	}

	notifications, err := NotificationsFrom(storables)
	if err != nil {
		return 0, err
	}

	if err := r.Replay(ctx, notifications...); err != nil {
		return 0, err
	}

	return len(notifications), nil
}
