package registry_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-registry-go/registry"
	"github.com/AntonStoeckl/lending-registry-go/testutil/testdoubles"
)

type unknownNotification struct{}

func (unknownNotification) IsNotificationType() string      { return "Unknown" }
func (unknownNotification) HasOccurredAt() time.Time        { return time.Time{} }
func (unknownNotification) AffectedItemID() registry.ItemID { return 0 }

func Test_LendingRegistry_Replay_RebuildsTheSameState(t *testing.T) {
	// arrange
	ctx := context.Background()
	adminID := uuid.New()
	userA, userB := uuid.New(), uuid.New()
	notifier := testdoubles.NewNotifierSpy()
	source := givenRegistry(t, adminID, registry.WithNotifier(notifier))

	givenRegisteredItem(t, source, adminID, "Book 1", 2)
	givenRegisteredItem(t, source, adminID, "Book 2", 1)
	_, _ = source.BorrowByTitle(ctx, "Book 1", userA, fixedNow.Add(time.Hour))
	_, _ = source.BorrowByTitle(ctx, "Book 2", userB, fixedNow.Add(2*time.Hour))
	_, _ = source.ReturnByTitle(ctx, "Book 1", userA, fixedNow.Add(3*time.Hour))
	_, _ = source.BorrowByTitle(ctx, "Book 1", userA, fixedNow.Add(4*time.Hour))

	replayNotifier := testdoubles.NewNotifierSpy()
	target := givenRegistry(t, uuid.New(), registry.WithNotifier(replayNotifier))

	// act
	err := target.Replay(ctx, notifier.Notifications()...)

	// assert
	require.NoError(t, err)
	assert.Equal(t, source.ListItems(), target.ListItems())
	assert.Equal(t, source.GetBorrowHistory(0), target.GetBorrowHistory(0))
	assert.Equal(t, source.GetBorrowHistory(1), target.GetBorrowHistory(1))
	assert.Equal(t, source.GetBorrowState(userA, 0), target.GetBorrowState(userA, 0))
	assert.Equal(t, source.GetBorrowState(userB, 1), target.GetBorrowState(userB, 1))
	assert.Empty(t, replayNotifier.Notifications(), "replayed notifications are not raised again")
}

func Test_LendingRegistry_Replay_IsAllOrNothing(t *testing.T) {
	// arrange
	ctx := context.Background()
	adminID := uuid.New()
	r := givenRegistry(t, adminID)
	givenRegisteredItem(t, r, adminID, "Existing", 1)

	borrowerID := uuid.New()
	notifications := registry.Notifications{
		registry.BuildItemRegistered(registry.Item{ID: 1, Title: "Book 1", AvailableCopiesCount: 1}, fixedNow),
		registry.BuildItemBorrowed(registry.Item{ID: 1, Title: "Book 1"}, registry.BorrowRecord{BorrowerID: borrowerID, BorrowStartTime: fixedNow}),
		registry.BuildItemReturned(registry.Item{ID: 1, Title: "Book 1"}, registry.BorrowRecord{BorrowerID: uuid.New(), ReturnTime: fixedNow}),
	}

	// act
	err := r.Replay(ctx, notifications...)

	// assert
	assert.ErrorIs(t, err, registry.ErrReplayFailed)
	assert.ErrorIs(t, err, registry.ErrNotBorrowed)
	items := r.ListItems()
	require.Len(t, items, 1)
	assert.Equal(t, "Existing", items[0].Title)
	assert.Empty(t, r.GetBorrowHistory(1))
}

func Test_LendingRegistry_Replay_Rejects(t *testing.T) {
	testCases := []struct {
		name          string
		notifications registry.Notifications
		expectedErr   error
	}{
		{
			name: "id mismatch",
			notifications: registry.Notifications{
				registry.BuildItemRegistered(registry.Item{ID: 4, Title: "Book 1", AvailableCopiesCount: 1}, fixedNow),
			},
			expectedErr: registry.ErrReplayItemIDMismatch,
		},
		{
			name: "title mismatch",
			notifications: registry.Notifications{
				registry.BuildItemRegistered(registry.Item{ID: 0, Title: "Book 1", AvailableCopiesCount: 1}, fixedNow),
				registry.BuildItemBorrowed(registry.Item{ID: 0, Title: "Book 2"}, registry.BorrowRecord{BorrowerID: uuid.New(), BorrowStartTime: fixedNow}),
			},
			expectedErr: registry.ErrReplayTitleMismatch,
		},
		{
			name: "unknown item",
			notifications: registry.Notifications{
				registry.BuildItemBorrowed(registry.Item{ID: 0, Title: "Book 1"}, registry.BorrowRecord{BorrowerID: uuid.New(), BorrowStartTime: fixedNow}),
			},
			expectedErr: registry.ErrNotFound,
		},
		{
			name:          "unknown notification",
			notifications: registry.Notifications{unknownNotification{}},
			expectedErr:   registry.ErrUnknownNotification,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			r := givenRegistry(t, uuid.New())

			// act
			err := r.Replay(context.Background(), tc.notifications...)

			// assert
			assert.ErrorIs(t, err, registry.ErrReplayFailed)
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Empty(t, r.ListItems())
		})
	}
}
