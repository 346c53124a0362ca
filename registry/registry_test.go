package registry_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-registry-go/registry"
	"github.com/AntonStoeckl/lending-registry-go/testutil/testdoubles"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 589793238, time.UTC)

func fixedClock() time.Time {
	return fixedNow
}

func givenRegistry(t *testing.T, adminID registry.CallerID, options ...registry.Option) *registry.LendingRegistry {
	t.Helper()

	options = append([]registry.Option{
		registry.WithAuthorizer(registry.NewAdministratorAuthorizer(adminID)),
		registry.WithClock(fixedClock),
	}, options...)

	r, err := registry.NewLendingRegistry(registry.NewCatalog(), registry.NewBorrowLedger(), options...)
	require.NoError(t, err)

	return r
}

func givenRegisteredItem(t *testing.T, r *registry.LendingRegistry, adminID registry.CallerID, title string, copiesCount int) registry.Item {
	t.Helper()

	item, err := r.RegisterItem(context.Background(), adminID, title, copiesCount)
	require.NoError(t, err)

	return item
}

func assertCopiesConserved(t *testing.T, r *registry.LendingRegistry, registeredCopies map[registry.ItemID]uint) {
	t.Helper()

	for _, item := range r.ListItems() {
		assert.Equal(t, registeredCopies[item.ID], item.AvailableCopiesCount+item.BorrowedCopiesCount, "item %d", item.ID)

		open := uint(0)
		for _, record := range r.GetBorrowHistory(item.ID) {
			if !record.IsReturned() {
				open++
			}
		}

		assert.Equal(t, item.BorrowedCopiesCount, open, "item %d", item.ID)
	}
}

func Test_NewLendingRegistry_RejectsNilCollaborators(t *testing.T) {
	_, err := registry.NewLendingRegistry(nil, registry.NewBorrowLedger())
	assert.ErrorIs(t, err, registry.ErrNilCatalog)

	_, err = registry.NewLendingRegistry(registry.NewCatalog(), nil)
	assert.ErrorIs(t, err, registry.ErrNilBorrowLedger)

	_, err = registry.NewLendingRegistry(registry.NewCatalog(), registry.NewBorrowLedger(), registry.WithNotifier(nil))
	assert.ErrorIs(t, err, registry.ErrNilNotifier)

	_, err = registry.NewLendingRegistry(registry.NewCatalog(), registry.NewBorrowLedger(), registry.WithAuthorizer(nil))
	assert.ErrorIs(t, err, registry.ErrNilAuthorizer)

	_, err = registry.NewLendingRegistry(registry.NewCatalog(), registry.NewBorrowLedger(), registry.WithClock(nil))
	assert.ErrorIs(t, err, registry.ErrNilClock)
}

func Test_LendingRegistry_BookOneScenario(t *testing.T) {
	// arrange
	ctx := context.Background()
	adminID := uuid.New()
	userA, userB, userC := uuid.New(), uuid.New(), uuid.New()
	r := givenRegistry(t, adminID)
	t1 := fixedNow.Add(time.Hour)
	t2 := fixedNow.Add(2 * time.Hour)
	t3 := fixedNow.Add(3 * time.Hour)

	// act + assert
	item, err := r.RegisterItem(ctx, adminID, "Book 1", 2)
	require.NoError(t, err)
	assert.Equal(t, registry.ItemID(0), item.ID)
	assert.Equal(t, uint(2), item.AvailableCopiesCount)

	_, err = r.BorrowByTitle(ctx, "Book 1", userA, t1)
	require.NoError(t, err)

	_, err = r.BorrowByTitle(ctx, "Book 1", userB, t2)
	require.NoError(t, err)

	item, err = r.GetItemByTitle("Book 1")
	require.NoError(t, err)
	assert.Equal(t, uint(0), item.AvailableCopiesCount)
	assert.Equal(t, uint(2), item.BorrowedCopiesCount)

	_, err = r.BorrowByTitle(ctx, "Book 1", userC, t3)
	assert.ErrorIs(t, err, registry.ErrUnavailable)

	returned, err := r.ReturnByTitle(ctx, "Book 1", userA, t3)
	require.NoError(t, err)
	assert.Equal(t, t3, returned.ReturnTime)

	history := r.GetBorrowHistory(item.ID)
	require.Len(t, history, 2)
	assert.Equal(t, userA, history[0].BorrowerID)
	assert.Equal(t, t1, history[0].BorrowStartTime)
	assert.Equal(t, t3, history[0].ReturnTime)
	assert.Equal(t, userB, history[1].BorrowerID)
	assert.False(t, history[1].IsReturned())

	assert.Equal(t, registry.BorrowState{IsCurrentlyBorrowed: false, ActiveRecordIndex: 0}, r.GetBorrowState(userA, item.ID))
	assert.Equal(t, registry.BorrowState{IsCurrentlyBorrowed: true, ActiveRecordIndex: 1}, r.GetBorrowState(userB, item.ID))

	_, err = r.ReturnByTitle(ctx, "Book 1", userA, t3)
	assert.ErrorIs(t, err, registry.ErrNotBorrowed)

	assertCopiesConserved(t, r, map[registry.ItemID]uint{item.ID: 2})
}

func Test_LendingRegistry_RegisterItem_Rejects(t *testing.T) {
	adminID := uuid.New()

	testCases := []struct {
		name        string
		caller      registry.CallerID
		title       string
		copiesCount int
		expectedErr error
	}{
		{name: "unauthorized caller", caller: uuid.New(), title: "Book 2", copiesCount: 1, expectedErr: registry.ErrUnauthorized},
		{name: "nil caller", caller: uuid.Nil, title: "Book 2", copiesCount: 1, expectedErr: registry.ErrUnauthorized},
		{name: "empty title", caller: adminID, title: "", copiesCount: 1, expectedErr: registry.ErrInvalidArgument},
		{name: "zero copies", caller: adminID, title: "Book 2", copiesCount: 0, expectedErr: registry.ErrInvalidArgument},
		{name: "duplicate title", caller: adminID, title: "Book 1", copiesCount: 3, expectedErr: registry.ErrAlreadyExists},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			notifier := testdoubles.NewNotifierSpy()
			r := givenRegistry(t, adminID, registry.WithNotifier(notifier))
			givenRegisteredItem(t, r, adminID, "Book 1", 1)
			notifier.Reset()

			// act
			_, err := r.RegisterItem(context.Background(), tc.caller, tc.title, tc.copiesCount)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Len(t, r.ListItems(), 1)
			assert.Empty(t, notifier.Notifications())
		})
	}
}

func Test_LendingRegistry_RegisterItem_FailsWithoutAuthorizer(t *testing.T) {
	// arrange
	r, err := registry.NewLendingRegistry(registry.NewCatalog(), registry.NewBorrowLedger())
	require.NoError(t, err)

	// act
	_, err = r.RegisterItem(context.Background(), uuid.New(), "Book 1", 1)

	// assert
	assert.ErrorIs(t, err, registry.ErrUnauthorized)
}

func Test_LendingRegistry_BorrowAndReturnByID(t *testing.T) {
	// arrange
	ctx := context.Background()
	adminID := uuid.New()
	borrowerID := uuid.New()
	r := givenRegistry(t, adminID)
	givenRegisteredItem(t, r, adminID, "Book 1", 1)
	item := givenRegisteredItem(t, r, adminID, "Book 2", 1)

	// act
	borrowed, borrowErr := r.BorrowByID(ctx, item.ID, borrowerID, time.Time{})
	held := r.BorrowedBy(borrowerID)
	returned, returnErr := r.ReturnByID(ctx, item.ID, borrowerID, time.Time{})

	// assert
	require.NoError(t, borrowErr)
	require.NoError(t, returnErr)
	assert.Equal(t, registry.ToOccurredAt(fixedNow), borrowed.BorrowStartTime, "zero time falls back to the clock")
	assert.Equal(t, registry.ToOccurredAt(fixedNow), returned.ReturnTime)
	require.Len(t, held, 1)
	assert.Equal(t, "Book 2", held[0].Title)
	assert.Empty(t, r.BorrowedBy(borrowerID))
}

func Test_LendingRegistry_KeepsCallerTimesAsGiven(t *testing.T) {
	// arrange
	ctx := context.Background()
	adminID := uuid.New()
	borrowerID := uuid.New()
	notifier := testdoubles.NewNotifierSpy()
	r := givenRegistry(t, adminID, registry.WithNotifier(notifier))
	item := givenRegisteredItem(t, r, adminID, "Book 1", 1)
	zone := time.FixedZone("UTC+1", 60*60)
	borrowAt := time.Date(2025, 1, 1, 0, 0, 0, 123456789, zone)
	returnAt := time.Date(2025, 1, 2, 8, 30, 0, 987654321, zone)

	// act
	borrowed, borrowErr := r.BorrowByID(ctx, item.ID, borrowerID, borrowAt)
	returned, returnErr := r.ReturnByID(ctx, item.ID, borrowerID, returnAt)

	replayed := givenRegistry(t, adminID)
	replayErr := replayed.Replay(ctx, notifier.Notifications()...)

	// assert
	require.NoError(t, borrowErr)
	require.NoError(t, returnErr)
	require.NoError(t, replayErr)
	assert.Equal(t, borrowAt, borrowed.BorrowStartTime)
	assert.Equal(t, returnAt, returned.ReturnTime)
	assert.Equal(t, borrowAt, returned.BorrowStartTime)

	history := r.GetBorrowHistory(item.ID)
	require.Len(t, history, 1)
	assert.Equal(t, borrowAt, history[0].BorrowStartTime)
	assert.Equal(t, returnAt, history[0].ReturnTime)

	notifications := notifier.Notifications()
	require.Len(t, notifications, 3)
	assert.Equal(t, borrowAt, notifications[1].HasOccurredAt())
	assert.Equal(t, returnAt, notifications[2].HasOccurredAt())

	assert.Equal(t, history, replayed.GetBorrowHistory(item.ID))
}

func Test_LendingRegistry_Borrow_Rejects(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.New()
	holder := uuid.New()

	testCases := []struct {
		name        string
		borrow      func(r *registry.LendingRegistry) error
		expectedErr error
	}{
		{
			name: "unknown id",
			borrow: func(r *registry.LendingRegistry) error {
				_, err := r.BorrowByID(ctx, 99, uuid.New(), fixedNow)
				return err
			},
			expectedErr: registry.ErrNotFound,
		},
		{
			name: "unknown title",
			borrow: func(r *registry.LendingRegistry) error {
				_, err := r.BorrowByTitle(ctx, "Book 99", uuid.New(), fixedNow)
				return err
			},
			expectedErr: registry.ErrNotFound,
		},
		{
			name: "empty title",
			borrow: func(r *registry.LendingRegistry) error {
				_, err := r.BorrowByTitle(ctx, "", uuid.New(), fixedNow)
				return err
			},
			expectedErr: registry.ErrInvalidArgument,
		},
		{
			name: "already borrowed",
			borrow: func(r *registry.LendingRegistry) error {
				_, err := r.BorrowByTitle(ctx, "Book 2", holder, fixedNow)
				return err
			},
			expectedErr: registry.ErrAlreadyBorrowed,
		},
		{
			name: "unavailable",
			borrow: func(r *registry.LendingRegistry) error {
				_, err := r.BorrowByTitle(ctx, "Book 1", uuid.New(), fixedNow)
				return err
			},
			expectedErr: registry.ErrUnavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			r := givenRegistry(t, adminID)
			givenRegisteredItem(t, r, adminID, "Book 1", 1)
			givenRegisteredItem(t, r, adminID, "Book 2", 2)
			_, err := r.BorrowByTitle(ctx, "Book 1", holder, fixedNow)
			require.NoError(t, err)
			_, err = r.BorrowByTitle(ctx, "Book 2", holder, fixedNow)
			require.NoError(t, err)
			before := r.ListItems()

			// act
			err = tc.borrow(r)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Equal(t, before, r.ListItems())
		})
	}
}

func Test_LendingRegistry_Return_Rejects(t *testing.T) {
	// arrange
	ctx := context.Background()
	adminID := uuid.New()
	r := givenRegistry(t, adminID)
	givenRegisteredItem(t, r, adminID, "Book 1", 1)

	// act
	_, unknownIDErr := r.ReturnByID(ctx, 5, uuid.New(), fixedNow)
	_, unknownTitleErr := r.ReturnByTitle(ctx, "Book 5", uuid.New(), fixedNow)
	_, notBorrowedErr := r.ReturnByTitle(ctx, "Book 1", uuid.New(), fixedNow)

	// assert
	assert.ErrorIs(t, unknownIDErr, registry.ErrNotFound)
	assert.ErrorIs(t, unknownTitleErr, registry.ErrNotFound)
	assert.ErrorIs(t, notBorrowedErr, registry.ErrNotBorrowed)
}

func Test_LendingRegistry_ReadOperations(t *testing.T) {
	// arrange
	ctx := context.Background()
	adminID := uuid.New()
	borrowerID := uuid.New()
	r := givenRegistry(t, adminID)
	givenRegisteredItem(t, r, adminID, "Book 1", 1)
	givenRegisteredItem(t, r, adminID, "Book 2", 2)
	_, err := r.BorrowByTitle(ctx, "Book 1", borrowerID, fixedNow)
	require.NoError(t, err)

	// act
	all := r.ListItems()
	available := r.ListAvailable()
	byID, byIDErr := r.GetItemByID(1)
	_, missingErr := r.GetItemByID(2)

	// assert
	require.Len(t, all, 2)
	require.Len(t, available, 1)
	assert.Equal(t, "Book 2", available[0].Title)
	require.NoError(t, byIDErr)
	assert.Equal(t, "Book 2", byID.Title)
	assert.ErrorIs(t, missingErr, registry.ErrNotFound)
	assert.Equal(t, registry.BorrowState{}, r.GetBorrowState(uuid.New(), 0))
	assert.Empty(t, r.GetBorrowHistory(1))
}

func Test_LendingRegistry_Reset(t *testing.T) {
	// arrange
	ctx := context.Background()
	adminID := uuid.New()
	borrowerID := uuid.New()
	r := givenRegistry(t, adminID)
	givenRegisteredItem(t, r, adminID, "Book 1", 1)
	_, err := r.BorrowByID(ctx, 0, borrowerID, fixedNow)
	require.NoError(t, err)

	// act
	r.Reset()

	// assert
	assert.Empty(t, r.ListItems())
	assert.Empty(t, r.GetBorrowHistory(0))
	assert.Equal(t, registry.BorrowState{}, r.GetBorrowState(borrowerID, 0))

	item := givenRegisteredItem(t, r, adminID, "Book 1", 1)
	assert.Equal(t, registry.ItemID(0), item.ID)
}

func Test_LendingRegistry_NotifiesInMutationOrder(t *testing.T) {
	// arrange
	ctx := context.Background()
	adminID := uuid.New()
	borrowerID := uuid.New()
	notifier := testdoubles.NewNotifierSpy()
	r := givenRegistry(t, adminID, registry.WithNotifier(notifier))
	borrowAt := fixedNow.Add(time.Minute)
	returnAt := fixedNow.Add(2 * time.Minute)

	// act
	givenRegisteredItem(t, r, adminID, "Book 1", 3)
	_, err := r.BorrowByTitle(ctx, "Book 1", borrowerID, borrowAt)
	require.NoError(t, err)
	_, err = r.BorrowByTitle(ctx, "Book 1", borrowerID, borrowAt)
	require.Error(t, err)
	_, err = r.ReturnByID(ctx, 0, borrowerID, returnAt)
	require.NoError(t, err)

	// assert
	notifications := notifier.Notifications()
	require.Len(t, notifications, 3)
	assert.Equal(t, registry.ItemRegistered{
		NotificationType:     registry.ItemRegisteredNotificationType,
		Title:                "Book 1",
		ItemID:               0,
		AvailableCopiesCount: 3,
		OccurredAt:           registry.ToOccurredAt(fixedNow),
	}, notifications[0])
	assert.Equal(t, registry.ItemBorrowed{
		NotificationType: registry.ItemBorrowedNotificationType,
		Title:            "Book 1",
		ItemID:           0,
		BorrowerID:       borrowerID,
		BorrowStartTime:  borrowAt,
	}, notifications[1])
	assert.Equal(t, registry.ItemReturned{
		NotificationType: registry.ItemReturnedNotificationType,
		Title:            "Book 1",
		ItemID:           0,
		BorrowerID:       borrowerID,
		ReturnTime:       returnAt,
	}, notifications[2])
}

func Test_LendingRegistry_NotifierFailure_KeepsTheMutation(t *testing.T) {
	// arrange
	ctx := context.Background()
	adminID := uuid.New()
	notifier := testdoubles.NewNotifierSpy()
	logger := testdoubles.NewContextualLoggerSpy(true)
	metrics := testdoubles.NewMetricsCollectorSpy(true)
	r := givenRegistry(t, adminID,
		registry.WithNotifier(notifier),
		registry.WithContextualLogger(logger),
		registry.WithMetrics(metrics))
	notifier.FailWith(errors.New("journal is down"))

	// act
	item, err := r.RegisterItem(ctx, adminID, "Book 1", 1)

	// assert
	require.NoError(t, err)
	stored, getErr := r.GetItemByID(item.ID)
	require.NoError(t, getErr)
	assert.Equal(t, "Book 1", stored.Title)
	assert.True(t, logger.HasLog(testdoubles.LevelWarn, registry.LogMsgNotificationFailed))
	assert.Len(t, metrics.RecordsFor(testdoubles.KindCounter, registry.NotificationFailuresMetric,
		map[string]string{registry.LogAttrNotificationType: registry.ItemRegisteredNotificationType}), 1)
}

func Test_MultiNotifier_CallsAllAndJoinsErrors(t *testing.T) {
	// arrange
	first := testdoubles.NewNotifierSpy()
	second := testdoubles.NewNotifierSpy()
	failure := errors.New("first failed")
	first.FailWith(failure)
	multi := registry.MultiNotifier{first, second}
	notification := registry.BuildItemRegistered(registry.Item{ID: 0, Title: "Book 1", AvailableCopiesCount: 1}, fixedNow)

	// act
	err := multi.Notify(context.Background(), notification)

	// assert
	assert.ErrorIs(t, err, failure)
	assert.Len(t, first.Notifications(), 1)
	assert.Len(t, second.Notifications(), 1)
}

func Test_LendingRegistry_ConcurrentBorrowOfLastCopy_ExactlyOneSucceeds(t *testing.T) {
	// arrange
	ctx := context.Background()
	adminID := uuid.New()
	r := givenRegistry(t, adminID)
	givenRegisteredItem(t, r, adminID, "Book 1", 1)

	const borrowers = 32

	var wg sync.WaitGroup
	errs := make([]error, borrowers)

	// act
	for i := 0; i < borrowers; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			_, errs[i] = r.BorrowByTitle(ctx, "Book 1", uuid.New(), time.Time{})
		}(i)
	}

	wg.Wait()

	// assert
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}

		assert.ErrorIs(t, err, registry.ErrUnavailable)
	}

	assert.Equal(t, 1, succeeded)
	assertCopiesConserved(t, r, map[registry.ItemID]uint{0: 1})
}

func Test_LendingRegistry_ConcurrentMixedOperations_ConserveCopies(t *testing.T) {
	// arrange
	ctx := context.Background()
	adminID := uuid.New()
	r := givenRegistry(t, adminID)
	registered := map[registry.ItemID]uint{}

	for i, title := range []string{"Book 1", "Book 2", "Book 3"} {
		item := givenRegisteredItem(t, r, adminID, title, i+2)
		registered[item.ID] = uint(i + 2)
	}

	borrowerIDs := make([]registry.BorrowerID, 8)
	for i := range borrowerIDs {
		borrowerIDs[i] = uuid.New()
	}

	var wg sync.WaitGroup

	// act
	for _, borrowerID := range borrowerIDs {
		wg.Add(1)

		go func(borrowerID registry.BorrowerID) {
			defer wg.Done()

			for round := 0; round < 50; round++ {
				itemID := registry.ItemID(round % 3)
				if round%2 == 0 {
					_, _ = r.BorrowByID(ctx, itemID, borrowerID, time.Time{})
				} else {
					_, _ = r.ReturnByID(ctx, itemID, borrowerID, time.Time{})
				}

				_ = r.ListAvailable()
			}
		}(borrowerID)
	}

	wg.Wait()

	// assert
	assertCopiesConserved(t, r, registered)
}
