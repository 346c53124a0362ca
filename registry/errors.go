package registry

import "errors"

// Error kinds. Every error returned by a registry operation matches exactly one of them via errors.Is.
var (
	// ErrInvalidArgument is returned for an empty title or a non-positive copies count.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAlreadyExists is returned when an item with the same title is already registered.
	ErrAlreadyExists = errors.New("an item with this title already exists")

	// ErrNotFound is returned when no item exists for the given id or title.
	ErrNotFound = errors.New("item not found")

	// ErrUnavailable is returned when an item has no available copies left.
	ErrUnavailable = errors.New("no copies of the item are available")

	// ErrAlreadyBorrowed is returned when the borrower currently holds a copy of the item.
	ErrAlreadyBorrowed = errors.New("item is already borrowed by this borrower")

	// ErrNotBorrowed is returned when the borrower does not currently hold a copy of the item.
	ErrNotBorrowed = errors.New("item is not borrowed by this borrower")

	// ErrUnauthorized is returned when the caller lacks the administrator capability.
	ErrUnauthorized = errors.New("caller is not authorized")
)

// Error details, joined with ErrInvalidArgument.
var (
	// ErrEmptyTitle is returned when a title is empty or consists only of whitespace.
	ErrEmptyTitle = errors.New("title must not be empty")

	// ErrNonPositiveCopiesCount is returned when an item is registered with zero or fewer copies.
	ErrNonPositiveCopiesCount = errors.New("copies count must be positive")
)

// Construction, replay, and restore errors.
var (
	// ErrNilCatalog is returned when a LendingRegistry is built without a Catalog.
	ErrNilCatalog = errors.New("catalog must not be nil")

	// ErrNilBorrowLedger is returned when a LendingRegistry is built without a BorrowLedger.
	ErrNilBorrowLedger = errors.New("borrow ledger must not be nil")

	// ErrNilNotifier is returned when a nil Notifier is supplied to WithNotifier.
	ErrNilNotifier = errors.New("notifier must not be nil")

	// ErrNilAuthorizer is returned when a nil Authorizer is supplied to WithAuthorizer.
	ErrNilAuthorizer = errors.New("authorizer must not be nil")

	// ErrNilClock is returned when a nil clock is supplied to WithClock.
	ErrNilClock = errors.New("clock must not be nil")

	// ErrReplayFailed is returned when Replay cannot apply a notification, joined with the cause.
	ErrReplayFailed = errors.New("replaying notifications failed")

	// ErrUnknownNotification is returned when Replay encounters a notification it cannot apply.
	ErrUnknownNotification = errors.New("unknown notification type")

	// ErrReplayItemIDMismatch is returned when a replayed registration does not get the id it was recorded with.
	ErrReplayItemIDMismatch = errors.New("replayed item id does not match the recorded item id")

	// ErrReplayTitleMismatch is returned when a replayed borrow or return names a different title than the item has.
	ErrReplayTitleMismatch = errors.New("replayed title does not match the item title")

	// ErrInvalidSnapshot is returned when a snapshot violates the registry invariants.
	ErrInvalidSnapshot = errors.New("snapshot is not valid")
)
