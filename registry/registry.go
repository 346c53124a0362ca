package registry

import (
	"context"
	"sync"
	"time"
)

// LendingRegistry orchestrates the Catalog and the BorrowLedger.
//
// All mutating operations run under one write lock, including the hand-off to the Notifier,
// so no two mutations interleave and notifications are delivered in mutation order.
// Read operations take the read lock and return copies.
type LendingRegistry struct {
	mu         sync.RWMutex
	catalog    *Catalog
	ledger     *BorrowLedger
	notifier   Notifier
	authorizer Authorizer
	clock      func() time.Time
	observer   observer
}

// Option defines a functional option for configuring LendingRegistry.
type Option func(*LendingRegistry) error

// WithNotifier sets the Notifier that receives every notification.
func WithNotifier(notifier Notifier) Option {
	return func(r *LendingRegistry) error {
		if notifier == nil {
			return ErrNilNotifier
		}

		r.notifier = notifier

		return nil
	}
}

// WithAuthorizer sets the Authorizer consulted by RegisterItem.
// Without it, every registration fails with ErrUnauthorized.
func WithAuthorizer(authorizer Authorizer) Option {
	return func(r *LendingRegistry) error {
		if authorizer == nil {
			return ErrNilAuthorizer
		}

		r.authorizer = authorizer

		return nil
	}
}

// WithClock sets the clock used for registration timestamps and for borrow/return calls made with a zero time.
func WithClock(clock func() time.Time) Option {
	return func(r *LendingRegistry) error {
		if clock == nil {
			return ErrNilClock
		}

		r.clock = clock

		return nil
	}
}

// WithLogger sets the logger for the LendingRegistry.
//
// Debug level: operation start
// Info level: operation outcomes including business rejections, with duration
// Warn level: notifications the Notifier did not accept
// Error level: unexpected failures.
func WithLogger(logger Logger) Option {
	return func(r *LendingRegistry) error {
		r.observer.logger = logger
		return nil
	}
}

// WithContextualLogger sets a context-aware logger; it takes precedence over WithLogger.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(r *LendingRegistry) error {
		r.observer.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the LendingRegistry.
func WithMetrics(collector MetricsCollector) Option {
	return func(r *LendingRegistry) error {
		r.observer.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the LendingRegistry.
func WithTracing(collector TracingCollector) Option {
	return func(r *LendingRegistry) error {
		r.observer.tracingCollector = collector
		return nil
	}
}

// NewLendingRegistry creates a LendingRegistry that takes ownership of catalog and ledger.
// Callers must not use catalog or ledger directly afterward.
func NewLendingRegistry(catalog *Catalog, ledger *BorrowLedger, options ...Option) (*LendingRegistry, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}

	if ledger == nil {
		return nil, ErrNilBorrowLedger
	}

	r := &LendingRegistry{
		catalog:    catalog,
		ledger:     ledger,
		authorizer: denyAll{},
		clock:      time.Now,
	}

	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// RegisterItem adds a new item with copiesCount copies to the catalog and raises ItemRegistered.
// The caller must hold the administrator capability, otherwise it fails with ErrUnauthorized.
func (r *LendingRegistry) RegisterItem(ctx context.Context, caller CallerID, title string, copiesCount int) (Item, error) {
	ctx, finish := r.observer.startOperation(ctx, OperationRegisterItem)

	item, err := r.registerItem(ctx, caller, title, copiesCount)
	finish(err)

	return item, err
}

func (r *LendingRegistry) registerItem(ctx context.Context, caller CallerID, title string, copiesCount int) (Item, error) {
	if !r.authorizer.IsAuthorized(ctx, caller) {
		return Item{}, ErrUnauthorized
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item, err := r.catalog.Register(title, copiesCount)
	if err != nil {
		return Item{}, err
	}

	r.notify(ctx, BuildItemRegistered(item, r.clock()))
	r.observer.recordValue(ctx, ItemsTotalMetric, float64(r.catalog.Len()), nil)

	return item, nil
}

// BorrowByTitle lends one copy of the item with the given title to the borrower and raises ItemBorrowed.
func (r *LendingRegistry) BorrowByTitle(ctx context.Context, title string, borrowerID BorrowerID, now time.Time) (BorrowRecord, error) {
	return r.borrow(ctx, OperationBorrowByTitle, func() (*Item, error) { return r.catalog.slotByTitle(title) }, borrowerID, now)
}

// BorrowByID lends one copy of the item with the given id to the borrower and raises ItemBorrowed.
func (r *LendingRegistry) BorrowByID(ctx context.Context, id ItemID, borrowerID BorrowerID, now time.Time) (BorrowRecord, error) {
	return r.borrow(ctx, OperationBorrowByID, func() (*Item, error) { return r.catalog.slotByID(id) }, borrowerID, now)
}

// ReturnByTitle takes back the borrower's copy of the item with the given title and raises ItemReturned.
func (r *LendingRegistry) ReturnByTitle(ctx context.Context, title string, borrowerID BorrowerID, now time.Time) (BorrowRecord, error) {
	return r.giveBack(ctx, OperationReturnByTitle, func() (*Item, error) { return r.catalog.slotByTitle(title) }, borrowerID, now)
}

// ReturnByID takes back the borrower's copy of the item with the given id and raises ItemReturned.
func (r *LendingRegistry) ReturnByID(ctx context.Context, id ItemID, borrowerID BorrowerID, now time.Time) (BorrowRecord, error) {
	return r.giveBack(ctx, OperationReturnByID, func() (*Item, error) { return r.catalog.slotByID(id) }, borrowerID, now)
}

// itemResolver looks up the catalog slot an operation works on. It runs under the write lock.
type itemResolver func() (*Item, error)

func (r *LendingRegistry) borrow(
	ctx context.Context,
	operation string,
	resolve itemResolver,
	borrowerID BorrowerID,
	now time.Time,
) (BorrowRecord, error) {

	ctx, finish := r.observer.startOperation(ctx, operation)

	record, err := func() (BorrowRecord, error) {
		r.mu.Lock()
		defer r.mu.Unlock()

		item, err := resolve()
		if err != nil {
			return BorrowRecord{}, err
		}

		record, err := r.ledger.Borrow(item, borrowerID, r.timestamp(now))
		if err != nil {
			return BorrowRecord{}, err
		}

		r.notify(ctx, BuildItemBorrowed(*item, record))

		return record, nil
	}()

	finish(err)

	return record, err
}

func (r *LendingRegistry) giveBack(
	ctx context.Context,
	operation string,
	resolve itemResolver,
	borrowerID BorrowerID,
	now time.Time,
) (BorrowRecord, error) {

	ctx, finish := r.observer.startOperation(ctx, operation)

	record, err := func() (BorrowRecord, error) {
		r.mu.Lock()
		defer r.mu.Unlock()

		item, err := resolve()
		if err != nil {
			return BorrowRecord{}, err
		}

		record, err := r.ledger.Return(item, borrowerID, r.timestamp(now))
		if err != nil {
			return BorrowRecord{}, err
		}

		r.notify(ctx, BuildItemReturned(*item, record))

		return record, nil
	}()

	finish(err)

	return record, err
}

// ListItems returns all items in registration order.
func (r *LendingRegistry) ListItems() []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.catalog.ListAll()
}

// ListAvailable returns all items with at least one available copy, in registration order.
func (r *LendingRegistry) ListAvailable() []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()

	available := make([]Item, 0)

	for _, item := range r.catalog.ListAll() {
		if item.HasAvailableCopies() {
			available = append(available, item)
		}
	}

	return available
}

// GetItemByID returns the item with the given id, or ErrNotFound.
func (r *LendingRegistry) GetItemByID(id ItemID) (Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.catalog.GetByID(id)
}

// GetItemByTitle returns the item with the given title, or ErrInvalidArgument / ErrNotFound.
func (r *LendingRegistry) GetItemByTitle(title string) (Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.catalog.GetByTitle(title)
}

// GetBorrowState returns the borrow state of the (borrower, item) pair. It never fails.
func (r *LendingRegistry) GetBorrowState(borrowerID BorrowerID, itemID ItemID) BorrowState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.ledger.GetState(borrowerID, itemID)
}

// GetBorrowHistory returns the borrow history of the item in chronological order. It never fails.
func (r *LendingRegistry) GetBorrowHistory(itemID ItemID) []BorrowRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.ledger.GetHistory(itemID)
}

// BorrowedBy returns all items the borrower currently holds, ordered by id.
func (r *LendingRegistry) BorrowedBy(borrowerID BorrowerID) []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()

	itemIDs := r.ledger.BorrowedItemIDs(borrowerID)
	items := make([]Item, 0, len(itemIDs))

	for _, itemID := range itemIDs {
		if item, err := r.catalog.GetByID(itemID); err == nil {
			items = append(items, item)
		}
	}

	return items
}

// Reset discards all items, borrow states, and histories.
func (r *LendingRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.catalog.reset()
	r.ledger.reset()
}

// notify hands a notification to the Notifier. A failure does not undo the completed mutation.
func (r *LendingRegistry) notify(ctx context.Context, notification Notification) {
	if r.notifier == nil {
		return
	}

	if err := r.notifier.Notify(ctx, notification); err != nil {
		r.observer.notificationFailed(ctx, notification, err)
	}
}

// timestamp keeps a caller-supplied time as given. The zero time is replaced by a normalized clock reading,
// because a zero ReturnTime means "not yet returned".
func (r *LendingRegistry) timestamp(now time.Time) time.Time {
	if now.IsZero() {
		return ToOccurredAt(r.clock())
	}

	return now
}
