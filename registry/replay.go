package registry

import (
	"context"
	"errors"
	"fmt"
)

// Replay rebuilds registry state from notifications previously raised by a registry, in their original order.
//
// Replayed notifications are applied without the administrator check and are not passed to the Notifier.
// Replay is all-or-nothing: if any notification cannot be applied, the registry keeps its previous state.
func (r *LendingRegistry) Replay(ctx context.Context, notifications ...Notification) error {
	_, finish := r.observer.startOperation(ctx, OperationReplay)

	err := r.replay(notifications)
	finish(err)

	return err
}

func (r *LendingRegistry) replay(notifications Notifications) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	catalog := r.catalog.clone()
	ledger := r.ledger.clone()

	for i, notification := range notifications {
		if err := apply(catalog, ledger, notification); err != nil {
			return errors.Join(ErrReplayFailed, fmt.Errorf("notification %d (%T)", i, notification), err)
		}
	}

	*r.catalog = *catalog
	*r.ledger = *ledger

	return nil
}

func apply(catalog *Catalog, ledger *BorrowLedger, notification Notification) error {
	switch n := notification.(type) {
	case ItemRegistered:
		item, err := catalog.Register(n.Title, int(n.AvailableCopiesCount))
		if err != nil {
			return err
		}

		if item.ID != n.ItemID {
			return ErrReplayItemIDMismatch
		}

		return nil

	case ItemBorrowed:
		item, err := replayTarget(catalog, n.ItemID, n.Title)
		if err != nil {
			return err
		}

		_, err = ledger.Borrow(item, n.BorrowerID, n.BorrowStartTime)

		return err

	case ItemReturned:
		item, err := replayTarget(catalog, n.ItemID, n.Title)
		if err != nil {
			return err
		}

		_, err = ledger.Return(item, n.BorrowerID, n.ReturnTime)

		return err

	default:
		return ErrUnknownNotification
	}
}

func replayTarget(catalog *Catalog, itemID ItemID, title string) (*Item, error) {
	item, err := catalog.slotByID(itemID)
	if err != nil {
		return nil, err
	}

	if !TitlesEqual(item.Title, title) {
		return nil, errors.Join(ErrReplayTitleMismatch, fmt.Errorf("item %d is titled %q, not %q", itemID, item.Title, title))
	}

	return item, nil
}
