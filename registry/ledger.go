package registry

import (
	"slices"
	"time"
)

// BorrowLedger owns the borrow state of every (borrower, item) pair and the borrow history of every item.
//
// States are kept in a nested mapping, outer by item id and inner by borrower id.
// A BorrowLedger is not safe for concurrent use on its own; LendingRegistry serializes access to it.
type BorrowLedger struct {
	states    map[ItemID]map[BorrowerID]BorrowState
	histories map[ItemID][]BorrowRecord
}

// NewBorrowLedger creates an empty BorrowLedger.
func NewBorrowLedger() *BorrowLedger {
	return &BorrowLedger{
		states:    make(map[ItemID]map[BorrowerID]BorrowState),
		histories: make(map[ItemID][]BorrowRecord),
	}
}

// Borrow lends one copy of item to the borrower and appends a new record to the item's history.
//
// Business Rules:
//
//	ERROR: ErrUnavailable if the item has no available copies
//	ERROR: ErrAlreadyBorrowed if the borrower currently holds a copy of the item
//	THEN: available copies -1, borrowed copies +1, new record appended and marked active
//
// Both checks run before any write, so a failed Borrow leaves item and ledger untouched.
func (l *BorrowLedger) Borrow(item *Item, borrowerID BorrowerID, now time.Time) (BorrowRecord, error) {
	if item.AvailableCopiesCount == 0 {
		return BorrowRecord{}, ErrUnavailable
	}

	if l.GetState(borrowerID, item.ID).IsCurrentlyBorrowed {
		return BorrowRecord{}, ErrAlreadyBorrowed
	}

	record := BorrowRecord{
		BorrowStartTime: now,
		BorrowerID:      borrowerID,
	}

	l.histories[item.ID] = append(l.histories[item.ID], record)
	item.AvailableCopiesCount--
	item.BorrowedCopiesCount++

	l.setState(borrowerID, item.ID, BorrowState{
		IsCurrentlyBorrowed: true,
		ActiveRecordIndex:   len(l.histories[item.ID]) - 1,
	})

	return record, nil
}

// Return takes back the copy of item held by the borrower and sets the return time on the active record.
//
// Business Rules:
//
//	ERROR: ErrNotBorrowed if the borrower does not currently hold a copy (including never having borrowed it)
//	THEN: available copies +1, borrowed copies -1, active record gets its return time, state flips to not borrowed
func (l *BorrowLedger) Return(item *Item, borrowerID BorrowerID, now time.Time) (BorrowRecord, error) {
	state := l.GetState(borrowerID, item.ID)
	if !state.IsCurrentlyBorrowed {
		return BorrowRecord{}, ErrNotBorrowed
	}

	history := l.histories[item.ID]
	history[state.ActiveRecordIndex].ReturnTime = now
	item.AvailableCopiesCount++
	item.BorrowedCopiesCount--

	l.setState(borrowerID, item.ID, BorrowState{
		IsCurrentlyBorrowed: false,
		ActiveRecordIndex:   state.ActiveRecordIndex,
	})

	return history[state.ActiveRecordIndex], nil
}

// GetState returns the borrow state of the (borrower, item) pair.
// A pair that never borrowed reads as not borrowed with ActiveRecordIndex 0.
func (l *BorrowLedger) GetState(borrowerID BorrowerID, itemID ItemID) BorrowState {
	return l.states[itemID][borrowerID]
}

// GetHistory returns the item's borrow history in append order. Unknown items have an empty history.
func (l *BorrowLedger) GetHistory(itemID ItemID) []BorrowRecord {
	return append(make([]BorrowRecord, 0, len(l.histories[itemID])), l.histories[itemID]...)
}

// BorrowedItemIDs returns the ids of all items the borrower currently holds, in ascending order.
func (l *BorrowLedger) BorrowedItemIDs(borrowerID BorrowerID) []ItemID {
	itemIDs := make([]ItemID, 0)

	for itemID, borrowers := range l.states {
		if borrowers[borrowerID].IsCurrentlyBorrowed {
			itemIDs = append(itemIDs, itemID)
		}
	}

	slices.Sort(itemIDs)

	return itemIDs
}

func (l *BorrowLedger) setState(borrowerID BorrowerID, itemID ItemID, state BorrowState) {
	borrowers, exists := l.states[itemID]
	if !exists {
		borrowers = make(map[BorrowerID]BorrowState)
		l.states[itemID] = borrowers
	}

	borrowers[borrowerID] = state
}

func (l *BorrowLedger) clone() *BorrowLedger {
	clone := NewBorrowLedger()

	for itemID, borrowers := range l.states {
		clonedBorrowers := make(map[BorrowerID]BorrowState, len(borrowers))
		for borrowerID, state := range borrowers {
			clonedBorrowers[borrowerID] = state
		}

		clone.states[itemID] = clonedBorrowers
	}

	for itemID, history := range l.histories {
		clone.histories[itemID] = append(make([]BorrowRecord, 0, len(history)), history...)
	}

	return clone
}

func (l *BorrowLedger) reset() {
	l.states = make(map[ItemID]map[BorrowerID]BorrowState)
	l.histories = make(map[ItemID][]BorrowRecord)
}
