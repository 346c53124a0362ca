package registry

import "time"

// BorrowRecord is one entry in an item's borrow history.
// A zero ReturnTime means the copy has not been returned yet.
type BorrowRecord struct {
	BorrowStartTime time.Time
	ReturnTime      time.Time
	BorrowerID      BorrowerID
}

// IsReturned reports whether the borrowed copy has been returned.
func (r BorrowRecord) IsReturned() bool {
	return !r.ReturnTime.IsZero()
}

// BorrowState is the current status of one (borrower, item) pair.
// ActiveRecordIndex points into the item's history at the record of the most recent borrow.
type BorrowState struct {
	IsCurrentlyBorrowed bool
	ActiveRecordIndex   int
}
