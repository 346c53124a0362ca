package registry

// Item is a catalog entry with a title and a finite number of copies.
//
// AvailableCopiesCount + BorrowedCopiesCount always equals the copies count the item was registered with.
type Item struct {
	ID                   ItemID
	Title                string
	AvailableCopiesCount uint
	BorrowedCopiesCount  uint
	Exists               bool
}

// TotalCopiesCount returns the number of copies the item was registered with.
func (i Item) TotalCopiesCount() uint {
	return i.AvailableCopiesCount + i.BorrowedCopiesCount
}

// HasAvailableCopies reports whether at least one copy can be borrowed.
func (i Item) HasAvailableCopies() bool {
	return i.AvailableCopiesCount > 0
}
