package registry

import (
	"time"
)

const (
	// ItemRegisteredNotificationType is the notification type identifier for ItemRegistered.
	ItemRegisteredNotificationType = "ItemRegistered"

	// ItemBorrowedNotificationType is the notification type identifier for ItemBorrowed.
	ItemBorrowedNotificationType = "ItemBorrowed"

	// ItemReturnedNotificationType is the notification type identifier for ItemReturned.
	ItemReturnedNotificationType = "ItemReturned"
)

// Notifications is a slice of Notification instances.
type Notifications = []Notification

// Notification represents a state change of the registry that external observers are told about.
type Notification interface {
	// IsNotificationType returns the string identifier for this notification type.
	IsNotificationType() string

	// HasOccurredAt returns when the state change happened.
	HasOccurredAt() time.Time

	// AffectedItemID returns the id of the item the state change applies to.
	AffectedItemID() ItemID
}

// ItemRegistered is raised when a new item is added to the catalog.
type ItemRegistered struct {
	NotificationType     string
	Title                string
	ItemID               ItemID
	AvailableCopiesCount uint
	OccurredAt           time.Time
}

// BuildItemRegistered creates a new ItemRegistered notification.
func BuildItemRegistered(item Item, occurredAt time.Time) ItemRegistered {
	return ItemRegistered{
		NotificationType:     ItemRegisteredNotificationType,
		Title:                item.Title,
		ItemID:               item.ID,
		AvailableCopiesCount: item.AvailableCopiesCount,
		OccurredAt:           ToOccurredAt(occurredAt),
	}
}

// IsNotificationType returns the notification type identifier.
func (n ItemRegistered) IsNotificationType() string {
	return ItemRegisteredNotificationType
}

// HasOccurredAt returns when the item was registered.
func (n ItemRegistered) HasOccurredAt() time.Time {
	return n.OccurredAt
}

// AffectedItemID returns the id of the registered item.
func (n ItemRegistered) AffectedItemID() ItemID {
	return n.ItemID
}

// ItemBorrowed is raised when a borrower takes a copy of an item.
type ItemBorrowed struct {
	NotificationType string
	Title            string
	ItemID           ItemID
	BorrowerID       BorrowerID
	BorrowStartTime  time.Time
}

// BuildItemBorrowed creates a new ItemBorrowed notification from the item and the record the borrow produced.
func BuildItemBorrowed(item Item, record BorrowRecord) ItemBorrowed {
	return ItemBorrowed{
		NotificationType: ItemBorrowedNotificationType,
		Title:            item.Title,
		ItemID:           item.ID,
		BorrowerID:       record.BorrowerID,
		BorrowStartTime:  record.BorrowStartTime,
	}
}

// IsNotificationType returns the notification type identifier.
func (n ItemBorrowed) IsNotificationType() string {
	return ItemBorrowedNotificationType
}

// HasOccurredAt returns when the borrow started.
func (n ItemBorrowed) HasOccurredAt() time.Time {
	return n.BorrowStartTime
}

// AffectedItemID returns the id of the borrowed item.
func (n ItemBorrowed) AffectedItemID() ItemID {
	return n.ItemID
}

// ItemReturned is raised when a borrower brings a copy back.
type ItemReturned struct {
	NotificationType string
	Title            string
	ItemID           ItemID
	BorrowerID       BorrowerID
	ReturnTime       time.Time
}

// BuildItemReturned creates a new ItemReturned notification from the item and the record the return completed.
func BuildItemReturned(item Item, record BorrowRecord) ItemReturned {
	return ItemReturned{
		NotificationType: ItemReturnedNotificationType,
		Title:            item.Title,
		ItemID:           item.ID,
		BorrowerID:       record.BorrowerID,
		ReturnTime:       record.ReturnTime,
	}
}

// IsNotificationType returns the notification type identifier.
func (n ItemReturned) IsNotificationType() string {
	return ItemReturnedNotificationType
}

// HasOccurredAt returns when the copy was returned.
func (n ItemReturned) HasOccurredAt() time.Time {
	return n.ReturnTime
}

// AffectedItemID returns the id of the returned item.
func (n ItemReturned) AffectedItemID() ItemID {
	return n.ItemID
}
