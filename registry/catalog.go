package registry

import (
	"errors"
)

// Catalog owns the collection of items, indexed by id and by title.
//
// A Catalog is not safe for concurrent use on its own; LendingRegistry serializes access to it.
type Catalog struct {
	items      []Item
	titleIndex map[string]ItemID
}

// NewCatalog creates an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		items:      make([]Item, 0),
		titleIndex: make(map[string]ItemID),
	}
}

// Register adds a new item with copiesCount available copies and returns it.
//
// It fails with ErrInvalidArgument if the title is empty or copiesCount is not positive,
// and with ErrAlreadyExists if an item with exactly this title is already registered.
func (c *Catalog) Register(title string, copiesCount int) (Item, error) {
	if IsEmptyTitle(title) {
		return Item{}, errors.Join(ErrInvalidArgument, ErrEmptyTitle)
	}

	if copiesCount <= 0 {
		return Item{}, errors.Join(ErrInvalidArgument, ErrNonPositiveCopiesCount)
	}

	if _, exists := c.titleIndex[title]; exists {
		return Item{}, ErrAlreadyExists
	}

	item := Item{
		ID:                   ItemID(len(c.items)),
		Title:                title,
		AvailableCopiesCount: uint(copiesCount),
		BorrowedCopiesCount:  0,
		Exists:               true,
	}

	c.items = append(c.items, item)
	c.titleIndex[title] = item.ID

	return item, nil
}

// GetByID returns the item with the given id, or ErrNotFound.
func (c *Catalog) GetByID(id ItemID) (Item, error) {
	item, err := c.slotByID(id)
	if err != nil {
		return Item{}, err
	}

	return *item, nil
}

// GetByTitle returns the item with exactly the given title.
// It fails with ErrInvalidArgument for an empty title and with ErrNotFound for an unknown one.
func (c *Catalog) GetByTitle(title string) (Item, error) {
	item, err := c.slotByTitle(title)
	if err != nil {
		return Item{}, err
	}

	return *item, nil
}

// ListAll returns all items in registration order.
func (c *Catalog) ListAll() []Item {
	return append(make([]Item, 0, len(c.items)), c.items...)
}

// Len returns the number of registered items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// slotByID returns a pointer into the catalog so a transition can mutate the copy counts in place.
func (c *Catalog) slotByID(id ItemID) (*Item, error) {
	if id >= ItemID(len(c.items)) || !c.items[id].Exists {
		return nil, ErrNotFound
	}

	return &c.items[id], nil
}

func (c *Catalog) slotByTitle(title string) (*Item, error) {
	if IsEmptyTitle(title) {
		return nil, errors.Join(ErrInvalidArgument, ErrEmptyTitle)
	}

	id, exists := c.titleIndex[title]
	if !exists {
		return nil, ErrNotFound
	}

	return c.slotByID(id)
}

func (c *Catalog) clone() *Catalog {
	clone := &Catalog{
		items:      append(make([]Item, 0, len(c.items)), c.items...),
		titleIndex: make(map[string]ItemID, len(c.titleIndex)),
	}

	for title, id := range c.titleIndex {
		clone.titleIndex[title] = id
	}

	return clone
}

func (c *Catalog) reset() {
	c.items = make([]Item, 0)
	c.titleIndex = make(map[string]ItemID)
}
