package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// RegistrySnapshot is the serializable representation of the complete registry state.
type RegistrySnapshot struct {
	Items   []SnapshotItem `json:"items"`
	TakenAt time.Time      `json:"taken_at"`
}

// SnapshotItem is one catalog entry together with its borrow history and borrow states.
type SnapshotItem struct {
	ID                   ItemID                 `json:"id"`
	Title                string                 `json:"title"`
	AvailableCopiesCount uint                   `json:"available_copies_count"`
	BorrowedCopiesCount  uint                   `json:"borrowed_copies_count"`
	History              []SnapshotBorrowRecord `json:"history"`
	States               []SnapshotBorrowState  `json:"states"`
}

// SnapshotBorrowRecord is the serializable form of a BorrowRecord.
type SnapshotBorrowRecord struct {
	BorrowerID      BorrowerID `json:"borrower_id"`
	BorrowStartTime time.Time  `json:"borrow_start_time"`
	ReturnTime      time.Time  `json:"return_time"`
}

// SnapshotBorrowState is the serializable form of a BorrowState.
type SnapshotBorrowState struct {
	BorrowerID          BorrowerID `json:"borrower_id"`
	IsCurrentlyBorrowed bool       `json:"is_currently_borrowed"`
	ActiveRecordIndex   int        `json:"active_record_index"`
}

// Snapshot captures the current registry state. Borrow states are ordered by borrower id.
func (r *LendingRegistry) Snapshot() RegistrySnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.catalog.ListAll()
	snapshot := RegistrySnapshot{
		Items:   make([]SnapshotItem, 0, len(items)),
		TakenAt: ToOccurredAt(r.clock()),
	}

	for _, item := range items {
		history := r.ledger.GetHistory(item.ID)
		snapshotItem := SnapshotItem{
			ID:                   item.ID,
			Title:                item.Title,
			AvailableCopiesCount: item.AvailableCopiesCount,
			BorrowedCopiesCount:  item.BorrowedCopiesCount,
			History:              make([]SnapshotBorrowRecord, 0, len(history)),
			States:               make([]SnapshotBorrowState, 0, len(r.ledger.states[item.ID])),
		}

		for _, record := range history {
			snapshotItem.History = append(snapshotItem.History, SnapshotBorrowRecord{
				BorrowerID:      record.BorrowerID,
				BorrowStartTime: record.BorrowStartTime,
				ReturnTime:      record.ReturnTime,
			})
		}

		for borrowerID, state := range r.ledger.states[item.ID] {
			snapshotItem.States = append(snapshotItem.States, SnapshotBorrowState{
				BorrowerID:          borrowerID,
				IsCurrentlyBorrowed: state.IsCurrentlyBorrowed,
				ActiveRecordIndex:   state.ActiveRecordIndex,
			})
		}

		slices.SortFunc(snapshotItem.States, func(a, b SnapshotBorrowState) int {
			return slices.Compare(a.BorrowerID[:], b.BorrowerID[:])
		})

		snapshot.Items = append(snapshot.Items, snapshotItem)
	}

	return snapshot
}

// Restore replaces the registry state with the snapshot after validating it against the registry invariants.
// An invalid snapshot fails with ErrInvalidSnapshot and leaves the registry unchanged.
func (r *LendingRegistry) Restore(ctx context.Context, snapshot RegistrySnapshot) error {
	_, finish := r.observer.startOperation(ctx, OperationRestore)

	err := r.restore(snapshot)
	finish(err)

	return err
}

func (r *LendingRegistry) restore(snapshot RegistrySnapshot) error {
	catalog := NewCatalog()
	ledger := NewBorrowLedger()

	for i, snapshotItem := range snapshot.Items {
		if err := restoreItem(catalog, ledger, ItemID(i), snapshotItem); err != nil {
			return errors.Join(ErrInvalidSnapshot, fmt.Errorf("item %d", i), err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	*r.catalog = *catalog
	*r.ledger = *ledger

	return nil
}

func restoreItem(catalog *Catalog, ledger *BorrowLedger, expectedID ItemID, snapshotItem SnapshotItem) error {
	if snapshotItem.ID != expectedID {
		return ErrReplayItemIDMismatch
	}

	totalCopies := snapshotItem.AvailableCopiesCount + snapshotItem.BorrowedCopiesCount

	item, err := catalog.Register(snapshotItem.Title, int(totalCopies))
	if err != nil {
		return err
	}

	history, err := restoreHistory(snapshotItem.History)
	if err != nil {
		return err
	}

	states, err := restoreStates(snapshotItem.States, history)
	if err != nil {
		return err
	}

	var openRecords uint

	for i, record := range history {
		state, exists := states[record.BorrowerID]
		if !exists {
			return fmt.Errorf("record %d: borrower %s has no borrow state", i, record.BorrowerID)
		}

		if record.IsReturned() {
			continue
		}

		if !state.IsCurrentlyBorrowed || state.ActiveRecordIndex != i {
			return fmt.Errorf("record %d: open borrow of %s is not the active record of its borrower", i, record.BorrowerID)
		}

		openRecords++
	}

	if openRecords != snapshotItem.BorrowedCopiesCount {
		return fmt.Errorf("borrowed copies count %d does not match %d open records", snapshotItem.BorrowedCopiesCount, openRecords)
	}

	for borrowerID, state := range states {
		ledger.setState(borrowerID, item.ID, state)
	}

	if len(history) > 0 {
		ledger.histories[item.ID] = history
	}

	slot, _ := catalog.slotByID(item.ID)
	slot.AvailableCopiesCount = snapshotItem.AvailableCopiesCount
	slot.BorrowedCopiesCount = snapshotItem.BorrowedCopiesCount

	return nil
}

func restoreHistory(snapshotHistory []SnapshotBorrowRecord) ([]BorrowRecord, error) {
	history := make([]BorrowRecord, 0, len(snapshotHistory))

	for i, record := range snapshotHistory {
		if record.BorrowStartTime.IsZero() {
			return nil, fmt.Errorf("record %d: borrow start time is missing", i)
		}

		if !record.ReturnTime.IsZero() && record.ReturnTime.Before(record.BorrowStartTime) {
			return nil, fmt.Errorf("record %d: returned before it was borrowed", i)
		}

		history = append(history, BorrowRecord{
			BorrowStartTime: record.BorrowStartTime,
			ReturnTime:      record.ReturnTime,
			BorrowerID:      record.BorrowerID,
		})
	}

	return history, nil
}

// restoreStates checks that every state points at a record of its own borrower,
// open when the state is borrowed and returned otherwise.
func restoreStates(snapshotStates []SnapshotBorrowState, history []BorrowRecord) (map[BorrowerID]BorrowState, error) {
	states := make(map[BorrowerID]BorrowState, len(snapshotStates))

	for _, state := range snapshotStates {
		if _, exists := states[state.BorrowerID]; exists {
			return nil, fmt.Errorf("duplicate borrow state for borrower %s", state.BorrowerID)
		}

		if state.ActiveRecordIndex < 0 || state.ActiveRecordIndex >= len(history) {
			return nil, fmt.Errorf("active record index %d of %s out of range", state.ActiveRecordIndex, state.BorrowerID)
		}

		active := history[state.ActiveRecordIndex]
		if active.BorrowerID != state.BorrowerID {
			return nil, fmt.Errorf("active record %d does not belong to %s", state.ActiveRecordIndex, state.BorrowerID)
		}

		if active.IsReturned() == state.IsCurrentlyBorrowed {
			return nil, fmt.Errorf("active record %d of %s disagrees with its borrow state", state.ActiveRecordIndex, state.BorrowerID)
		}

		states[state.BorrowerID] = BorrowState{
			IsCurrentlyBorrowed: state.IsCurrentlyBorrowed,
			ActiveRecordIndex:   state.ActiveRecordIndex,
		}
	}

	return states, nil
}

// MarshalSnapshot encodes a snapshot as JSON.
func MarshalSnapshot(snapshot RegistrySnapshot) ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(snapshot)
}

// UnmarshalSnapshot decodes a snapshot from JSON. It does not validate the registry invariants; Restore does.
func UnmarshalSnapshot(data []byte) (RegistrySnapshot, error) {
	snapshot := RegistrySnapshot{}

	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &snapshot); err != nil {
		return RegistrySnapshot{}, errors.Join(ErrInvalidSnapshot, err)
	}

	return snapshot, nil
}
