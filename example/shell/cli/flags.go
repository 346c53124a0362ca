package cli

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/lending-registry-go/registry"
)

const (
	flagID       = "id"
	flagTitle    = "title"
	flagBorrower = "borrower"
	flagAt       = "at"
)

// ErrInvalidFlag is returned for flag values that cannot be parsed.
var ErrInvalidFlag = errors.New("invalid flag value")

// itemSelector identifies an item either by id or by title.
type itemSelector struct {
	id    uint
	title string
	byID  bool
}

func addItemSelectorFlags(cmd *cobra.Command, selector *itemSelector) {
	cmd.Flags().UintVar(&selector.id, flagID, 0, "item id")
	cmd.Flags().StringVar(&selector.title, flagTitle, "", "item title, matched exactly")
	cmd.MarkFlagsMutuallyExclusive(flagID, flagTitle)
	cmd.MarkFlagsOneRequired(flagID, flagTitle)
}

func (s *itemSelector) resolve(cmd *cobra.Command, r *registry.LendingRegistry) (registry.Item, error) {
	s.byID = cmd.Flags().Changed(flagID)

	if s.byID {
		return r.GetItemByID(s.id)
	}

	return r.GetItemByTitle(s.title)
}

func parseBorrower(value string) (registry.BorrowerID, error) {
	borrowerID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, errors.Join(ErrInvalidFlag, err)
	}

	return borrowerID, nil
}

// parseAt parses an RFC 3339 time. The empty string yields the zero time, which the registry
// replaces by its clock.
func parseAt(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	at, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.Join(ErrInvalidFlag, err)
	}

	return at, nil
}
