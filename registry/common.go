package registry

import (
	"time"

	"github.com/google/uuid"
)

// ItemID identifies an item in the Catalog. Ids are assigned sequentially, starting at 0.
type ItemID = uint

// BorrowerID identifies a borrower.
type BorrowerID = uuid.UUID

// CallerID identifies the caller of an administrative operation.
type CallerID = uuid.UUID

// ToOccurredAt converts a time to UTC with microsecond precision, so timestamps survive a round trip
// through any journal backend unchanged.
func ToOccurredAt(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
