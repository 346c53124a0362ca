package journal

import (
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/lending-registry-go/registry"
)

// StorableNotifications is an alias type for a slice of StorableNotification.
type StorableNotifications = []StorableNotification

// StorableNotification is the DTO journals store and return.
//
// ItemID and OccurredAt duplicate values from the payload so backends can filter and index on them.
// Build it with BuildStorableNotification or StorableNotificationFrom.
type StorableNotification struct {
	NotificationType string
	ItemID           registry.ItemID
	OccurredAt       time.Time
	PayloadJSON      []byte
	MetadataJSON     []byte
}

// BuildStorableNotification validates payloadJSON and metadataJSON and populates a StorableNotification.
func BuildStorableNotification(
	notificationType string,
	itemID registry.ItemID,
	occurredAt time.Time,
	payloadJSON []byte,
	metadataJSON []byte,
) (StorableNotification, error) {

	if !jsoniter.Valid(payloadJSON) {
		return StorableNotification{}, ErrInvalidPayloadJSON
	}

	if !jsoniter.Valid(metadataJSON) {
		return StorableNotification{}, ErrInvalidMetadataJSON
	}

	return StorableNotification{
		NotificationType: notificationType,
		ItemID:           itemID,
		OccurredAt:       registry.ToOccurredAt(occurredAt),
		PayloadJSON:      payloadJSON,
		MetadataJSON:     metadataJSON,
	}, nil
}
