package journal

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/lending-registry-go/registry"
)

// StorableNotificationFrom serializes a registry notification and its metadata.
func StorableNotificationFrom(notification registry.Notification, metadata Metadata) (StorableNotification, error) {
	payloadJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(notification)
	if err != nil {
		return StorableNotification{}, errors.Join(ErrMappingToStorableNotificationFailed, err)
	}

	metadataJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(metadata)
	if err != nil {
		return StorableNotification{}, errors.Join(ErrMappingToStorableNotificationFailed, err)
	}

	storable, err := BuildStorableNotification(
		notification.IsNotificationType(),
		notification.AffectedItemID(),
		notification.HasOccurredAt(),
		payloadJSON,
		metadataJSON,
	)
	if err != nil {
		return StorableNotification{}, errors.Join(ErrMappingToStorableNotificationFailed, err)
	}

	return storable, nil
}

// NotificationFrom decodes a stored notification back into its registry type.
func NotificationFrom(storable StorableNotification) (registry.Notification, error) {
	switch storable.NotificationType {
	case registry.ItemRegisteredNotificationType:
		return decode[registry.ItemRegistered](storable)

	case registry.ItemBorrowedNotificationType:
		return decode[registry.ItemBorrowed](storable)

	case registry.ItemReturnedNotificationType:
		return decode[registry.ItemReturned](storable)

	default:
		return nil, errors.Join(ErrMappingToNotificationFailed, ErrUnknownNotificationType, fmt.Errorf("type %q", storable.NotificationType))
	}
}

// NotificationsFrom decodes stored notifications, keeping their order.
func NotificationsFrom(storables StorableNotifications) (registry.Notifications, error) {
	notifications := make(registry.Notifications, 0, len(storables))

	for _, storable := range storables {
		notification, err := NotificationFrom(storable)
		if err != nil {
			return nil, err
		}

		notifications = append(notifications, notification)
	}

	return notifications, nil
}

func decode[T registry.Notification](storable StorableNotification) (registry.Notification, error) {
	var notification T

	if err := jsoniter.ConfigFastest.Unmarshal(storable.PayloadJSON, &notification); err != nil {
		return nil, errors.Join(ErrMappingToNotificationFailed, err)
	}

	return notification, nil
}
