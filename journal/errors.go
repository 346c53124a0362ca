package journal

import "errors"

var (
	// ErrInvalidPayloadJSON is returned when a payload is not valid JSON.
	ErrInvalidPayloadJSON = errors.New("payload json is not valid")

	// ErrInvalidMetadataJSON is returned when metadata is not valid JSON.
	ErrInvalidMetadataJSON = errors.New("metadata json is not valid")

	// ErrMappingToStorableNotificationFailed is returned when a notification cannot be serialized.
	ErrMappingToStorableNotificationFailed = errors.New("mapping to storable notification failed")

	// ErrMappingToNotificationFailed is returned when a stored payload cannot be decoded.
	ErrMappingToNotificationFailed = errors.New("mapping to notification failed")

	// ErrMappingToMetadataFailed is returned when stored metadata cannot be decoded.
	ErrMappingToMetadataFailed = errors.New("mapping to notification metadata failed")

	// ErrUnknownNotificationType is returned for a stored notification type this package does not know.
	ErrUnknownNotificationType = errors.New("unknown notification type")

	// ErrNilSource is returned when Rehydrate gets no Source.
	ErrNilSource = errors.New("journal source must not be nil")

	// ErrNilRegistry is returned when Rehydrate gets no registry.
	ErrNilRegistry = errors.New("registry must not be nil")
)
