package journal

import (
	"context"
	"errors"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

// Metadata carries tracking information for a journaled notification.
type Metadata struct {
	MessageID     string `json:"message_id"`
	CorrelationID string `json:"correlation_id"`
}

type correlationIDKey struct{}

// ContextWithCorrelationID returns a context whose journaled notifications share correlationID.
func ContextWithCorrelationID(ctx context.Context, correlationID uuid.UUID) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, correlationID)
}

// BuildMetadata creates Metadata with a fresh message id.
// The correlation id comes from ctx; without one the notification correlates with itself.
func BuildMetadata(ctx context.Context) Metadata {
	messageID := uuid.New()

	correlationID, ok := ctx.Value(correlationIDKey{}).(uuid.UUID)
	if !ok {
		correlationID = messageID
	}

	return Metadata{
		MessageID:     messageID.String(),
		CorrelationID: correlationID.String(),
	}
}

// MetadataFrom decodes the Metadata of a stored notification.
func MetadataFrom(storable StorableNotification) (Metadata, error) {
	metadata := Metadata{}

	if err := jsoniter.ConfigFastest.Unmarshal(storable.MetadataJSON, &metadata); err != nil {
		return Metadata{}, errors.Join(ErrMappingToMetadataFailed, err)
	}

	return metadata, nil
}
