package ports

import (
	"context"
	"time"

	"kopikurir/internal/core/domain/model/kernel"
	"kopikurir/internal/core/domain/model/outbound"
)

// MessageRepository defines the persistence contract for outbound message
// aggregates processed by the reliability worker.
type MessageRepository interface {
	// Add persists a newly enqueued message.
	Add(ctx context.Context, aggregate *outbound.Message) error

	// Update persists changes to an existing message.
	Update(ctx context.Context, aggregate *outbound.Message) error

	// Get retrieves a message by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*outbound.Message, error)

	// GetAllNeedingReconciliation retrieves messages that have a provider
	// message identifier but are not yet in a terminal state, so the worker
	// can ask the provider for their real delivery status.
	GetAllNeedingReconciliation(ctx context.Context) ([]*outbound.Message, error)

	// GetAllDueForResend retrieves messages in a failure state whose backoff
	// window has elapsed at the given instant and whose retry budget is not
	// exhausted.
	GetAllDueForResend(ctx context.Context, now time.Time) ([]*outbound.Message, error)

	// CountRetryBacklog reports how many messages are waiting for a retry.
	CountRetryBacklog(ctx context.Context) (int64, error)
}
