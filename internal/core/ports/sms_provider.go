package ports

import (
	"context"
)

// SMSSendResult is the provider acknowledgement for a submitted message.
type SMSSendResult struct {
	// ProviderMessageID is the identifier the provider assigned to the
	// message. Used later to reconcile delivery status.
	ProviderMessageID string
}

// SMSProvider is the gateway to the external SMS service.
// Implementations must treat any transport or provider level failure as an
// error return; the caller decides whether to retry.
type SMSProvider interface {
	// Send submits a message to the provider.
	Send(ctx context.Context, phone, body string) (SMSSendResult, error)

	// Status asks the provider for the current delivery status of a
	// previously submitted message. The returned value is the provider's
	// status string, normalized to lower case.
	Status(ctx context.Context, providerMessageID string) (string, error)
}
