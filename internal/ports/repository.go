package ports

import (
	"context"

	"jewelpos-shopify-sync/internal/domain"
)

// WebhookEventLog records every received webhook delivery for auditing.
// Logging failures must never affect the acknowledgment sent to Shopify.
type WebhookEventLog interface {
	LogWebhook(ctx context.Context, event *domain.WebhookEvent) error
}

// DeliveryDedup remembers webhook delivery ids so platform-side retries are
// acknowledged without being applied twice. Best-effort: a store outage
// means a retry may be applied again, which the last-writer-wins document
// store tolerates.
type DeliveryDedup interface {
	// Seen marks the delivery id and reports whether it was already marked.
	Seen(ctx context.Context, deliveryID string) (bool, error)
}
