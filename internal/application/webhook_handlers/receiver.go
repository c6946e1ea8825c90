package webhook_handlers

import "context"

// Receiver applies one verified webhook payload to the POS records. The
// HTTP layer has already checked the signature; receivers only parse, map
// and upsert.
type Receiver interface {
	// Resource names the record kind, used for routing, logs and metrics.
	Resource() string

	// Handle parses the raw payload and upserts the mapped record(s).
	Handle(ctx context.Context, payload []byte) error
}
