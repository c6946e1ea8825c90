package domain

// WebhookEvent is one delivery received from Shopify, as recorded in the
// audit log. Payload is the raw body exactly as received.
type WebhookEvent struct {
	DeliveryID string `json:"delivery_id"`
	Topic      string `json:"topic"`
	Shop       string `json:"shop"`
	Payload    []byte `json:"payload"`
	Verified   bool   `json:"verified"`

	// Error records a downstream processing failure. The delivery is still
	// acknowledged to Shopify; this is the out-of-band record of it.
	Error string `json:"error,omitempty"`
}
