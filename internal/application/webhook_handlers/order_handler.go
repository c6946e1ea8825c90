package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"jewelpos-shopify-sync/internal/application/mapping"
	"jewelpos-shopify-sync/internal/infrastructure/shopify"
	"jewelpos-shopify-sync/internal/ports"

	"github.com/rs/zerolog"
)

// OrderHandler applies order create/update webhooks.
type OrderHandler struct {
	store  ports.DocumentStore
	logger zerolog.Logger
}

// NewOrderHandler creates a new order webhook handler.
func NewOrderHandler(store ports.DocumentStore, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{store: store, logger: logger}
}

func (h *OrderHandler) Resource() string { return "order" }

// Handle parses the order payload, maps it to an invoice and upserts it.
func (h *OrderHandler) Handle(ctx context.Context, payload []byte) error {
	var o shopify.Order
	if err := json.Unmarshal(payload, &o); err != nil {
		return fmt.Errorf("failed to parse order webhook payload: %w", err)
	}

	invoice := mapping.Order(o)
	if err := h.store.Set(ctx, "invoices", invoice.ID, invoice.Fields()); err != nil {
		return fmt.Errorf("failed to upsert invoice %s: %w", invoice.ID, err)
	}

	h.logger.Info().
		Str("invoiceId", invoice.ID).
		Int("orderNumber", invoice.OrderNumber).
		Float64("grandTotal", invoice.GrandTotal).
		Msg("Order webhook applied")
	return nil
}
