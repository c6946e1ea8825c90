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

// CustomerHandler applies customer create/update webhooks.
type CustomerHandler struct {
	store  ports.DocumentStore
	logger zerolog.Logger
}

// NewCustomerHandler creates a new customer webhook handler.
func NewCustomerHandler(store ports.DocumentStore, logger zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{store: store, logger: logger}
}

func (h *CustomerHandler) Resource() string { return "customer" }

// Handle parses the customer payload, maps it and upserts the POS record.
func (h *CustomerHandler) Handle(ctx context.Context, payload []byte) error {
	var c shopify.Customer
	if err := json.Unmarshal(payload, &c); err != nil {
		return fmt.Errorf("failed to parse customer webhook payload: %w", err)
	}

	customer := mapping.Customer(c)
	if err := h.store.Set(ctx, "customers", customer.ID, customer.Fields()); err != nil {
		return fmt.Errorf("failed to upsert customer %s: %w", customer.ID, err)
	}

	h.logger.Info().
		Str("customerId", customer.ID).
		Str("email", customer.Email).
		Msg("Customer webhook applied")
	return nil
}
