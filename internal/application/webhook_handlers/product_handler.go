package webhook_handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"jewelpos-shopify-sync/internal/application/mapping"
	"jewelpos-shopify-sync/internal/infrastructure/shopify"
	"jewelpos-shopify-sync/internal/ports"

	"github.com/rs/zerolog"
)

// ProductHandler applies product create/update webhooks. One Shopify
// product fans out into one POS document per variant, each keyed by its
// derived sku.
type ProductHandler struct {
	store  ports.DocumentStore
	logger zerolog.Logger
}

// NewProductHandler creates a new product webhook handler.
func NewProductHandler(store ports.DocumentStore, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{store: store, logger: logger}
}

func (h *ProductHandler) Resource() string { return "product" }

// Handle parses the product payload and upserts every variant independently.
// A variant write failing does not stop the remaining variants.
func (h *ProductHandler) Handle(ctx context.Context, payload []byte) error {
	var p shopify.Product
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("failed to parse product webhook payload: %w", err)
	}

	var errs []error
	written := 0
	for _, product := range mapping.Products(p) {
		if err := h.store.Set(ctx, "products", product.SKU, product.Fields()); err != nil {
			errs = append(errs, fmt.Errorf("failed to upsert product %s: %w", product.SKU, err))
			continue
		}
		written++
	}

	h.logger.Info().
		Int64("productId", p.ID).
		Str("title", p.Title).
		Int("variants", written).
		Msg("Product webhook applied")
	return errors.Join(errs...)
}
