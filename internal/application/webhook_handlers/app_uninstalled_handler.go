package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"jewelpos-shopify-sync/internal/application"

	"github.com/rs/zerolog"
)

// AppUninstalledHandler drops the stored credential when the merchant
// uninstalls the app. Shopify revokes the token on its side; clearing it
// here keeps later backfill attempts from failing with a stale credential.
type AppUninstalledHandler struct {
	connections *application.ConnectionService
	logger      zerolog.Logger
}

// NewAppUninstalledHandler creates a new app uninstalled webhook handler.
func NewAppUninstalledHandler(connections *application.ConnectionService, logger zerolog.Logger) *AppUninstalledHandler {
	return &AppUninstalledHandler{connections: connections, logger: logger}
}

func (h *AppUninstalledHandler) Resource() string { return "app_uninstalled" }

// Handle clears the shop connection. The shop record itself is kept for
// audit purposes; only the credential goes.
func (h *AppUninstalledHandler) Handle(ctx context.Context, payload []byte) error {
	var shopData struct {
		Domain          string `json:"domain"`
		MyshopifyDomain string `json:"myshopify_domain"`
	}
	if err := json.Unmarshal(payload, &shopData); err != nil {
		return fmt.Errorf("failed to parse app uninstalled webhook payload: %w", err)
	}

	shopDomain := shopData.MyshopifyDomain
	if shopDomain == "" {
		shopDomain = shopData.Domain
	}

	if err := h.connections.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear connection for %s: %w", shopDomain, err)
	}

	h.logger.Info().
		Str("shop", shopDomain).
		Msg("App uninstalled, stored credential cleared")
	return nil
}
