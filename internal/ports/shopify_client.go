package ports

import (
	"context"
	"encoding/json"

	"jewelpos-shopify-sync/internal/domain"
)

// ShopifyAdmin is the outbound surface of the Shopify Admin API used by the
// sync layer. Implementations authenticate every call with the connection's
// access token, read fresh from the document store by the caller.
type ShopifyAdmin interface {
	// ExchangeToken trades an OAuth authorization code for a long-lived
	// access token via a server-to-server call.
	ExchangeToken(ctx context.Context, shop, code string) (string, error)

	// FetchAll walks a cursor-linked collection endpoint to completion and
	// returns the nested collection elements in page order. On a mid-walk
	// failure the records accumulated so far are returned with the error.
	FetchAll(ctx context.Context, conn *domain.ShopConnection, path, root string) ([]json.RawMessage, error)

	// RegisterWebhooks subscribes each topic to its callback address.
	RegisterWebhooks(ctx context.Context, conn *domain.ShopConnection, subscriptions map[string]string) error
}
