package domain

import "time"

// ShopConnection is the persisted credential for one connected Shopify store.
// It is owned by the document store and re-read on every outbound call; no
// in-process copy is kept, so a rotated token is picked up immediately.
type ShopConnection struct {
	Shop        string    `json:"shop"`
	AccessToken string    `json:"-"`
	ConnectedAt time.Time `json:"connected_at"`
}

// NewShopConnection records a freshly exchanged token for a shop.
func NewShopConnection(shop, accessToken string) *ShopConnection {
	return &ShopConnection{
		Shop:        shop,
		AccessToken: accessToken,
		ConnectedAt: time.Now().UTC(),
	}
}

// Fields returns the document representation written to the store.
func (c *ShopConnection) Fields() map[string]any {
	return map[string]any{
		"shop":        c.Shop,
		"accessToken": c.AccessToken,
		"connectedAt": c.ConnectedAt.UTC().Format(time.RFC3339),
	}
}

// ConnectionFromFields rebuilds a connection from a stored document.
// Missing or mistyped fields resolve to zero values.
func ConnectionFromFields(fields map[string]any) *ShopConnection {
	conn := &ShopConnection{}
	if v, ok := fields["shop"].(string); ok {
		conn.Shop = v
	}
	if v, ok := fields["accessToken"].(string); ok {
		conn.AccessToken = v
	}
	if v, ok := fields["connectedAt"].(string); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			conn.ConnectedAt = t
		}
	}
	return conn
}
