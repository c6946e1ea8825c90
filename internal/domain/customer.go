package domain

// Customer is the POS-side customer record produced by the Shopify mapper.
// ID is a pure function of the Shopify customer id ("shopify-<id>") so
// repeated imports upsert the same document instead of inserting duplicates.
type Customer struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	Address           string `json:"address"`
	ShopifyCustomerID int64  `json:"shopify_customer_id"`
}

func (c *Customer) Fields() map[string]any {
	return map[string]any{
		"name":              c.Name,
		"phone":             c.Phone,
		"email":             c.Email,
		"address":           c.Address,
		"shopifyCustomerId": float64(c.ShopifyCustomerID),
	}
}
