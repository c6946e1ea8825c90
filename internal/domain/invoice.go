package domain

// InvoiceItem is one ordered line on an imported invoice. Shopify carries no
// metal/stone cost decomposition, so every cost field is zero except making
// charges, which absorbs the full line total.
type InvoiceItem struct {
	SKU           string  `json:"sku"`
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	LineTotal     float64 `json:"line_total"`
	MetalCost     float64 `json:"metal_cost"`
	WastageCost   float64 `json:"wastage_cost"`
	StoneCost     float64 `json:"stone_cost"`
	DiamondCost   float64 `json:"diamond_cost"`
	MakingCharges float64 `json:"making_charges"`
}

func (it InvoiceItem) Fields() map[string]any {
	return map[string]any{
		"sku":           it.SKU,
		"name":          it.Name,
		"quantity":      float64(it.Quantity),
		"unitPrice":     it.UnitPrice,
		"lineTotal":     it.LineTotal,
		"metalCost":     it.MetalCost,
		"wastageCost":   it.WastageCost,
		"stoneCost":     it.StoneCost,
		"diamondCost":   it.DiamondCost,
		"makingCharges": it.MakingCharges,
	}
}

// Invoice is the POS-side record of an imported Shopify order.
// BalanceDue always equals GrandTotal - AmountPaid at construction time.
// CreatedAt is copied verbatim from the source order, not reformatted.
type Invoice struct {
	ID            string        `json:"id"`
	ShopifyID     int64         `json:"shopify_id"`
	OrderNumber   int           `json:"order_number"`
	CustomerID    string        `json:"customer_id"`
	CustomerName  string        `json:"customer_name"`
	CustomerPhone string        `json:"customer_phone"`
	Items         []InvoiceItem `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	Discount      float64       `json:"discount"`
	GrandTotal    float64       `json:"grand_total"`
	AmountPaid    float64       `json:"amount_paid"`
	BalanceDue    float64       `json:"balance_due"`

	// Per-karat gold rates are not meaningful for historical imports.
	Rate18K float64 `json:"rate_18k"`
	Rate21K float64 `json:"rate_21k"`
	Rate22K float64 `json:"rate_22k"`
	Rate24K float64 `json:"rate_24k"`

	CreatedAt string   `json:"created_at"`
	Payments  []string `json:"payments"`
	Source    string   `json:"source"`
	Notes     string   `json:"notes"`
}

func (inv *Invoice) Fields() map[string]any {
	items := make([]any, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, it.Fields())
	}
	payments := make([]any, 0, len(inv.Payments))
	for _, p := range inv.Payments {
		payments = append(payments, p)
	}
	return map[string]any{
		"shopifyOrderId": float64(inv.ShopifyID),
		"orderNumber":    float64(inv.OrderNumber),
		"customerId":     inv.CustomerID,
		"customerName":   inv.CustomerName,
		"customerPhone":  inv.CustomerPhone,
		"items":          items,
		"subtotal":       inv.Subtotal,
		"discount":       inv.Discount,
		"grandTotal":     inv.GrandTotal,
		"amountPaid":     inv.AmountPaid,
		"balanceDue":     inv.BalanceDue,
		"rate18k":        inv.Rate18K,
		"rate21k":        inv.Rate21K,
		"rate22k":        inv.Rate22K,
		"rate24k":        inv.Rate24K,
		"createdAt":      inv.CreatedAt,
		"payments":       payments,
		"source":         inv.Source,
		"notes":          inv.Notes,
	}
}
