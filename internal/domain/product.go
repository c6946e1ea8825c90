package domain

// Product is the POS-side product record derived from one Shopify variant.
// Shopify has no metallurgical schema, so metal fields are defaulted to the
// shop's baseline (gold, 21k, no stones) and the variant price is carried
// as a flat custom price.
type Product struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	MetalType   string  `json:"metal_type"`
	Karat       string  `json:"karat"`
	HasStones   bool    `json:"has_stones"`
	HasDiamonds bool    `json:"has_diamonds"`
	FlatPrice   bool    `json:"flat_price"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Description string  `json:"description"`
	ShopifyID   int64   `json:"shopify_id"`
}

func (p *Product) Fields() map[string]any {
	return map[string]any{
		"name":             p.Name,
		"metalType":        p.MetalType,
		"karat":            p.Karat,
		"hasStones":        p.HasStones,
		"hasDiamonds":      p.HasDiamonds,
		"flatPrice":        p.FlatPrice,
		"price":            p.Price,
		"imageUrl":         p.ImageURL,
		"description":      p.Description,
		"shopifyProductId": float64(p.ShopifyID),
	}
}
