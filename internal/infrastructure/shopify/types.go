package shopify

// Wire shapes of the Shopify Admin API resources the sync layer consumes.
// These are transient, read-only views: decoded once, run through a mapper,
// never persisted verbatim. Money fields are decimal strings on the wire and
// stay strings here; parsing (with defaults) is the mappers' job.

// Address is the subset of a Shopify address the mappers use.
type Address struct {
	Address1 string `json:"address1"`
	City     string `json:"city"`
	Phone    string `json:"phone"`
}

// Customer is a Shopify customer resource.
type Customer struct {
	ID             int64    `json:"id"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	DefaultAddress *Address `json:"default_address"`
}

// LineItem is one line on a Shopify order.
type LineItem struct {
	SKU      string `json:"sku"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// Order is a Shopify order resource.
type Order struct {
	ID              int64      `json:"id"`
	OrderNumber     int        `json:"order_number"`
	Customer        *Customer  `json:"customer"`
	LineItems       []LineItem `json:"line_items"`
	SubtotalPrice   string     `json:"subtotal_price"`
	TotalDiscounts  string     `json:"total_discounts"`
	TotalPrice      string     `json:"total_price"`
	FinancialStatus string     `json:"financial_status"`
	CreatedAt       string     `json:"created_at"`
	Phone           string     `json:"phone"`
}

// Variant is one sellable variant of a Shopify product.
type Variant struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	SKU   string `json:"sku"`
	Price string `json:"price"`
}

// Image is a Shopify product image.
type Image struct {
	Src string `json:"src"`
}

// Product is a Shopify product resource with its variants.
type Product struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	BodyHTML string    `json:"body_html"`
	Variants []Variant `json:"variants"`
	Image    *Image    `json:"image"`
}
