package mapping

import (
	"fmt"

	"jewelpos-shopify-sync/internal/domain"
	"jewelpos-shopify-sync/internal/infrastructure/shopify"

	"github.com/shopspring/decimal"
)

// invoiceIDPrefix namespaces imported invoices by order number.
const invoiceIDPrefix = "shopify-order-"

// sourceTag marks records written by this integration.
const sourceTag = "shopify"

// Order maps a Shopify order to a POS invoice. Payment history is not
// available from Shopify, so payments stay empty and amount paid is derived
// from the financial status alone: a paid or partially paid order is treated
// as settled in full, anything else as unpaid. The creation timestamp is
// copied verbatim from the source.
func Order(o shopify.Order) domain.Invoice {
	grandTotal := parseMoney(o.TotalPrice)

	amountPaid := decimal.Zero
	if o.FinancialStatus == "paid" || o.FinancialStatus == "partially_paid" {
		amountPaid = grandTotal
	}

	items := make([]domain.InvoiceItem, 0, len(o.LineItems))
	for _, li := range o.LineItems {
		items = append(items, OrderLine(li))
	}

	inv := domain.Invoice{
		ID:          InvoiceID(o.OrderNumber),
		ShopifyID:   o.ID,
		OrderNumber: o.OrderNumber,
		Items:       items,
		Subtotal:    parseMoney(o.SubtotalPrice).InexactFloat64(),
		Discount:    parseMoney(o.TotalDiscounts).InexactFloat64(),
		GrandTotal:  grandTotal.InexactFloat64(),
		AmountPaid:  amountPaid.InexactFloat64(),
		BalanceDue:  grandTotal.Sub(amountPaid).InexactFloat64(),
		CreatedAt:   o.CreatedAt,
		Payments:    []string{},
		Source:      sourceTag,
		Notes:       fmt.Sprintf("Imported from Shopify order #%d", o.OrderNumber),
	}

	inv.CustomerPhone = o.Phone
	if o.Customer != nil {
		inv.CustomerID = CustomerID(o.Customer.ID)
		inv.CustomerName = customerName(o.Customer.FirstName, o.Customer.LastName, o.Customer.Email)
		if o.Customer.Phone != "" {
			inv.CustomerPhone = o.Customer.Phone
		}
	} else {
		inv.CustomerName = customerPlaceholderName
	}

	return inv
}

// InvoiceID derives the POS document id for a Shopify order number.
func InvoiceID(orderNumber int) string {
	return fmt.Sprintf("%s%d", invoiceIDPrefix, orderNumber)
}

// OrderLine maps one order line. Shopify carries no cost decomposition, so
// making charges absorb the full line total and the metal, wastage, stone
// and diamond costs are zero.
func OrderLine(li shopify.LineItem) domain.InvoiceItem {
	price := parseMoney(li.Price)

	quantity := li.Quantity
	if quantity == 0 {
		quantity = 1
	}

	lineTotal := price.Mul(decimal.NewFromInt(int64(quantity)))

	return domain.InvoiceItem{
		SKU:           li.SKU,
		Name:          li.Title,
		Quantity:      quantity,
		UnitPrice:     price.InexactFloat64(),
		LineTotal:     lineTotal.InexactFloat64(),
		MakingCharges: lineTotal.InexactFloat64(),
	}
}

// parseMoney parses one of Shopify's decimal-string money fields,
// defaulting to zero on absence or parse failure.
func parseMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
