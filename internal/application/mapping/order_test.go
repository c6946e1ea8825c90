package mapping

import (
	"testing"

	"jewelpos-shopify-sync/internal/infrastructure/shopify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureOrder(status string) shopify.Order {
	return shopify.Order{
		ID:          555001,
		OrderNumber: 1001,
		Customer: &shopify.Customer{
			ID:        7001,
			FirstName: "Amara",
			LastName:  "Perera",
			Phone:     "+94771234567",
		},
		LineItems: []shopify.LineItem{
			{SKU: "R-101", Title: "Gold Ring", Quantity: 2, Price: "45000.00"},
			{SKU: "", Title: "Gold Chain", Quantity: 1, Price: "60000.00"},
		},
		SubtotalPrice:   "150000.00",
		TotalDiscounts:  "0.00",
		TotalPrice:      "150000.00",
		FinancialStatus: status,
		CreatedAt:       "2026-08-12T10:15:00+05:30",
	}
}

func TestOrder(t *testing.T) {
	t.Run("paid order settles in full", func(t *testing.T) {
		inv := Order(fixtureOrder("paid"))

		assert.Equal(t, "shopify-order-1001", inv.ID)
		assert.Equal(t, int64(555001), inv.ShopifyID)
		assert.Equal(t, 150000.00, inv.GrandTotal)
		assert.Equal(t, 150000.00, inv.AmountPaid)
		assert.Equal(t, 0.00, inv.BalanceDue)
	})

	t.Run("pending order is fully owed", func(t *testing.T) {
		inv := Order(fixtureOrder("pending"))

		assert.Equal(t, 0.00, inv.AmountPaid)
		assert.Equal(t, 150000.00, inv.BalanceDue)
	})

	t.Run("partially paid is treated as settled", func(t *testing.T) {
		inv := Order(fixtureOrder("partially_paid"))
		assert.Equal(t, 150000.00, inv.AmountPaid)
		assert.Equal(t, 0.00, inv.BalanceDue)
	})

	t.Run("carries source metadata", func(t *testing.T) {
		inv := Order(fixtureOrder("paid"))

		assert.Equal(t, "shopify", inv.Source)
		assert.Equal(t, "Imported from Shopify order #1001", inv.Notes)
		assert.Equal(t, "2026-08-12T10:15:00+05:30", inv.CreatedAt)
		assert.Empty(t, inv.Payments)
		assert.NotNil(t, inv.Payments)
	})

	t.Run("metal rates stay zero", func(t *testing.T) {
		inv := Order(fixtureOrder("paid"))
		assert.Zero(t, inv.Rate18K)
		assert.Zero(t, inv.Rate21K)
		assert.Zero(t, inv.Rate22K)
		assert.Zero(t, inv.Rate24K)
	})

	t.Run("customer fields come from the embedded customer", func(t *testing.T) {
		inv := Order(fixtureOrder("paid"))
		assert.Equal(t, "shopify-7001", inv.CustomerID)
		assert.Equal(t, "Amara Perera", inv.CustomerName)
		assert.Equal(t, "+94771234567", inv.CustomerPhone)
	})

	t.Run("guest checkout gets the placeholder name", func(t *testing.T) {
		o := fixtureOrder("paid")
		o.Customer = nil
		o.Phone = "+94772222222"

		inv := Order(o)
		assert.Empty(t, inv.CustomerID)
		assert.Equal(t, "Shopify Customer", inv.CustomerName)
		assert.Equal(t, "+94772222222", inv.CustomerPhone)
	})

	t.Run("mapping is deterministic", func(t *testing.T) {
		assert.Equal(t, Order(fixtureOrder("paid")), Order(fixtureOrder("paid")))
	})
}

func TestOrderLine(t *testing.T) {
	t.Run("making charges absorb the line total", func(t *testing.T) {
		item := OrderLine(shopify.LineItem{SKU: "R-101", Title: "Gold Ring", Quantity: 2, Price: "45000.00"})

		assert.Equal(t, 2, item.Quantity)
		assert.Equal(t, 45000.00, item.UnitPrice)
		assert.Equal(t, 90000.00, item.LineTotal)
		assert.Equal(t, 90000.00, item.MakingCharges)
		assert.Zero(t, item.MetalCost)
		assert.Zero(t, item.WastageCost)
		assert.Zero(t, item.StoneCost)
		assert.Zero(t, item.DiamondCost)
	})

	t.Run("zero quantity is clamped to one", func(t *testing.T) {
		item := OrderLine(shopify.LineItem{Title: "Gold Chain", Quantity: 0, Price: "60000.00"})
		assert.Equal(t, 1, item.Quantity)
		assert.Equal(t, 60000.00, item.LineTotal)
	})
}

func TestParseMoney(t *testing.T) {
	assert.Equal(t, "45000", parseMoney("45000.00").String())
	assert.True(t, parseMoney("").IsZero())
	assert.True(t, parseMoney("not-a-number").IsZero())

	inv := Order(shopify.Order{OrderNumber: 1, TotalPrice: "garbage"})
	require.Equal(t, 0.00, inv.GrandTotal)
	require.Equal(t, 0.00, inv.BalanceDue)
}
