// Package mapping converts Shopify wire shapes into POS records. Every
// function is pure and total: missing or malformed source fields resolve to
// documented defaults, never to an error, because malformed upstream
// payloads are ordinary operational input.
package mapping

import (
	"fmt"
	"strings"

	"jewelpos-shopify-sync/internal/domain"
	"jewelpos-shopify-sync/internal/infrastructure/shopify"
)

// customerIDPrefix namespaces imported customers away from ids chosen for
// natively created POS records.
const customerIDPrefix = "shopify-"

// customerPlaceholderName is used when a customer carries neither a name
// nor an email.
const customerPlaceholderName = "Shopify Customer"

// Customer maps a Shopify customer to its POS record. The id is a pure
// function of the Shopify id, so re-importing the same customer upserts the
// same document.
func Customer(c shopify.Customer) domain.Customer {
	phone := c.Phone
	if phone == "" && c.DefaultAddress != nil {
		phone = c.DefaultAddress.Phone
	}

	address := ""
	if c.DefaultAddress != nil {
		address = c.DefaultAddress.Address1 + ", " + c.DefaultAddress.City
	}

	return domain.Customer{
		ID:                CustomerID(c.ID),
		Name:              customerName(c.FirstName, c.LastName, c.Email),
		Phone:             phone,
		Email:             c.Email,
		Address:           address,
		ShopifyCustomerID: c.ID,
	}
}

// CustomerID derives the POS document id for a Shopify customer id.
func CustomerID(shopifyID int64) string {
	return fmt.Sprintf("%s%d", customerIDPrefix, shopifyID)
}

// customerName joins first and last name, falling back to the email and
// then to a fixed placeholder.
func customerName(first, last, email string) string {
	if first != "" || last != "" {
		return strings.TrimSpace(first + " " + last)
	}
	if email != "" {
		return email
	}
	return customerPlaceholderName
}
