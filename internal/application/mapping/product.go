package mapping

import (
	"fmt"
	"regexp"

	"jewelpos-shopify-sync/internal/domain"
	"jewelpos-shopify-sync/internal/infrastructure/shopify"
)

// skuFallbackPrefix keys generated skus by variant id. Manually entered POS
// skus use a human-chosen pattern, so the prefix cannot collide with them.
const skuFallbackPrefix = "SHOPIFY-PROD-"

// descriptionLimit bounds imported descriptions, matching the POS form field.
const descriptionLimit = 200

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Products maps a Shopify product to one POS product per variant. Shopify
// has no metallurgical schema, so every import gets the shop's baseline:
// gold, 21k, no stones, no diamonds, with the variant price carried as a
// flat custom price.
func Products(p shopify.Product) []domain.Product {
	description := truncate(tagPattern.ReplaceAllString(p.BodyHTML, ""), descriptionLimit)

	imageURL := ""
	if p.Image != nil {
		imageURL = p.Image.Src
	}

	out := make([]domain.Product, 0, len(p.Variants))
	for _, v := range p.Variants {
		sku := v.SKU
		if sku == "" {
			sku = fmt.Sprintf("%s%d", skuFallbackPrefix, v.ID)
		}

		name := p.Title
		if len(p.Variants) > 1 {
			name = p.Title + " - " + v.Title
		}

		out = append(out, domain.Product{
			SKU:         sku,
			Name:        name,
			MetalType:   "gold",
			Karat:       "21k",
			FlatPrice:   true,
			Price:       parseMoney(v.Price).InexactFloat64(),
			ImageURL:    imageURL,
			Description: description,
			ShopifyID:   p.ID,
		})
	}
	return out
}

// truncate cuts s to at most limit characters, with no ellipsis and no
// word-boundary awareness.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
