package domain

import "strings"

// Product represents a product in the remote catalog. Field tags follow the
// catalog service's JSON contract.
type Product struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	Brand              string   `json:"brand"`
	Category           string   `json:"category"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images"`
}

// ProductPage is the envelope the catalog service returns for list requests.
type ProductPage struct {
	Products []Product `json:"products"`
}

// FilterProducts returns the products whose title or category contains the
// query as a case-insensitive substring. An empty query matches everything.
// The input slice is never mutated; order is preserved.
func FilterProducts(products []Product, query string) []Product {
	if query == "" {
		out := make([]Product, len(products))
		copy(out, products)
		return out
	}

	q := strings.ToLower(query)
	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
