package services

import (
	"strings"

	"market-scout/models"
)

// BrandAll disables brand filtering.
const BrandAll = "All"

// Filter narrows a result set by brand and price. MaxPrice <= 0 means no upper bound.
type Filter struct {
	Brand    string
	MinPrice float64
	MaxPrice float64
}

// Apply returns the listings that pass f, preserving order. The input is not modified.
func (f Filter) Apply(listings []models.Listing) []models.Listing {
	brand := strings.ToLower(strings.TrimSpace(f.Brand))
	if strings.EqualFold(brand, BrandAll) {
		brand = ""
	}

	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if brand != "" && !strings.Contains(strings.ToLower(l.Title), brand) {
			continue
		}
		if l.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && l.Price > f.MaxPrice {
			continue
		}
		out = append(out, l)
	}
	return out
}
