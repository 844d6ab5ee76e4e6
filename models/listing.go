package models

import "time"

// Listing is one scraped marketplace item. Price is always > 0 and Link is absolute.
type Listing struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Link  string  `json:"link"`
}

// MarketStats holds price statistics over a non-empty set of listings.
// A nil *MarketStats means "no stats".
type MarketStats struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Count   int     `json:"count"`
}

// ResaleLabel classifies how quickly an item priced relative to the market should resell.
type ResaleLabel string

const (
	LabelFastResale   ResaleLabel = "fast resale"
	LabelGoodResale   ResaleLabel = "good resale"
	LabelSlowSale     ResaleLabel = "slow sale"
	LabelVerySlowSale ResaleLabel = "very slow sale"
	LabelUnknown      ResaleLabel = "Unknown"
)

// PriceRange is an estimated resale price window.
type PriceRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Recommendation is the resale advice for a single price against a reference average.
type Recommendation struct {
	Label          ResaleLabel `json:"label"`
	Score          int         `json:"score"`
	EstimatedRange PriceRange  `json:"estimated_range"`
	TimeToSell     string      `json:"time_to_sell"`
}

// AnnotatedListing is a listing together with its recommendation; it is the export row.
type AnnotatedListing struct {
	Listing
	Recommendation *Recommendation `json:"recommendation,omitempty"`
}

// SearchResult is everything a presentation layer needs for one query run.
type SearchResult struct {
	Query      string             `json:"query"`
	Brand      string             `json:"brand"`
	MinPrice   float64            `json:"min_price"`
	MaxPrice   float64            `json:"max_price"`
	Listings   []AnnotatedListing `json:"listings"`
	Stats      *MarketStats       `json:"stats"`
	Saturation string             `json:"saturation,omitempty"`
	FetchedAt  time.Time          `json:"fetched_at"`
}
