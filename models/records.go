package models

import "time"

// SearchEvent is one append-only row of the search log.
type SearchEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Query     string    `json:"query"`
	Brand     string    `json:"brand"`
	User      string    `json:"user"`
}

// Favorite is a listing a user bookmarked.
type Favorite struct {
	Timestamp time.Time `json:"timestamp"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	Link      string    `json:"link"`
	User      string    `json:"user"`
}

// Subscriber grants access until ExpiryDate.
type Subscriber struct {
	Email      string    `json:"email"`
	StartDate  time.Time `json:"start_date"`
	ExpiryDate time.Time `json:"expiry_date"`
}

// AccessRequest is a message left by someone asking for access.
type AccessRequest struct {
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ListingDraft is generated copy for a new listing built from a photo.
type ListingDraft struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Tags          string  `json:"tags"`
	Color         string  `json:"color"`
	SuggestedLow  float64 `json:"suggested_low"`
	SuggestedHigh float64 `json:"suggested_high"`
	Text          string  `json:"text"`
}
