package storage

import (
	"context"

	"market-scout/models"
)

// EventRecorder is the write side of an event backend. Rows are append-only.
type EventRecorder interface {
	RecordSearch(ctx context.Context, ev models.SearchEvent) error
	AddFavorite(ctx context.Context, fav models.Favorite) error
	LogAccessRequest(ctx context.Context, req models.AccessRequest) error
}

// EventReader is the admin side of an event backend.
type EventReader interface {
	// Searches returns the search log, newest first.
	Searches(ctx context.Context) ([]models.SearchEvent, error)
	// Favorites returns favorites in the order they were added.
	Favorites(ctx context.Context) ([]models.Favorite, error)
	// AccessRequests returns access requests, newest first.
	AccessRequests(ctx context.Context) ([]models.AccessRequest, error)
	ClearFavorites(ctx context.Context) error
	ClearAccessRequests(ctx context.Context) error
}

// EventStore is any backend that can both record and serve events.
type EventStore interface {
	EventRecorder
	EventReader
	Close() error
}
