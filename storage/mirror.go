package storage

import (
	"context"
	"errors"

	"market-scout/models"
	"market-scout/utils"
)

// MirroredEventLog writes every event to a primary store and copies it to mirrors.
// Reads and clears go to the primary. A failing mirror is logged, not returned.
type MirroredEventLog struct {
	EventStore
	mirrors []EventStore
	logger  *utils.Logger
}

// NewMirroredEventLog returns primary itself when there are no mirrors.
func NewMirroredEventLog(logger *utils.Logger, primary EventStore, mirrors ...EventStore) EventStore {
	if len(mirrors) == 0 {
		return primary
	}
	return &MirroredEventLog{EventStore: primary, mirrors: mirrors, logger: logger}
}

func (m *MirroredEventLog) RecordSearch(ctx context.Context, ev models.SearchEvent) error {
	err := m.EventStore.RecordSearch(ctx, ev)
	m.each("search", func(s EventStore) error { return s.RecordSearch(ctx, ev) })
	return err
}

func (m *MirroredEventLog) AddFavorite(ctx context.Context, fav models.Favorite) error {
	err := m.EventStore.AddFavorite(ctx, fav)
	m.each("favorite", func(s EventStore) error { return s.AddFavorite(ctx, fav) })
	return err
}

func (m *MirroredEventLog) LogAccessRequest(ctx context.Context, req models.AccessRequest) error {
	err := m.EventStore.LogAccessRequest(ctx, req)
	m.each("access request", func(s EventStore) error { return s.LogAccessRequest(ctx, req) })
	return err
}

func (m *MirroredEventLog) ClearFavorites(ctx context.Context) error {
	err := m.EventStore.ClearFavorites(ctx)
	m.each("clear favorites", func(s EventStore) error { return s.ClearFavorites(ctx) })
	return err
}

func (m *MirroredEventLog) ClearAccessRequests(ctx context.Context) error {
	err := m.EventStore.ClearAccessRequests(ctx)
	m.each("clear access requests", func(s EventStore) error { return s.ClearAccessRequests(ctx) })
	return err
}

// Close closes the primary and every mirror.
func (m *MirroredEventLog) Close() error {
	errs := []error{m.EventStore.Close()}
	for _, s := range m.mirrors {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

func (m *MirroredEventLog) each(what string, fn func(EventStore) error) {
	for _, s := range m.mirrors {
		if err := fn(s); err != nil {
			m.logger.Warn("[storage] Mirror %s failed: %v", what, err)
		}
	}
}
