package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"market-scout/models"
)

// PostgresEventLog persists searches, favorites and access requests to PostgreSQL.
type PostgresEventLog struct {
	db *sql.DB
}

var _ EventStore = (*PostgresEventLog)(nil)

// NewPostgresEventLog opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresEventLog. The database gets a few seconds to come
// up, which covers a freshly started container.
func NewPostgresEventLog(ctx context.Context, dsn string) (*PostgresEventLog, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("postgres: ping: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed: %w", err)
	}

	pl := &PostgresEventLog{db: db}
	if err := pl.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return pl, nil
}

func (pl *PostgresEventLog) migrate(ctx context.Context) error {
	_, err := pl.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS search_events (
			id         SERIAL PRIMARY KEY,
			ts         TIMESTAMPTZ NOT NULL,
			query      TEXT        NOT NULL,
			brand      TEXT        NOT NULL DEFAULT '',
			username   TEXT        NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS favorites (
			id         SERIAL PRIMARY KEY,
			ts         TIMESTAMPTZ   NOT NULL,
			title      TEXT          NOT NULL,
			price      NUMERIC(10,2) NOT NULL DEFAULT 0,
			link       TEXT          NOT NULL,
			username   TEXT          NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS access_requests (
			id         SERIAL PRIMARY KEY,
			email      TEXT        NOT NULL,
			message    TEXT        NOT NULL DEFAULT '',
			ts         TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_search_events_ts    ON search_events(ts);
		CREATE INDEX IF NOT EXISTS idx_access_requests_ts  ON access_requests(ts);
	`)
	return err
}

func (pl *PostgresEventLog) RecordSearch(ctx context.Context, ev models.SearchEvent) error {
	_, err := pl.db.ExecContext(ctx,
		`INSERT INTO search_events (ts, query, brand, username) VALUES ($1, $2, $3, $4)`,
		ev.Timestamp.UTC(), ev.Query, ev.Brand, ev.User)
	if err != nil {
		return fmt.Errorf("postgres: insert search: %w", err)
	}
	return nil
}

func (pl *PostgresEventLog) AddFavorite(ctx context.Context, fav models.Favorite) error {
	_, err := pl.db.ExecContext(ctx,
		`INSERT INTO favorites (ts, title, price, link, username) VALUES ($1, $2, $3, $4, $5)`,
		fav.Timestamp.UTC(), fav.Title, fav.Price, fav.Link, fav.User)
	if err != nil {
		return fmt.Errorf("postgres: insert favorite: %w", err)
	}
	return nil
}

func (pl *PostgresEventLog) LogAccessRequest(ctx context.Context, req models.AccessRequest) error {
	_, err := pl.db.ExecContext(ctx,
		`INSERT INTO access_requests (email, message, ts) VALUES ($1, $2, $3)`,
		req.Email, req.Message, req.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("postgres: insert access request: %w", err)
	}
	return nil
}

func (pl *PostgresEventLog) Searches(ctx context.Context) ([]models.SearchEvent, error) {
	rows, err := pl.db.QueryContext(ctx,
		`SELECT ts, query, brand, username FROM search_events ORDER BY ts DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch searches: %w", err)
	}
	defer rows.Close()

	var out []models.SearchEvent
	for rows.Next() {
		var ev models.SearchEvent
		if err := rows.Scan(&ev.Timestamp, &ev.Query, &ev.Brand, &ev.User); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (pl *PostgresEventLog) Favorites(ctx context.Context) ([]models.Favorite, error) {
	rows, err := pl.db.QueryContext(ctx,
		`SELECT ts, title, price, link, username FROM favorites ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch favorites: %w", err)
	}
	defer rows.Close()

	var out []models.Favorite
	for rows.Next() {
		var fav models.Favorite
		if err := rows.Scan(&fav.Timestamp, &fav.Title, &fav.Price, &fav.Link, &fav.User); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		out = append(out, fav)
	}
	return out, rows.Err()
}

func (pl *PostgresEventLog) AccessRequests(ctx context.Context) ([]models.AccessRequest, error) {
	rows, err := pl.db.QueryContext(ctx,
		`SELECT email, message, ts FROM access_requests ORDER BY ts DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch access requests: %w", err)
	}
	defer rows.Close()

	var out []models.AccessRequest
	for rows.Next() {
		var req models.AccessRequest
		if err := rows.Scan(&req.Email, &req.Message, &req.Timestamp); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (pl *PostgresEventLog) ClearFavorites(ctx context.Context) error {
	if _, err := pl.db.ExecContext(ctx, "DELETE FROM favorites"); err != nil {
		return fmt.Errorf("postgres: clear favorites: %w", err)
	}
	return nil
}

func (pl *PostgresEventLog) ClearAccessRequests(ctx context.Context) error {
	if _, err := pl.db.ExecContext(ctx, "DELETE FROM access_requests"); err != nil {
		return fmt.Errorf("postgres: clear access requests: %w", err)
	}
	return nil
}

func (pl *PostgresEventLog) Close() error {
	return pl.db.Close()
}
