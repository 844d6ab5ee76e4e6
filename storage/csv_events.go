package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"market-scout/models"
)

const (
	SearchLogFile      = "search_log.csv"
	FavoritesFile      = "favorites.csv"
	AccessRequestsFile = "access_requests.csv"
	SubscribersFile    = "subscribers.csv"
)

// CSVEventLog keeps searches, favorites and access requests as append-only CSV files
// inside one data directory.
type CSVEventLog struct {
	searches  *csvTable
	favorites *csvTable
	requests  *csvTable
}

var _ EventStore = (*CSVEventLog)(nil)

// NewCSVEventLog creates dir if needed. Files are created on first write.
func NewCSVEventLog(dir string) (*CSVEventLog, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create data dir: %w", err)
	}
	return &CSVEventLog{
		searches:  newCSVTable(filepath.Join(dir, SearchLogFile), SearchLogHeader...),
		favorites: newCSVTable(filepath.Join(dir, FavoritesFile), "timestamp", "title", "price", "link", "user"),
		requests:  newCSVTable(filepath.Join(dir, AccessRequestsFile), "email", "message", "timestamp"),
	}, nil
}

func (l *CSVEventLog) RecordSearch(_ context.Context, ev models.SearchEvent) error {
	return l.searches.append(searchRow(ev))
}

func (l *CSVEventLog) AddFavorite(_ context.Context, fav models.Favorite) error {
	return l.favorites.append([]string{
		formatTime(fav.Timestamp), fav.Title, formatFloat(fav.Price), fav.Link, fav.User,
	})
}

func (l *CSVEventLog) LogAccessRequest(_ context.Context, req models.AccessRequest) error {
	return l.requests.append([]string{req.Email, req.Message, formatTime(req.Timestamp)})
}

func (l *CSVEventLog) Searches(_ context.Context) ([]models.SearchEvent, error) {
	rows, err := l.searches.rows()
	if err != nil {
		return nil, err
	}
	out := make([]models.SearchEvent, 0, len(rows))
	for _, r := range rows {
		if len(r) < 4 {
			continue
		}
		out = append(out, models.SearchEvent{Timestamp: parseTime(r[0]), Query: r[1], Brand: r[2], User: r[3]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (l *CSVEventLog) Favorites(_ context.Context) ([]models.Favorite, error) {
	rows, err := l.favorites.rows()
	if err != nil {
		return nil, err
	}
	out := make([]models.Favorite, 0, len(rows))
	for _, r := range rows {
		if len(r) < 5 {
			continue
		}
		price, _ := strconv.ParseFloat(r[2], 64)
		out = append(out, models.Favorite{Timestamp: parseTime(r[0]), Title: r[1], Price: price, Link: r[3], User: r[4]})
	}
	return out, nil
}

func (l *CSVEventLog) AccessRequests(_ context.Context) ([]models.AccessRequest, error) {
	rows, err := l.requests.rows()
	if err != nil {
		return nil, err
	}
	out := make([]models.AccessRequest, 0, len(rows))
	for _, r := range rows {
		if len(r) < 3 {
			continue
		}
		out = append(out, models.AccessRequest{Email: r[0], Message: r[1], Timestamp: parseTime(r[2])})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (l *CSVEventLog) ClearFavorites(_ context.Context) error {
	return l.favorites.clear()
}

func (l *CSVEventLog) ClearAccessRequests(_ context.Context) error {
	return l.requests.clear()
}

// Close is a no-op; every write opens and closes its file.
func (l *CSVEventLog) Close() error { return nil }

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime reads RFC 3339 or the naive ISO form older logs used. Unparseable values
// become the zero time.
func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
