package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"market-scout/models"
	"market-scout/utils"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestWriteResultsCSV(t *testing.T) {
	listings := []models.AnnotatedListing{
		{
			Listing: models.Listing{Title: "Nike, hoodie", Price: 24.5, Link: "https://www.vinted.fr/items/1"},
			Recommendation: &models.Recommendation{
				Label: models.LabelGoodResale, Score: 75,
				EstimatedRange: models.PriceRange{Low: 23.75, High: 31.25}, TimeToSell: "7-21 days",
			},
		},
		{Listing: models.Listing{Title: "Cap", Price: 8, Link: "https://www.vinted.fr/items/2"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteResultsCSV(&buf, listings))

	want := "title,price,link,resale_label,resale_score,resale_min,resale_max,time_to_sell\n" +
		"\"Nike, hoodie\",24.5,https://www.vinted.fr/items/1,good resale,75,23.75,31.25,7-21 days\n" +
		"Cap,8,https://www.vinted.fr/items/2,,,,,\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVWriterFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.csv")
	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Write([]models.AnnotatedListing{{Listing: models.Listing{Title: "A", Price: 1, Link: "l"}}}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Errorf("lines: got %d, want 2", len(lines))
	}
}

func TestCSVEventLogSearches(t *testing.T) {
	dir := t.TempDir()
	log, err := NewCSVEventLog(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, log.RecordSearch(ctx, models.SearchEvent{Timestamp: t0, Query: "nike", Brand: "All", User: "admin"}))
	require.NoError(t, log.RecordSearch(ctx, models.SearchEvent{Timestamp: t0.Add(time.Hour), Query: "vans, old skool", Brand: "Vans", User: "admin"}))

	got, err := log.Searches(ctx)
	require.NoError(t, err)
	want := []models.SearchEvent{
		{Timestamp: t0.Add(time.Hour), Query: "vans, old skool", Brand: "Vans", User: "admin"},
		{Timestamp: t0, Query: "nike", Brand: "All", User: "admin"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("searches mismatch (-want +got):\n%s", diff)
	}

	// Header is written exactly once.
	data, err := os.ReadFile(filepath.Join(dir, SearchLogFile))
	require.NoError(t, err)
	if n := strings.Count(string(data), "timestamp,query,brand,user"); n != 1 {
		t.Errorf("header count: got %d, want 1", n)
	}
}

func TestCSVEventLogFavorites(t *testing.T) {
	log, err := NewCSVEventLog(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	favs, err := log.Favorites(ctx)
	require.NoError(t, err)
	require.Empty(t, favs, "missing file means no favorites")

	fav := models.Favorite{Timestamp: t0, Title: "Jacket", Price: 35.5, Link: "https://www.vinted.fr/items/9", User: "admin"}
	require.NoError(t, log.AddFavorite(ctx, fav))

	favs, err = log.Favorites(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff([]models.Favorite{fav}, favs); diff != "" {
		t.Errorf("favorites mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, log.ClearFavorites(ctx))
	require.NoError(t, log.ClearFavorites(ctx), "clearing twice is fine")
	favs, err = log.Favorites(ctx)
	require.NoError(t, err)
	require.Empty(t, favs)
}

func TestCSVEventLogAccessRequests(t *testing.T) {
	log, err := NewCSVEventLog(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, log.LogAccessRequest(ctx, models.AccessRequest{Email: "a@x.io", Message: "hi", Timestamp: t0}))
	require.NoError(t, log.LogAccessRequest(ctx, models.AccessRequest{Email: "b@x.io", Message: "multi\nline", Timestamp: t0.Add(time.Minute)}))

	got, err := log.AccessRequests(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	if got[0].Email != "b@x.io" || got[0].Message != "multi\nline" {
		t.Errorf("newest first: got %+v", got[0])
	}

	require.NoError(t, log.ClearAccessRequests(ctx))
	got, err = log.AccessRequests(ctx)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSubscriberStore(t *testing.T) {
	store := NewSubscriberStore(t.TempDir())

	sub, err := store.AddOrRenew(" Alice@Example.com ", 30, t0)
	require.NoError(t, err)
	if sub.Email != "alice@example.com" {
		t.Errorf("email: got %q", sub.Email)
	}
	if !sub.ExpiryDate.Equal(t0.AddDate(0, 0, 30)) {
		t.Errorf("expiry: got %v", sub.ExpiryDate)
	}

	access, err := store.CheckAccess("alice@example.com", t0.Add(36*time.Hour))
	require.NoError(t, err)
	require.True(t, access.Active)
	require.NotNil(t, access.DaysRemaining)
	if *access.DaysRemaining != 28 {
		t.Errorf("days remaining: got %d, want 28", *access.DaysRemaining)
	}

	// Renewing replaces the row instead of adding a second one.
	_, err = store.AddOrRenew("alice@example.com", 7, t0.AddDate(0, 0, 40))
	require.NoError(t, err)
	_, err = store.AddOrRenew("bob@example.com", 1, t0)
	require.NoError(t, err)

	subs, err := store.List()
	require.NoError(t, err)
	require.Len(t, subs, 2)
	if !subs[0].StartDate.Equal(t0.AddDate(0, 0, 40)) {
		t.Errorf("renewed start: got %v", subs[0].StartDate)
	}

	access, err = store.CheckAccess("bob@example.com", t0.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.False(t, access.Active)
	if *access.DaysRemaining != -2 {
		t.Errorf("lapsed days: got %d, want -2", *access.DaysRemaining)
	}
}

func TestSubscriberStoreUnknownAndInvalid(t *testing.T) {
	store := NewSubscriberStore(t.TempDir())

	access, err := store.CheckAccess("nobody@example.com", t0)
	require.NoError(t, err)
	require.False(t, access.Active)
	require.Nil(t, access.DaysRemaining)

	access, err = store.CheckAccess("", t0)
	require.NoError(t, err)
	require.False(t, access.Active)

	tests := []struct {
		email string
		days  int
		want  error
	}{
		{"", 30, ErrEmptyEmail},
		{"x@y.z", 0, ErrInvalidDays},
		{"x@y.z", MaxSubscriptionDays + 1, ErrInvalidDays},
	}
	for _, tt := range tests {
		_, err := store.AddOrRenew(tt.email, tt.days, t0)
		if !errors.Is(err, tt.want) {
			t.Errorf("AddOrRenew(%q, %d): got %v, want %v", tt.email, tt.days, err, tt.want)
		}
	}
}

type failingStore struct {
	EventStore
	closed bool
}

func (f *failingStore) RecordSearch(context.Context, models.SearchEvent) error {
	return errors.New("mirror down")
}

func (f *failingStore) Close() error {
	f.closed = true
	return nil
}

func TestMirroredEventLog(t *testing.T) {
	primary, err := NewCSVEventLog(t.TempDir())
	require.NoError(t, err)
	secondary, err := NewCSVEventLog(t.TempDir())
	require.NoError(t, err)
	broken := &failingStore{}
	logger := utils.NewLoggerWithOptions(utils.LoggerOptions{Writer: io.Discard})

	require.Same(t, EventStore(primary), NewMirroredEventLog(logger, primary))

	log := NewMirroredEventLog(logger, primary, secondary, broken)
	ctx := context.Background()
	require.NoError(t, log.RecordSearch(ctx, models.SearchEvent{Timestamp: t0, Query: "q", Brand: "All", User: "u"}),
		"a failing mirror must not fail the write")

	for _, s := range []*CSVEventLog{primary, secondary} {
		got, err := s.Searches(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
	}

	require.NoError(t, log.Close())
	require.True(t, broken.closed)
}
