package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"market-scout/models"
	"market-scout/storage"
)

func TestRenderListings(t *testing.T) {
	var buf bytes.Buffer
	renderListings(&buf, []models.AnnotatedListing{
		{
			Listing: models.Listing{Title: "Carhartt hoodie", Price: 12, Link: "https://market.test/items/1"},
			Recommendation: &models.Recommendation{
				Label:          models.LabelFastResale,
				Score:          90,
				EstimatedRange: models.PriceRange{Low: 10.8, High: 13.2},
				TimeToSell:     "1-7 days",
			},
		},
		{Listing: models.Listing{Title: "Nike cap", Price: 8, Link: "https://market.test/items/2"}},
	})

	out := buf.String()
	require.Contains(t, out, "Carhartt hoodie")
	require.Contains(t, out, "12.00 €")
	require.Contains(t, out, "10.80 € - 13.20 €")
	require.Contains(t, out, "fast resale")
	require.Contains(t, out, "https://market.test/items/2")
}

func TestRenderStatsEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderStats(&buf, nil, "")
	require.Equal(t, "No listings found.\n", buf.String())
}

func TestDescribeAccess(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.Equal(t, "No subscription found.", describeAccess(storage.Access{}))

	active := storage.AccessFor(models.Subscriber{ExpiryDate: now.Add(72 * time.Hour)}, now)
	require.Equal(t, "Active, 3 day(s) remaining.", describeAccess(active))

	expired := storage.AccessFor(models.Subscriber{ExpiryDate: now.Add(-time.Hour)}, now)
	require.Equal(t, "Subscription expired.", describeAccess(expired))
}

func TestLimitRows(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5}

	require.Equal(t, []int{1, 2, 3}, limitRows(rows, 3))

	*adminLimit = 2
	t.Cleanup(func() { *adminLimit = 0 })
	require.Equal(t, []int{1, 2}, limitRows(rows, 3))
}

func TestJoinArgs(t *testing.T) {
	require.Equal(t, "carhartt hoodie", joinArgs([]string{"carhartt", "hoodie "}))
}
