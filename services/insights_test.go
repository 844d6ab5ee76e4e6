package services

import (
	"io"
	"math"
	"testing"

	"market-scout/models"
	"market-scout/utils"
)

func newTestLogger() *utils.Logger {
	return utils.NewLoggerWithOptions(utils.LoggerOptions{Writer: io.Discard, NoColor: true})
}

func sampleListings() []models.Listing {
	return []models.Listing{
		{Title: "Nike hoodie", Price: 20, Link: "https://www.vinted.fr/items/1"},
		{Title: "Adidas jacket", Price: 50, Link: "https://www.vinted.fr/items/2"},
		{Title: "Nike cap", Price: 8, Link: "https://www.vinted.fr/items/3"},
		{Title: "Carhartt pants", Price: 42, Link: "https://www.vinted.fr/items/4"},
	}
}

func TestAnalyzePrices(t *testing.T) {
	stats := AnalyzePrices(sampleListings())
	if stats == nil {
		t.Fatal("stats should not be nil")
	}
	if stats.Average != 30 {
		t.Errorf("Average: got %.2f, want 30", stats.Average)
	}
	if stats.Min != 8 {
		t.Errorf("Min: got %.2f, want 8", stats.Min)
	}
	if stats.Max != 50 {
		t.Errorf("Max: got %.2f, want 50", stats.Max)
	}
	if stats.Count != 4 {
		t.Errorf("Count: got %d, want 4", stats.Count)
	}
}

func TestAnalyzePricesEmptyInput(t *testing.T) {
	if stats := AnalyzePrices(nil); stats != nil {
		t.Errorf("empty input: got %+v, want nil", stats)
	}
	if stats := AnalyzePrices([]models.Listing{}); stats != nil {
		t.Errorf("empty slice: got %+v, want nil", stats)
	}
}

func TestAnalyzeValuesIgnoresNonFinite(t *testing.T) {
	stats := AnalyzeValues([]float64{math.NaN(), 10, math.Inf(1), 30, math.Inf(-1)})
	if stats == nil {
		t.Fatal("stats should not be nil")
	}
	if stats.Count != 2 || stats.Average != 20 || stats.Min != 10 || stats.Max != 30 {
		t.Errorf("stats: got %+v, want avg 20 min 10 max 30 count 2", *stats)
	}

	if stats := AnalyzeValues([]float64{math.NaN()}); stats != nil {
		t.Errorf("only NaN: got %+v, want nil", stats)
	}
}

func TestAnalyzePricesSingleListing(t *testing.T) {
	stats := AnalyzePrices([]models.Listing{{Title: "x", Price: 12.5, Link: "l"}})
	if stats.Average != 12.5 || stats.Min != 12.5 || stats.Max != 12.5 || stats.Count != 1 {
		t.Errorf("stats: got %+v", *stats)
	}
}
