package vinted

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"market-scout/models"
)

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"24,50 €", 24.50, true},
		{"24.50", 24.50, true},
		{"€ 12", 12, true},
		{"12 €", 12, true},
		{"$7.99", 7.99, true},
		{"  5 £ ", 5, true},
		{"0 €", 0, false},
		{"", 0, false},
		{"Gratuit", 0, false},
		{"1.234,50 €", 0, false},
	}

	for _, tt := range tests {
		got, ok := NormalizePrice(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("NormalizePrice(%q) = (%.2f, %t); want (%.2f, %t)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNormalizePriceCommaAndPointAgree(t *testing.T) {
	comma, _ := NormalizePrice("24,50 €")
	point, _ := NormalizePrice("24.50")
	if comma != point {
		t.Errorf("comma form %.2f != point form %.2f", comma, point)
	}
}

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := NewExtractor("https://www.vinted.fr", newTestLogger())
	require.NoError(t, err)
	return e
}

func TestExtractFeedGrid(t *testing.T) {
	page := feedPage(
		item{"  Nike   Air Max  ", "45,00 €", "/items/123-nike"},
		item{"Adidas", "30 €", "https://www.vinted.fr/items/456"},
	)

	got, err := newTestExtractor(t).Extract([]byte(page))
	require.NoError(t, err)

	want := []models.Listing{
		{Title: "Nike Air Max", Price: 45, Link: "https://www.vinted.fr/items/123-nike"},
		{Title: "Adidas", Price: 30, Link: "https://www.vinted.fr/items/456"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("listings mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractFallsBackToLaterStrategies(t *testing.T) {
	tests := []struct {
		name string
		page string
		want []models.Listing
	}{
		{
			name: "catalog-item with h3 and .price",
			page: `<div class="catalog-item"><h3>Coat</h3><span class="price">60 €</span><a href="/c/1">x</a></div>`,
			want: []models.Listing{{Title: "Coat", Price: 60, Link: "https://www.vinted.fr/c/1"}},
		},
		{
			name: "item with .title and data-testid price",
			page: `<li class="item"><span class="title">Scarf</span><span data-testid="price">9,90 €</span><a href="/s/2">x</a></li>`,
			want: []models.Listing{{Title: "Scarf", Price: 9.90, Link: "https://www.vinted.fr/s/2"}},
		},
		{
			name: "first non-empty strategy wins",
			page: `<div class="catalog-item"><h3>Kept</h3><span class="price">5</span><a href="/k">x</a></div>` +
				`<div class="item"><h3>Ignored</h3><span class="price">6</span><a href="/i">x</a></div>`,
			want: []models.Listing{{Title: "Kept", Price: 5, Link: "https://www.vinted.fr/k"}},
		},
	}

	e := newTestExtractor(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Extract([]byte(tt.page))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("listings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractSkipsIncompleteNodes(t *testing.T) {
	page := `
<div class="feed-grid__item"><p class="feed-grid__item-title">No price</p><a href="/1">x</a></div>
<div class="feed-grid__item"><span class="feed-grid__item-price">10 €</span><a href="/2">x</a></div>
<div class="feed-grid__item"><p class="feed-grid__item-title">No link</p><span class="feed-grid__item-price">10 €</span></div>
<div class="feed-grid__item"><p class="feed-grid__item-title">Free</p><span class="feed-grid__item-price">Gratuit</span><a href="/3">x</a></div>
<div class="feed-grid__item"><p class="feed-grid__item-title">Good</p><span class="feed-grid__item-price">11 €</span><a href="/4">x</a></div>`

	got, err := newTestExtractor(t).Extract([]byte(page))
	require.NoError(t, err)
	require.Len(t, got, 1)
	if got[0].Title != "Good" {
		t.Errorf("title: got %q, want Good", got[0].Title)
	}
}

func TestExtractNoStrategyMatches(t *testing.T) {
	got, err := newTestExtractor(t).Extract([]byte("<html><body><p>Nothing here</p></body></html>"))
	require.NoError(t, err)
	if len(got) != 0 {
		t.Errorf("listings: got %d, want 0", len(got))
	}
}

func TestNewExtractorRejectsRelativeBase(t *testing.T) {
	if _, err := NewExtractor("/catalog", newTestLogger()); err == nil {
		t.Error("expected error for relative base url")
	}
}
