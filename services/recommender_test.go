package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"market-scout/models"
)

func TestRecommendBands(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		avg   float64
		want  models.Recommendation
	}{
		{
			name: "well under average", price: 3, avg: 10,
			want: models.Recommendation{Label: models.LabelFastResale, Score: 90, EstimatedRange: models.PriceRange{Low: 9, High: 11}, TimeToSell: "1-7 days"},
		},
		{
			name: "ratio exactly 0.6", price: 6, avg: 10,
			want: models.Recommendation{Label: models.LabelFastResale, Score: 90, EstimatedRange: models.PriceRange{Low: 9, High: 11}, TimeToSell: "1-7 days"},
		},
		{
			name: "ratio exactly 1.0", price: 10, avg: 10,
			want: models.Recommendation{Label: models.LabelGoodResale, Score: 75, EstimatedRange: models.PriceRange{Low: 9.5, High: 12.5}, TimeToSell: "7-21 days"},
		},
		{
			name: "ratio exactly 1.4", price: 14, avg: 10,
			want: models.Recommendation{Label: models.LabelSlowSale, Score: 50, EstimatedRange: models.PriceRange{Low: 9, High: 13}, TimeToSell: "2-6 weeks"},
		},
		{
			name: "above 1.4", price: 15, avg: 10,
			want: models.Recommendation{Label: models.LabelVerySlowSale, Score: 25, EstimatedRange: models.PriceRange{Low: 8, High: 11}, TimeToSell: "1-3 months"},
		},
		{
			name: "zero average", price: 15, avg: 0,
			want: models.Recommendation{Label: models.LabelUnknown, TimeToSell: "Unknown"},
		},
		{
			name: "negative average", price: 15, avg: -3,
			want: models.Recommendation{Label: models.LabelUnknown, TimeToSell: "Unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(tt.price, tt.avg)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Recommend(%.2f, %.2f) mismatch (-want +got):\n%s", tt.price, tt.avg, diff)
			}
		})
	}
}

func TestRecommendRangeRoundedAndPriceIndependent(t *testing.T) {
	a := Recommend(1, 33.333)
	b := Recommend(5, 33.333)
	if a.EstimatedRange != b.EstimatedRange {
		t.Errorf("range depends on price: %+v vs %+v", a.EstimatedRange, b.EstimatedRange)
	}
	want := models.PriceRange{Low: 30, High: 36.67}
	if a.EstimatedRange != want {
		t.Errorf("range: got %+v, want %+v", a.EstimatedRange, want)
	}
}

func TestRecommendBandsAreExhaustive(t *testing.T) {
	for _, price := range []float64{0, 0.01, 1, 5.99, 6.01, 9.99, 10.01, 13.99, 14.01, 1e9} {
		got := Recommend(price, 10)
		if got.Label == models.LabelUnknown {
			t.Errorf("price %.2f fell through every band", price)
		}
		if got.Score < 0 || got.Score > 100 {
			t.Errorf("price %.2f: score %d out of range", price, got.Score)
		}
	}
}

func TestSaturationLabel(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "low saturation"},
		{9, "low saturation"},
		{10, "medium saturation"},
		{29, "medium saturation"},
		{30, "high saturation"},
		{500, "high saturation"},
	}
	for _, tt := range tests {
		if got := SaturationLabel(tt.count); got != tt.want {
			t.Errorf("SaturationLabel(%d): got %q, want %q", tt.count, got, tt.want)
		}
	}
}
