package services

import (
	"math"

	"market-scout/models"
)

// AnalyzePrices computes price statistics over listings. It returns nil when no listing
// carries a finite price; an empty market is not an error.
func AnalyzePrices(listings []models.Listing) *models.MarketStats {
	prices := make([]float64, 0, len(listings))
	for _, l := range listings {
		prices = append(prices, l.Price)
	}
	return AnalyzeValues(prices)
}

// AnalyzeValues is AnalyzePrices over bare numbers. NaN and ±Inf are ignored.
func AnalyzeValues(prices []float64) *models.MarketStats {
	var (
		stats models.MarketStats
		total float64
	)
	for _, p := range prices {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			continue
		}
		if stats.Count == 0 || p < stats.Min {
			stats.Min = p
		}
		if stats.Count == 0 || p > stats.Max {
			stats.Max = p
		}
		total += p
		stats.Count++
	}

	if stats.Count == 0 {
		return nil
	}
	stats.Average = total / float64(stats.Count)
	return &stats
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
