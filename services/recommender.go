package services

import (
	"math"

	"market-scout/models"
)

// resaleBand is one row of the price/average ratio table. A price falls in the first
// band whose MaxRatio is >= its ratio.
type resaleBand struct {
	MaxRatio   float64
	Label      models.ResaleLabel
	Score      int
	LowFactor  float64
	HighFactor float64
	TimeToSell string
}

const (
	fastResaleMaxRatio = 0.6
	goodResaleMaxRatio = 1.0
	slowSaleMaxRatio   = 1.4
)

var resaleBands = []resaleBand{
	{MaxRatio: fastResaleMaxRatio, Label: models.LabelFastResale, Score: 90, LowFactor: 0.90, HighFactor: 1.10, TimeToSell: "1-7 days"},
	{MaxRatio: goodResaleMaxRatio, Label: models.LabelGoodResale, Score: 75, LowFactor: 0.95, HighFactor: 1.25, TimeToSell: "7-21 days"},
	{MaxRatio: slowSaleMaxRatio, Label: models.LabelSlowSale, Score: 50, LowFactor: 0.90, HighFactor: 1.30, TimeToSell: "2-6 weeks"},
	{MaxRatio: math.Inf(1), Label: models.LabelVerySlowSale, Score: 25, LowFactor: 0.80, HighFactor: 1.10, TimeToSell: "1-3 months"},
}

// unknownRecommendation is returned when there is no usable reference average.
var unknownRecommendation = models.Recommendation{
	Label:      models.LabelUnknown,
	TimeToSell: string(models.LabelUnknown),
}

// Recommend classifies price against the reference average. The estimated range depends
// only on the average and the band, never on the price itself.
func Recommend(price, average float64) models.Recommendation {
	if !(average > 0) || math.IsInf(average, 0) || math.IsNaN(price) || math.IsInf(price, 0) {
		return unknownRecommendation
	}

	ratio := price / average
	band := resaleBands[len(resaleBands)-1]
	for _, b := range resaleBands {
		if ratio <= b.MaxRatio {
			band = b
			break
		}
	}

	return models.Recommendation{
		Label: band.Label,
		Score: band.Score,
		EstimatedRange: models.PriceRange{
			Low:  round2(average * band.LowFactor),
			High: round2(average * band.HighFactor),
		},
		TimeToSell: band.TimeToSell,
	}
}

const (
	lowSaturationBelow    = 10
	mediumSaturationBelow = 30
)

// SaturationLabel describes how crowded a market is from its listing count.
func SaturationLabel(count int) string {
	switch {
	case count < lowSaturationBelow:
		return "low saturation"
	case count < mediumSaturationBelow:
		return "medium saturation"
	default:
		return "high saturation"
	}
}
