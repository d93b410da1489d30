package domain

import "math"

type Quote struct {
	IsSurged        bool    `json:"is_surged"`
	RecentCount     int64   `json:"recent_count"`
	PriceMultiplier float64 `json:"price_multiplier"`
}

// NoSurge is the fallback quote when the attempt log is unavailable.
func NoSurge() Quote {
	return Quote{PriceMultiplier: 1.0}
}

// Price applies the multiplier to a base fare, rounded to cents.
func (q Quote) Price(base float64) float64 {
	return math.Round(base*q.PriceMultiplier*100) / 100
}
