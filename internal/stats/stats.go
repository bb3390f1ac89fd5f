// Package stats derives the headline numbers shown on the dashboard from a
// price history, and formats them for display.
package stats

import (
	"math"

	"crypto-dashboard/internal/domain"
)

// Stats are the values derived from a history's endpoints.
type Stats struct {
	CurrentPrice   float64
	PriceChangePct float64
}

// Derive computes the current price and the percentage change between the
// first and last points. It returns false for an empty history, in which
// case callers keep their previous stats.
//
// A zero earliest price yields a 0% change rather than an infinite one.
func Derive(history []domain.PricePoint) (Stats, bool) {
	if len(history) == 0 {
		return Stats{}, false
	}
	first := history[0].Price
	last := history[len(history)-1].Price
	return Stats{
		CurrentPrice:   last,
		PriceChangePct: changePct(first, last),
	}, true
}

func changePct(first, last float64) float64 {
	if first == 0 {
		return 0
	}
	pct := (last - first) / first * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0
	}
	return pct
}
