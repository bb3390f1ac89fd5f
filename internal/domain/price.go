package domain

import "time"

// PricePoint is a single sample of an asset's price.
type PricePoint struct {
	Time  time.Time
	Price float64
}

// PriceHistory is one response from the price API. It is replaced
// wholesale by the next accepted fetch.
type PriceHistory struct {
	History   []PricePoint
	Volume24h float64
}

// Prices returns the price series of points in order.
func Prices(points []PricePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Price
	}
	return out
}
