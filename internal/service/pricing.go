package service

import (
	"github.com/shopspring/decimal"

	"mandado/internal/geo"
)

// Pricing constants. Price = base fare + per-km rate times the
// haversine distance between origin and destination, rounded to cents.
var (
	baseFare  = decimal.NewFromInt(10)
	perKmRate = decimal.NewFromFloat(3.5)
)

// QuotePrice computes the price for a service between two points.
func QuotePrice(originLat, originLng, destLat, destLng float64) decimal.Decimal {
	distanceKm := geo.HaversineKm(originLat, originLng, destLat, destLng)
	return PriceForDistance(distanceKm)
}

// PriceForDistance computes the price for a known distance in km.
func PriceForDistance(distanceKm float64) decimal.Decimal {
	return baseFare.Add(perKmRate.Mul(decimal.NewFromFloat(distanceKm))).Round(2)
}
