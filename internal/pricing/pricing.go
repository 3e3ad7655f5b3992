// Package pricing estimates task prices from category, distance and surcharge flags.
package pricing

import (
	"math"

	"github.com/rezkam/taskmarket/internal/domain"
)

// Fallbacks for categories missing from the tables.
const (
	DefaultBasePrice = 100.0
	DefaultPerKmRate = 5.0

	// UrgentRate is the share of the base price added for urgent tasks.
	UrgentRate = 0.3
	// HeavyLoadSurcharge is the flat amount added for heavy loads.
	HeavyLoadSurcharge = 100.0
)

var basePrices = map[domain.Category]float64{
	domain.CategoryPickupDrop:  50,
	domain.CategoryDelivery:    40,
	domain.CategoryHomeService: 200,
	domain.CategoryRepair:      300,
	domain.CategoryCleaning:    250,
	domain.CategoryMoving:      500,
	domain.CategoryOther:       100,
}

// On-site categories carry no distance charge.
var perKmRates = map[domain.Category]float64{
	domain.CategoryPickupDrop:  10,
	domain.CategoryDelivery:    8,
	domain.CategoryHomeService: 0,
	domain.CategoryRepair:      0,
	domain.CategoryCleaning:    0,
	domain.CategoryMoving:      15,
	domain.CategoryOther:       5,
}

// Flags are independent, additive surcharges.
type Flags struct {
	Urgent    bool
	HeavyLoad bool
}

// Breakdown itemizes a price. Only TotalPrice is rounded.
type Breakdown struct {
	BasePrice        float64 `json:"basePrice"`
	DistanceCharge   float64 `json:"distanceCharge"`
	AdditionalCharge float64 `json:"additionalCharge"`
	TotalPrice       float64 `json:"totalPrice"`
}

// BasePrice returns the category's base price.
func BasePrice(category domain.Category) float64 {
	if p, ok := basePrices[category]; ok {
		return p
	}
	return DefaultBasePrice
}

// PerKmRate returns the category's distance rate.
func PerKmRate(category domain.Category) float64 {
	if r, ok := perKmRates[category]; ok {
		return r
	}
	return DefaultPerKmRate
}

// Calculate prices a task. Negative or non-finite distances count as zero.
func Calculate(category domain.Category, distanceKm float64, flags Flags) Breakdown {
	if distanceKm < 0 || math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		distanceKm = 0
	}

	base := BasePrice(category)
	distance := distanceKm * PerKmRate(category)

	var additional float64
	if flags.Urgent {
		additional += base * UrgentRate
	}
	if flags.HeavyLoad {
		additional += HeavyLoadSurcharge
	}

	return Breakdown{
		BasePrice:        base,
		DistanceCharge:   distance,
		AdditionalCharge: additional,
		TotalPrice:       roundHalfUp(base + distance + additional),
	}
}

// roundHalfUp rounds to the nearest whole unit with .5 going up.
// Prices are never negative, so this matches rounding half away from zero.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
