package pricing

import (
	"math"

	"github.com/rezkam/taskmarket/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// HaversineDistance returns the great-circle distance in kilometres between two points in degrees.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// RouteDistance returns the distance between pickup and drop, or 0 unless both carry coordinates.
func RouteDistance(pickup, drop *domain.Location) float64 {
	if pickup == nil || drop == nil || pickup.Coordinates == nil || drop.Coordinates == nil {
		return 0
	}
	return HaversineDistance(
		pickup.Coordinates.Latitude, pickup.Coordinates.Longitude,
		drop.Coordinates.Latitude, drop.Coordinates.Longitude,
	)
}

// Estimate is a priced route.
type Estimate struct {
	DistanceKm float64
	Breakdown  Breakdown
}

// EstimateRoute prices a route. The reported distance is rounded to two decimals;
// the price uses the unrounded distance.
func EstimateRoute(category domain.Category, pickup, drop *domain.Location, flags Flags) Estimate {
	d := RouteDistance(pickup, drop)
	return Estimate{
		DistanceKm: math.Round(d*100) / 100,
		Breakdown:  Calculate(category, d, flags),
	}
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
