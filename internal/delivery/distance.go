package delivery

import (
	"context"
	"math"

	"sneakerwears-be/internal/address"
)

// Dispatch origin: Lagos center.
const (
	originLat = 6.5244
	originLon = 3.3792
)

const earthRadiusKm = 6371

// DistanceProvider prices delivery as base + perKm * distance-from-Lagos,
// rounded to the nearest 50 NGN.
type DistanceProvider struct {
	BaseFee  float64
	PerKmFee float64
	Fallback float64
}

func (p *DistanceProvider) Fee(ctx context.Context, dest *address.Address) float64 {
	if dest == nil || dest.Latitude == nil || dest.Longitude == nil {
		return p.Fallback
	}

	distance := HaversineDistance(originLat, originLon, *dest.Latitude, *dest.Longitude)
	fee := p.BaseFee + p.PerKmFee*distance

	return math.Round(fee/50) * 50
}

// HaversineDistance returns the great-circle distance in kilometers.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
