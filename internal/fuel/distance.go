package fuel

import (
	"fmt"
	"math"

	"github.com/ukydev/vessel-ops/internal/models"
)

const (
	// EarthRadiusKm is the mean earth radius used for great-circle distances.
	EarthRadiusKm = 6371.0
	// AverageSpeedKmh is the assumed cruising speed of a fishing vessel (about 12 knots).
	AverageSpeedKmh = 22.0
)

// Haversine returns the great-circle distance between two points in kilometers.
func Haversine(a, b models.Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// ValidateLocation checks that a point lies on the globe.
func ValidateLocation(l models.Location) error {
	if math.IsNaN(l.Lat) || l.Lat < -90 || l.Lat > 90 {
		return fmt.Errorf("%w: latitude %v must be between -90 and 90", ErrInvalidCoordinate, l.Lat)
	}
	if math.IsNaN(l.Lon) || l.Lon < -180 || l.Lon > 180 {
		return fmt.Errorf("%w: longitude %v must be between -180 and 180", ErrInvalidCoordinate, l.Lon)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
