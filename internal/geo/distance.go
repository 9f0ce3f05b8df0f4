// Package geo provides geodesic distance math and a cache-backed geocoder.
package geo

import (
	"math"

	"github.com/azhunt/house-hunter/internal/config"
)

// earthRadiusMiles is the Earth's mean radius in miles.
const earthRadiusMiles = 3959

// DistanceMiles returns the great-circle distance between two coordinates
// using the Haversine formula. The result is symmetric and zero for
// identical points.
func DistanceMiles(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := radians(lat1)
	rlat2 := radians(lat2)
	dlat := radians(lat2 - lat1)
	dlon := radians(lon2 - lon1)

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}

// NearestReference scans the ordered reference table and returns the name
// and distance (rounded to 1 decimal) of the closest entry. Ties resolve
// to the first entry encountered. Returns "Unknown" for an empty table.
func NearestReference(lat, lon float64, refs []config.Reference) (string, float64) {
	if len(refs) == 0 {
		return "Unknown", 0
	}

	nearest := ""
	minDist := math.Inf(1)
	for _, ref := range refs {
		d := DistanceMiles(lat, lon, ref.Lat, ref.Lon)
		if d < minDist {
			minDist = d
			nearest = ref.Name
		}
	}

	return nearest, math.Round(minDist*10) / 10
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
