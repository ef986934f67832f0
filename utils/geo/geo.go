// Package geo computes great-circle distances between farm and device coordinates.
package geo

import (
	"math"
)

// EarthRadiusKm is the mean Earth radius used by Distance
const EarthRadiusKm = 6371.0

// Point is a WGS84 coordinate in decimal degrees
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Distance returns the haversine distance in kilometres between two coordinates.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// DistanceTo returns the distance in kilometres from p to q
func (p Point) DistanceTo(q Point) float64 {
	return Distance(p.Lat, p.Lon, q.Lat, q.Lon)
}

// Nearest returns the index of the point closest to origin and its distance.
// It returns -1 when points is empty.
func Nearest(origin Point, points []Point) (int, float64) {
	best, bestDist := -1, math.Inf(1)
	for i, p := range points {
		if d := origin.DistanceTo(p); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return -1, 0
	}
	return best, bestDist
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180)
}
