package spatial

import (
	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances
const EarthRadiusKm = 6371.0

// Point is a WGS84 coordinate
type Point struct {
	Lat float64
	Lon float64
}

// DistanceKm returns the great-circle distance between two points in kilometres
func DistanceKm(a, b Point) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lon)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}
