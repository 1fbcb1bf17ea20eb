// Package geo provides the geographic math behind the proximity graph:
// great-circle distances and the equirectangular projection used to place
// people on a world map.
//
// All functions are pure and take coordinates in degrees.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by [HaversineKm].
const EarthRadiusKm = 6371.0

const degToRad = math.Pi / 180.0

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DistanceKm returns the great-circle distance from p to q.
func (p Point) DistanceKm(q Point) float64 {
	return HaversineKm(p.Lat, p.Lon, q.Lat, q.Lon)
}

// HaversineKm returns the great-circle distance in kilometers between two
// coordinates. The result is symmetric in its arguments and zero (up to
// rounding) for identical points.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * degToRad
	phi2 := lat2 * degToRad
	dPhi := (lat2 - lat1) * degToRad
	dLambda := (lon2 - lon1) * degToRad

	sinDPhi := math.Sin(dPhi / 2)
	sinDLambda := math.Sin(dLambda / 2)

	a := sinDPhi*sinDPhi + math.Cos(phi1)*math.Cos(phi2)*sinDLambda*sinDLambda
	// Rounding can push a just past 1 for antipodal points.
	a = math.Min(1, a)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// ToPixel projects a coordinate onto a width×height equirectangular canvas
// with a top-left origin and north at the top. Longitude is clamped to
// [-180, 180] and latitude to [-90, 90] before projecting, so (0, 0) maps to
// the canvas center and the date line maps to x = 0 and x = width exactly.
func ToPixel(lat, lon, width, height float64) (x, y float64) {
	lon = clamp(lon, -180, 180)
	lat = clamp(lat, -90, 90)

	x = (lon + 180) / 360 * width
	y = (90 - lat) / 180 * height
	return x, y
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
