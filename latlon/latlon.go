package latlon

import "math"

const π = math.Pi

// R is the spherical Earth radius in meters.
const R = 6371e3

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func toRadians(a float64) float64 {
	return a * π / 180.0
}

func toDegrees(a float64) float64 {
	return a * 180.0 / π
}

func wrap360(d float64) float64 {
	if 0.0 <= d && d < 360.0 {
		return d
	}
	d1 := d + 360.0
	return d1 - float64(int(d1/360.0)*360)
}

// Mid returns the point halfway between from and to.
// Legs are short enough that the planar midpoint is fine.
func Mid(from, to LatLon) LatLon {
	return LatLon{Lat: (from.Lat + to.Lat) / 2, Lon: (from.Lon + to.Lon) / 2}
}
