package latlon

// AngleDiff returns the signed minimal difference a-b in (-180,180].
func AngleDiff(a, b float64) float64 {
	d := a - b
	for d <= -180 {
		d += 360
	}
	for d > 180 {
		d -= 360
	}
	return d
}
