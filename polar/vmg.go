package polar

import "math"

// OptimalTwa scans the polar for the true wind angle with the best
// velocity made good at the given wind speed: toward the wind on an
// upwind leg, away from it downwind.
func (boat Boat) OptimalTwa(tws float64, upwind bool) (float64, float64) {

	lo, hi := 25.0, 90.0
	if !upwind {
		lo, hi = 90.0, 180.0
	}

	bestTwa := lo
	bestVmg := 0.0

	for twa := lo; twa <= hi; twa++ {
		vmg := boat.BoatSpeed(twa, tws) * math.Cos(twa*math.Pi/180)
		if !upwind {
			vmg = -vmg
		}
		if vmg > bestVmg {
			bestVmg = vmg
			bestTwa = twa
		}
	}

	return bestTwa, bestVmg
}

// Vmg is the boat-speed component toward (positive twa cosine) the wind.
func (boat Boat) Vmg(twa, tws float64) float64 {
	return boat.BoatSpeed(twa, tws) * math.Cos(twa*math.Pi/180)
}
