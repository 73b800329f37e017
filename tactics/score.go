package tactics

import "math"

// scoreShift rates a shift by how decisive it is. A paired wind-speed
// change above 5 knots is worth a bonus, capped at 1.
func scoreShift(p *WindShiftPoint) {
	abs := math.Abs(p.ShiftAngle)
	switch {
	case abs > 20:
		p.Score, p.Note = 0.9, "major shift"
	case abs > 10:
		p.Score, p.Note = 0.7, "moderate shift"
	default:
		p.Score, p.Note = 0.5, "minor shift"
	}

	if math.Abs(p.speedChange) > 5 {
		p.Score = math.Min(1, p.Score+0.1)
		p.Note += ", wind speed changing"
	}
}

// scoreTack rates a tack by the wind sample it happens in: tacking into an
// unstable wind is worth more than a routine crossing, tacking on shaky
// data less.
func scoreTack(variability, confidence float64) (float64, string) {
	switch {
	case variability > 0.6:
		return 0.8, "tack ahead of a shift"
	case confidence < 0.4:
		return 0.3, "low-confidence tack"
	default:
		return 0.5, "routine tack"
	}
}
