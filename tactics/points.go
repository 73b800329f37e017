package tactics

import (
	"github.com/a-bouts/tactics-server/latlon"
)

const (
	TypeWindShift = "wind_shift"
	TypeTack      = "tack"
	TypeLayline   = "layline"

	Port      = "port"
	Starboard = "starboard"
)

// Point carries what every strategy point has. Points are values, built by
// the detectors and never touched afterwards.
type Point struct {
	Type         string        `json:"type"`
	Position     latlon.LatLon `json:"position"`
	TimeEstimate float64       `json:"time_estimate"`
	Score        float64       `json:"strategic_score"`
	Note         string        `json:"note"`
}

type WindShiftPoint struct {
	Point
	ShiftAngle      float64 `json:"shift_angle"`
	BeforeDirection float64 `json:"before_direction"`
	AfterDirection  float64 `json:"after_direction"`
	WindSpeed       float64 `json:"wind_speed"`
	Probability     float64 `json:"shift_probability"`

	speedChange float64
}

type TackPoint struct {
	Point
	VmgGain  float64 `json:"vmg_gain"`
	FromSide string  `json:"from_side"`
	ToSide   string  `json:"to_side"`
}

type LaylinePoint struct {
	Point
	Mark       string  `json:"mark"`
	Confidence float64 `json:"confidence"`
}

// Analysis is everything one run produced. Warnings carry the degraded
// parts: missing collaborators, skipped forecast steps, malformed input.
type Analysis struct {
	WindShifts []WindShiftPoint `json:"wind_shifts"`
	Tacks      []TackPoint      `json:"tacks"`
	Laylines   []LaylinePoint   `json:"laylines"`
	Warnings   []string         `json:"warnings,omitempty"`
}

// tackSide tells which side of the boat the wind comes over for a given
// heading. A boat heading straight into the wind counts as starboard.
func tackSide(bearing, windDirection float64) string {
	if latlon.AngleDiff(bearing, windDirection) < 0 {
		return Port
	}
	return Starboard
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
