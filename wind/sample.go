package wind

// Speeds are in knots, directions in degrees (direction the wind comes
// from), times in epoch seconds.

const (
	MsToKts = 1.9438444924406

	// defaults when a snapshot carries no quality information
	DefaultConfidence  = 0.8
	DefaultVariability = 0.2
)

type Sample struct {
	Direction   float64 `json:"direction"`
	Speed       float64 `json:"speed"`
	Confidence  float64 `json:"confidence"`
	Variability float64 `json:"variability"`
}

// Field gives the wind at a position and time. The second return value is
// false when the field has no data there, which is a normal outcome.
type Field interface {
	Sample(lat, lon, t float64) (Sample, bool)
}

// Forecaster produces the wind field expected at a future time. A nil
// Field with a nil error means no forecast is available for that time.
type Forecaster interface {
	Predict(target float64, current Field) (Field, error)
}

// Snapshot is a spatially uniform field, the simplest thing a caller can
// hand over. Confidence and variability are optional in the input shape.
type Snapshot struct {
	Direction   float64  `json:"direction"`
	Speed       float64  `json:"speed"`
	Confidence  *float64 `json:"confidence,omitempty"`
	Variability *float64 `json:"variability,omitempty"`
}

func (s Snapshot) Sample(lat, lon, t float64) (Sample, bool) {
	sample := Sample{
		Direction:   s.Direction,
		Speed:       s.Speed,
		Confidence:  DefaultConfidence,
		Variability: DefaultVariability,
	}
	if s.Confidence != nil {
		sample.Confidence = *s.Confidence
	}
	if s.Variability != nil {
		sample.Variability = *s.Variability
	}
	return sample, true
}
