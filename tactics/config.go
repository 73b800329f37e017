package tactics

// Config is built once at startup and passed by value, never mutated.
type Config struct {
	// MinWindShiftAngle is the smallest direction change, in degrees,
	// reported as a shift.
	MinWindShiftAngle float64

	// PredictionHorizon and PredictionStep drive the forecast scan, in
	// seconds.
	PredictionHorizon float64
	PredictionStep    float64

	// ConfidenceThreshold is the minimal shift probability a point needs
	// to make it into the result. Inclusive.
	ConfidenceThreshold float64

	// ConfidenceDecay scales how fast forecast confidence fades over the
	// horizon.
	ConfidenceDecay float64

	// MinPropagationDistance and UseHistoricalData are part of the
	// configuration surface but not consulted by detection.
	MinPropagationDistance float64
	UseHistoricalData      bool
}

func DefaultConfig() Config {
	return Config{
		MinWindShiftAngle:      10,
		PredictionHorizon:      1800,
		PredictionStep:         300,
		ConfidenceThreshold:    0.7,
		ConfidenceDecay:        0.1,
		MinPropagationDistance: 1000,
		UseHistoricalData:      true,
	}
}
