// Package tactics is the strategy-point detection engine: it scans a
// recorded course against the current wind field and its forecasts, flags
// wind shifts, tacks and layline crossings, scores them and removes
// near-duplicate detections.
package tactics

import (
	"context"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/a-bouts/tactics-server/course"
	"github.com/a-bouts/tactics-server/latlon"
	"github.com/a-bouts/tactics-server/wind"
)

// VMG is the boat-performance collaborator: polar speed and the optimal
// true wind angle for a given wind speed.
type VMG interface {
	BoatSpeed(twa, tws float64) float64
	OptimalTwa(tws float64, upwind bool) (twa float64, vmg float64)
}

type Analyzer struct {
	cfg        Config
	field      wind.Field
	forecaster wind.Forecaster
	vmg        VMG
}

// New builds an analyzer. Any collaborator may be nil: detection then
// degrades to whatever the remaining ones can produce.
func New(cfg Config, field wind.Field, forecaster wind.Forecaster, vmg VMG) *Analyzer {
	return &Analyzer{cfg: cfg, field: field, forecaster: forecaster, vmg: vmg}
}

// Analyze runs the whole pipeline over a course. It never fails: missing
// collaborators and forecast errors degrade the result and show up in
// Warnings.
func (a *Analyzer) Analyze(ctx context.Context, c course.Course) Analysis {
	res := Analysis{}

	if a.field == nil {
		log.Warn("no wind field configured")
		res.Warnings = append(res.Warnings, "no wind field configured")
	}

	shifts := a.detectShifts(c, a.field)

	forecast, warnings := a.forecastShifts(ctx, c)
	res.Warnings = append(res.Warnings, warnings...)

	merged := Dedup(append(shifts, forecast...))

	for _, p := range merged {
		if p.Probability >= a.cfg.ConfidenceThreshold {
			scoreShift(&p)
			res.WindShifts = append(res.WindShifts, p)
		}
	}

	if a.vmg == nil {
		log.Warn("no vmg calculator configured, skipping tack and layline detection")
		res.Warnings = append(res.Warnings, "no vmg calculator configured")
	} else if a.field != nil {
		res.Tacks = a.detectTacks(c)
		res.Laylines = a.detectLaylines(c)
	}

	return res
}

// detectShifts walks every leg sampling the wind at each fix and flags
// direction changes of at least MinWindShiftAngle between consecutive
// usable samples. Points without wind data are silently skipped.
func (a *Analyzer) detectShifts(c course.Course, field wind.Field) []WindShiftPoint {
	if field == nil {
		return nil
	}

	var points []WindShiftPoint

	for _, leg := range c.Legs {
		if len(leg.Path) < 2 {
			continue
		}

		var prevPoint course.PathPoint
		var prevSample wind.Sample
		havePrev := false

		for _, p := range leg.Path {
			s, ok := field.Sample(p.Lat, p.Lon, p.Time)
			if !ok {
				continue
			}

			if havePrev {
				shift := latlon.AngleDiff(s.Direction, prevSample.Direction)
				if math.Abs(shift) >= a.cfg.MinWindShiftAngle {
					points = append(points, shiftPoint(prevPoint, p, prevSample, s, shift))
				}
			}

			prevPoint = p
			prevSample = s
			havePrev = true
		}
	}

	return points
}

func shiftPoint(before, after course.PathPoint, sBefore, sAfter wind.Sample, shift float64) WindShiftPoint {

	raw := sAfter.Confidence * (1 - sAfter.Variability)
	angleWeight := math.Min(1, math.Abs(shift)/45)
	probability := clamp01(raw * (0.5 + 0.5*angleWeight))

	return WindShiftPoint{
		Point: Point{
			Type:         TypeWindShift,
			Position:     latlon.Mid(before.LatLon(), after.LatLon()),
			TimeEstimate: (before.Time + after.Time) / 2,
		},
		ShiftAngle:      shift,
		BeforeDirection: sBefore.Direction,
		AfterDirection:  sAfter.Direction,
		WindSpeed:       sAfter.Speed,
		Probability:     probability,
		speedChange:     sAfter.Speed - sBefore.Speed,
	}
}

// forecastShifts repeats the leg scan at stepped future times against the
// forecast wind field, fading probability with lead time. A failing step
// is logged and skipped, the scan goes on with whatever steps succeed.
func (a *Analyzer) forecastShifts(ctx context.Context, c course.Course) ([]WindShiftPoint, []string) {
	var warnings []string

	if a.forecaster == nil {
		log.Warn("no wind forecaster configured, skipping propagation")
		return nil, append(warnings, "no wind forecaster configured")
	}
	if a.cfg.PredictionStep <= 0 || a.cfg.PredictionHorizon <= 0 {
		return nil, warnings
	}

	ref := referenceTime(c)
	if math.IsInf(ref, 1) {
		log.Warn("course has no usable reference time, skipping propagation")
		return nil, append(warnings, "course has no usable reference time")
	}

	var points []WindShiftPoint

	for elapsed := a.cfg.PredictionStep; elapsed <= a.cfg.PredictionHorizon; elapsed += a.cfg.PredictionStep {
		select {
		case <-ctx.Done():
			log.Warn("propagation cancelled")
			return points, append(warnings, "propagation cancelled")
		default:
		}

		field, err := a.forecaster.Predict(ref+elapsed, a.field)
		if err != nil {
			log.WithError(err).Warnf("Forecast at +%.0fs failed, step skipped", elapsed)
			warnings = append(warnings, fmt.Sprintf("forecast at +%.0fs failed: %v", elapsed, err))
			continue
		}
		if field == nil {
			log.Debugf("No forecast at +%.0fs", elapsed)
			continue
		}

		decay := 1 - (elapsed/a.cfg.PredictionHorizon)*a.cfg.ConfidenceDecay

		for _, p := range a.detectShifts(c, field) {
			p.Probability = clamp01(p.Probability * decay)
			points = append(points, p)
		}
	}

	return points, warnings
}

// referenceTime is the course start, or the first usable fix time when the
// start is missing.
func referenceTime(c course.Course) float64 {
	if !math.IsInf(c.StartTime, 1) && c.StartTime != 0 {
		return c.StartTime
	}
	for _, leg := range c.Legs {
		for _, p := range leg.Path {
			if !math.IsInf(p.Time, 1) {
				return p.Time
			}
		}
	}
	return math.Inf(1)
}
