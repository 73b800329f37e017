package tactics

import (
	"fmt"
	"math"

	"github.com/a-bouts/tactics-server/course"
	"github.com/a-bouts/tactics-server/latlon"
)

// detectTacks flags the fixes where the boat crosses the wind. The gain is
// the polar VMG at the optimal angle minus the VMG actually sailed, so a
// perfect tack gains nothing.
func (a *Analyzer) detectTacks(c course.Course) []TackPoint {
	var points []TackPoint

	for _, leg := range c.Legs {
		prevSide := ""

		for _, p := range leg.Path {
			s, ok := a.field.Sample(p.Lat, p.Lon, p.Time)
			if !ok {
				continue
			}

			side := tackSide(p.Course, s.Direction)

			if prevSide != "" && side != prevSide {
				score, note := scoreTack(s.Variability, s.Confidence)

				twa := latlon.AngleDiff(s.Direction, p.Course)
				sailed := a.vmg.BoatSpeed(twa, s.Speed) * math.Cos(twa*math.Pi/180)
				if !leg.IsUpwind {
					sailed = -sailed
				}
				_, best := a.vmg.OptimalTwa(s.Speed, leg.IsUpwind)

				gain := best - sailed
				if gain < 0 {
					gain = 0
				}

				points = append(points, TackPoint{
					Point: Point{
						Type:         TypeTack,
						Position:     p.LatLon(),
						TimeEstimate: p.Time,
						Score:        score,
						Note:         note,
					},
					VmgGain:  gain,
					FromSide: prevSide,
					ToSide:   side,
				})
			}

			prevSide = side
		}
	}

	return points
}

// detectLaylines finds, on each upwind leg, where the bearing to the mark
// crosses the optimal-tack bearing on either side of the wind. One point
// per side per leg.
func (a *Analyzer) detectLaylines(c course.Course) []LaylinePoint {
	var points []LaylinePoint

	for _, leg := range c.Legs {
		if !leg.IsUpwind {
			continue
		}

		mark := leg.End.LatLon()
		sides := []struct {
			sign float64
			name string
		}{
			{1, Starboard},
			{-1, Port},
		}

		for _, side := range sides {
			prevDelta := math.NaN()

			for _, p := range leg.Path {
				s, ok := a.field.Sample(p.Lat, p.Lon, p.Time)
				if !ok {
					continue
				}

				optTwa, _ := a.vmg.OptimalTwa(s.Speed, true)
				layline := s.Direction + side.sign*optTwa
				delta := latlon.AngleDiff(latlon.Bearing(p.LatLon(), mark), layline)

				// a sign change within a quarter turn is a crossing,
				// anything wider is the boat pointing away from the mark
				if !math.IsNaN(prevDelta) &&
					math.Abs(delta) < 90 && math.Abs(prevDelta) < 90 &&
					((prevDelta < 0 && delta >= 0) || (prevDelta > 0 && delta <= 0)) {
					points = append(points, LaylinePoint{
						Point: Point{
							Type:         TypeLayline,
							Position:     p.LatLon(),
							TimeEstimate: p.Time,
							Score:        clamp01(s.Confidence),
							Note:         fmt.Sprintf("%s layline to %s", side.name, leg.End.Name),
						},
						Mark:       leg.End.Name,
						Confidence: s.Confidence,
					})
					break
				}

				prevDelta = delta
			}
		}
	}

	return points
}
