// Package polar loads boat polar tables and derives the optimal-tack
// geometry the tactics engine delegates to.
package polar

import (
	"encoding/json"
	"fmt"
	"os"
)

type Sail struct {
	Id    int         `json:"id"`
	Name  string      `json:"name"`
	Speed [][]float64 `json:"speed"`
}

// Boat is a polar table: boat speed in knots indexed by true wind angle
// and true wind speed.
type Boat struct {
	Label            string    `json:"label"`
	GlobalSpeedRatio float64   `json:"globalSpeedRatio"`
	MaxSpeed         float64   `json:"maxSpeed"`
	Tws              []float64 `json:"tws"`
	Twa              []float64 `json:"twa"`
	Sail             []Sail    `json:"sail"`
}

func Load(path string) (Boat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Boat{}, err
	}

	var boat Boat
	if err := json.Unmarshal(data, &boat); err != nil {
		return Boat{}, fmt.Errorf("parsing polar file '%s': %w", path, err)
	}
	if len(boat.Tws) == 0 || len(boat.Twa) == 0 || len(boat.Sail) == 0 {
		return Boat{}, fmt.Errorf("polar file '%s' has empty tables", path)
	}
	if boat.GlobalSpeedRatio == 0 {
		boat.GlobalSpeedRatio = 1
	}
	return boat, nil
}

func interpolationIndex(values []float64, value float64) (int, int, float64) {

	i := 0
	for values[i] < value {
		i++
		if i == len(values) {
			if values[i-1] < value {
				return i - 1, 0, 1
			}
			return i - 1, i, (values[i] - value) / (values[i] - values[i-1])
		}
	}

	if i > 0 {
		return i - 1, i, (values[i] - value) / (values[i] - values[i-1])
	}

	return 0, 0, 0
}

// BoatSpeed returns the best boat speed over all sails for a true wind
// angle in degrees and a true wind speed in knots.
func (boat Boat) BoatSpeed(twa float64, tws float64) float64 {

	t := twa
	if t < 0 {
		t = -1 * t
	}
	if t > 180 {
		t = 360 - t
	}

	twsIndex0, twsIndex1, twsFactor := interpolationIndex(boat.Tws, tws)
	twaIndex0, twaIndex1, twaFactor := interpolationIndex(boat.Twa, t)

	maxBs := 0.0

	for _, sail := range boat.Sail {
		ti0 := sail.Speed[twaIndex0]
		ti1 := sail.Speed[twaIndex1]
		bs := (ti0[twsIndex0]*twsFactor+ti0[twsIndex1]*(1-twsFactor))*twaFactor + (ti1[twsIndex0]*twsFactor+ti1[twsIndex1]*(1-twsFactor))*(1-twaFactor)

		if bs > maxBs {
			maxBs = bs
		}
	}

	return maxBs * boat.GlobalSpeedRatio
}
