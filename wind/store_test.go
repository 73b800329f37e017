package wind

import (
	"math"
	"testing"
	"time"
)

// uniformGrib builds a small in-memory grid with the same U/V everywhere.
func uniformGrib(date time.Time, u, v float64) *Grib {
	w := &Grib{
		Date: date,
		File: date.Format(stampLayout) + ".f000",
		lat0: -5,
		lon0: -5,
		ΔLat: 1,
		ΔLon: 1,
		nLat: 11,
		nLon: 11,
	}
	grid := func(val float64) [][]float64 {
		g := make([][]float64, w.nLat)
		for i := range g {
			g[i] = make([]float64, w.nLon)
			for j := range g[i] {
				g[i][j] = val
			}
		}
		return g
	}
	w.u = grid(u)
	w.v = grid(v)
	return w
}

func testStore() *Store {
	t0 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	t6 := t0.Add(6 * time.Hour)
	return &Store{
		dir: "grib-data",
		winds: map[string]forecastWinds{
			t0.Format(stampLayout): {uniformGrib(t0, -5, 0)}, // wind from the east
			t6.Format(stampLayout): {uniformGrib(t6, 0, -5)}, // wind from the north
		},
	}
}

func TestFindWinds(t *testing.T) {
	s := testStore()
	t0 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	w1, w2, h := s.findWinds(t0.Add(3 * time.Hour))
	if w1 == nil || w2 == nil {
		t.Fatalf("findWinds(t0+3h) = (%v, %v); want (both forecasts)", w1, w2)
	}
	if h != 0.5 {
		t.Errorf("findWinds(t0+3h) blend = (%f); want (0.5)", h)
	}

	// before the first forecast
	w1, w2, h = s.findWinds(t0.Add(-2 * time.Hour))
	if w1 == nil || w2 != nil || h != 0 {
		t.Errorf("findWinds(before first) = (%v, %v, %f); want (first, nil, 0)", w1, w2, h)
	}

	// after the last forecast
	w1, w2, _ = s.findWinds(t0.Add(12 * time.Hour))
	if w1 == nil || w2 != nil {
		t.Errorf("findWinds(after last) = (%v, %v); want (last, nil)", w1, w2)
	}
}

func TestStoreSample(t *testing.T) {
	s := testStore()
	t0 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	// on a forecast hour, pure easterly
	sample, ok := s.Sample(0, 0, float64(t0.Unix()))
	if !ok {
		t.Fatalf("Sample(t0) = (absent); want (present)")
	}
	if math.Abs(sample.Direction-90) > 0.001 {
		t.Errorf("Sample(t0) direction = (%f); want (90)", sample.Direction)
	}
	if math.Abs(sample.Speed-5*MsToKts) > 0.001 {
		t.Errorf("Sample(t0) speed = (%f); want (%f)", sample.Speed, 5*MsToKts)
	}

	// halfway between forecasts the vector blends to a north-easterly,
	// and the 90° disagreement maxes out variability
	sample, ok = s.Sample(0, 0, float64(t0.Add(3*time.Hour).Unix()))
	if !ok {
		t.Fatalf("Sample(t0+3h) = (absent); want (present)")
	}
	if math.Abs(sample.Direction-45) > 0.001 {
		t.Errorf("Sample(t0+3h) direction = (%f); want (45)", sample.Direction)
	}
	if sample.Variability != 1 {
		t.Errorf("Sample(t0+3h) variability = (%f); want (1)", sample.Variability)
	}
	if sample.Confidence != 0.3 {
		t.Errorf("Sample(t0+3h) confidence = (%f); want (0.3)", sample.Confidence)
	}
}

func TestStoreSampleOutsideGrid(t *testing.T) {
	s := testStore()
	t0 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	if _, ok := s.Sample(60, 60, float64(t0.Unix())); ok {
		t.Errorf("Sample(outside grid) = (present); want (absent)")
	}
}

func TestPredict(t *testing.T) {
	s := testStore()
	t0 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	f, err := s.Predict(float64(t0.Add(3*time.Hour).Unix()), s)
	if err != nil {
		t.Fatalf("Predict(t0+3h) error = (%v); want (nil)", err)
	}
	if f == nil {
		t.Fatalf("Predict(t0+3h) = (absent); want (field)")
	}

	// the returned field is pinned to the target time whatever the
	// sampling time says
	sample, ok := f.Sample(0, 0, float64(t0.Unix()))
	if !ok || math.Abs(sample.Direction-45) > 0.001 {
		t.Errorf("Predict field sample = (%+v, %t); want (direction 45)", sample, ok)
	}

	// past the loaded forecasts is absent, not an error
	f, err = s.Predict(float64(t0.Add(48*time.Hour).Unix()), s)
	if err != nil || f != nil {
		t.Errorf("Predict(t0+48h) = (%v, %v); want (nil, nil)", f, err)
	}

	empty := &Store{winds: map[string]forecastWinds{}}
	f, err = empty.Predict(float64(t0.Unix()), nil)
	if err != nil || f != nil {
		t.Errorf("Predict(empty store) = (%v, %v); want (nil, nil)", f, err)
	}
}

func TestUnix(t *testing.T) {
	t0 := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	if m := unix(float64(t0.Unix())); !m.Equal(t0) {
		t.Errorf("unix(%d) = (%v); want (%v)", t0.Unix(), m, t0)
	}
}
