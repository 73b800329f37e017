package wind

import (
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/nilsmagnus/grib/griblib"
)

// Grib is one decoded GRIB2 file: 10m U/V wind grids valid at Date.
type Grib struct {
	Date time.Time
	File string
	lat0 float64
	lon0 float64
	ΔLat float64
	ΔLon float64
	nLat uint32
	nLon uint32
	u    [][]float64
	v    [][]float64
}

func (w Grib) Timestamp() time.Time {
	return w.Date
}

func (w Grib) buildGrid(data []float64) [][]float64 {

	isContinuous := math.Floor(float64(w.nLon)*w.ΔLon) >= 360

	nLon := w.nLon
	if isContinuous {
		nLon++
	}

	grid := make([][]float64, w.nLat)

	p := 0
	for j := uint32(0); j < w.nLat; j++ {
		grid[j] = make([]float64, nLon)
		for i := uint32(0); i < w.nLon; i++ {
			grid[j][i] = data[p]
			p++
		}
		if isContinuous {
			grid[j][w.nLon] = grid[j][0]
		}
	}
	return grid
}

// LoadGrib decodes the 10m wind U/V components from a GRIB2 file.
func LoadGrib(date time.Time, path string) (Grib, error) {
	w := Grib{Date: date, File: filepath.Base(path)}

	gribfile, err := os.Open(path)
	if err != nil {
		return w, err
	}
	defer gribfile.Close()

	messages, err := griblib.ReadMessages(gribfile)
	if err != nil {
		return w, err
	}
	for _, message := range messages {
		if message.Section0.Discipline == uint8(0) && message.Section4.ProductDefinitionTemplate.ParameterCategory == uint8(2) && message.Section4.ProductDefinitionTemplate.FirstSurface.Type == 103 && message.Section4.ProductDefinitionTemplate.FirstSurface.Value == 10 {
			grid0, ok := message.Section3.Definition.(*griblib.Grid0)
			if !ok {
				continue
			}
			w.lat0 = float64(grid0.La1 / 1e6)
			w.lon0 = float64(grid0.Lo1 / 1e6)
			w.ΔLat = float64(grid0.Di / 1e6)
			w.ΔLon = float64(grid0.Dj / 1e6)
			w.nLat = grid0.Nj
			w.nLon = grid0.Ni
			if message.Section4.ProductDefinitionTemplate.ParameterNumber == 2 {
				w.u = w.buildGrid(message.Section7.Data)
			} else if message.Section4.ProductDefinitionTemplate.ParameterNumber == 3 {
				w.v = w.buildGrid(message.Section7.Data)
			}
		}
	}
	return w, nil
}

func floorMod(a float64, n float64) float64 {
	return a - n*math.Floor(a/n)
}

func bilinear(x float64, y float64, g00, g10, g01, g11 [2]float64) (float64, float64) {

	rx := 1 - x
	ry := 1 - y

	a := rx * ry
	b := x * ry
	c := rx * y
	d := x * y

	u := g00[0]*a + g10[0]*b + g01[0]*c + g11[0]*d
	v := g00[1]*a + g10[1]*b + g01[1]*c + g11[1]*d

	return u, v
}

// vectorToDegrees converts a U/V wind vector to the meteorological
// direction the wind blows from.
func vectorToDegrees(u float64, v float64, d float64) float64 {
	velocityDir := math.Atan2(u/d, v/d)
	return velocityDir*180/math.Pi + 180
}

// uv interpolates the wind vector at a position. ok is false outside the
// grid or when the file carried no wind grids at all.
func (w Grib) uv(lat float64, lon float64) (float64, float64, bool) {

	if w.u == nil || w.v == nil || w.ΔLat == 0 || w.ΔLon == 0 {
		return 0, 0, false
	}

	i := math.Abs((lat - w.lat0) / w.ΔLat)
	j := floorMod(lon-w.lon0, 360.0) / w.ΔLon

	fi := uint32(i)
	fj := uint32(j)

	if fi+1 >= uint32(len(w.u)) || fj+1 >= uint32(len(w.u[fi])) {
		return 0, 0, false
	}

	u, v := bilinear(j-float64(fj), i-float64(fi),
		[2]float64{w.u[fi][fj], w.v[fi][fj]},
		[2]float64{w.u[fi][fj+1], w.v[fi][fj+1]},
		[2]float64{w.u[fi+1][fj], w.v[fi+1][fj]},
		[2]float64{w.u[fi+1][fj+1], w.v[fi+1][fj+1]})

	return u, v, true
}
