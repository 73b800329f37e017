// Package course is the validated form of the race input. Whatever shape
// the file had, the rest of the code only ever sees well-formed legs and
// points with normalized times.
package course

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/a-bouts/tactics-server/latlon"
	"github.com/a-bouts/tactics-server/times"
)

type Waypoint struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

func (w Waypoint) LatLon() latlon.LatLon {
	return latlon.LatLon{Lat: w.Lat, Lon: w.Lon}
}

type PathPoint struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Time   float64 `json:"time"`
	Course float64 `json:"course"`
	Speed  float64 `json:"speed"`
}

func (p PathPoint) LatLon() latlon.LatLon {
	return latlon.LatLon{Lat: p.Lat, Lon: p.Lon}
}

type Leg struct {
	IsUpwind bool        `json:"is_upwind"`
	Start    Waypoint    `json:"start_waypoint"`
	End      Waypoint    `json:"end_waypoint"`
	Path     []PathPoint `json:"path"`
}

type Course struct {
	Legs      []Leg   `json:"legs"`
	StartTime float64 `json:"start_time"`
}

// raw mirrors the consumed file shape: optional keys, heterogeneous times.
type rawPoint struct {
	Lat    *float64    `json:"lat"`
	Lon    *float64    `json:"lon"`
	Time   interface{} `json:"time"`
	Course *float64    `json:"course"`
	Speed  float64     `json:"speed"`
}

type rawPath struct {
	PathPoints []rawPoint `json:"path_points"`
}

type rawLeg struct {
	IsUpwind bool      `json:"is_upwind"`
	Start    *Waypoint `json:"start_waypoint"`
	End      *Waypoint `json:"end_waypoint"`
	Path     rawPath   `json:"path"`
}

type rawCourse struct {
	Legs      []rawLeg    `json:"legs"`
	StartTime interface{} `json:"start_time"`
}

// Load reads a course file and validates it. Malformed legs and points are
// skipped and reported as warnings, never as errors.
func Load(path string) (Course, []string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Course{}, nil, err
	}

	var raw rawCourse
	if err := json.Unmarshal(content, &raw); err != nil {
		return Course{}, nil, err
	}

	c, warnings := build(raw)
	return c, warnings, nil
}

func build(raw rawCourse) (Course, []string) {
	var warnings []string

	c := Course{StartTime: times.Normalize(raw.StartTime)}

	for i, l := range raw.Legs {
		if l.Start == nil || l.End == nil {
			warnings = append(warnings, fmt.Sprintf("leg %d: missing waypoint, skipped", i))
			continue
		}

		leg := Leg{IsUpwind: l.IsUpwind, Start: *l.Start, End: *l.End}

		for j, p := range l.Path.PathPoints {
			if p.Lat == nil || p.Lon == nil {
				warnings = append(warnings, fmt.Sprintf("leg %d: point %d without coordinates, skipped", i, j))
				continue
			}

			point := PathPoint{
				Lat:   *p.Lat,
				Lon:   *p.Lon,
				Time:  times.Normalize(p.Time),
				Speed: p.Speed,
			}
			if p.Course != nil {
				point.Course = *p.Course
			} else {
				point.Course = math.NaN()
			}
			if math.IsInf(point.Time, 1) {
				warnings = append(warnings, fmt.Sprintf("leg %d: point %d has an unparseable time", i, j))
			}
			leg.Path = append(leg.Path, point)
		}

		fillCourses(leg.Path)
		c.Legs = append(c.Legs, leg)
	}

	return c, warnings
}

// fillCourses derives missing headings from the track itself.
func fillCourses(path []PathPoint) {
	for i := range path {
		if !math.IsNaN(path[i].Course) {
			continue
		}
		switch {
		case i < len(path)-1:
			path[i].Course = latlon.Bearing(path[i].LatLon(), path[i+1].LatLon())
		case i > 0:
			path[i].Course = path[i-1].Course
		default:
			path[i].Course = 0
		}
	}
}
