package course

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/a-bouts/tactics-server/latlon"
	"github.com/a-bouts/tactics-server/times"
	"github.com/a-bouts/tactics-server/wind"
)

type gpx struct {
	XMLName xml.Name `xml:"gpx"`
	Trks    []trk    `xml:"trk"`
}

type trk struct {
	Name    string   `xml:"name"`
	Trksegs []trkseg `xml:"trkseg"`
}

type trkseg struct {
	Trkpts []trkpt `xml:"trkpt"`
}

type trkpt struct {
	Lat        float64     `xml:"lat,attr"`
	Lon        float64     `xml:"lon,attr"`
	Time       time.Time   `xml:"time"`
	Extensions *extensions `xml:"extensions"`
}

type extensions struct {
	Speed *float64 `xml:"TrackPointExtension>speed"`
}

// LoadGPX turns a recorded GPX track into a single-leg course. Headings
// come from consecutive fixes, speeds from the trackpoint extension when
// present and from distance over time otherwise.
func LoadGPX(path string) (Course, []string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Course{}, nil, err
	}

	var g gpx
	if err := xml.Unmarshal(content, &g); err != nil {
		return Course{}, nil, err
	}

	var warnings []string
	var points []PathPoint

	for _, t := range g.Trks {
		for _, seg := range t.Trksegs {
			for i, p := range seg.Trkpts {
				if p.Time.IsZero() {
					warnings = append(warnings, fmt.Sprintf("trackpoint %d without time, skipped", i))
					continue
				}
				point := PathPoint{
					Lat:  p.Lat,
					Lon:  p.Lon,
					Time: times.Normalize(p.Time),
				}
				if p.Extensions != nil && p.Extensions.Speed != nil {
					point.Speed = *p.Extensions.Speed * wind.MsToKts
				}
				points = append(points, point)
			}
		}
	}

	if len(points) < 2 {
		return Course{}, warnings, fmt.Errorf("gpx track '%s' has %d usable points, need at least 2", path, len(points))
	}

	for i := range points {
		if i < len(points)-1 {
			points[i].Course = latlon.Bearing(points[i].LatLon(), points[i+1].LatLon())
			if points[i].Speed == 0 {
				dt := points[i+1].Time - points[i].Time
				if dt > 0 {
					points[i].Speed = latlon.Distance(points[i].LatLon(), points[i+1].LatLon()) / dt * wind.MsToKts
				}
			}
		} else {
			points[i].Course = points[i-1].Course
			if points[i].Speed == 0 {
				points[i].Speed = points[i-1].Speed
			}
		}
	}

	first := points[0]
	last := points[len(points)-1]

	return Course{
		StartTime: first.Time,
		Legs: []Leg{{
			Start: Waypoint{Name: "start", Lat: first.Lat, Lon: first.Lon},
			End:   Waypoint{Name: "finish", Lat: last.Lat, Lon: last.Lon},
			Path:  points,
		}},
	}, warnings, nil
}
