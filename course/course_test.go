package course

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeTemp(t, "course.json", `{
		"start_time": "2024-06-01T12:00:00Z",
		"legs": [
			{
				"is_upwind": true,
				"start_waypoint": {"name": "start", "lat": 0, "lon": 0},
				"end_waypoint": {"name": "mark 1", "lat": 0.01, "lon": 0},
				"path": {
					"path_points": [
						{"lat": 0, "lon": 0, "time": 1717243200, "course": 40, "speed": 6},
						{"lat": 0.001, "lon": 0, "time": "2024-06-01T12:01:00Z", "speed": 6.1},
						{"lat": 0.002, "lon": 0, "time": 1717243320, "course": 42, "speed": 6.2}
					]
				}
			}
		]
	}`)

	c, warnings, err := Load(path)
	if err != nil {
		t.Fatalf("Load = (%v); want (no error)", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Load warnings = (%v); want (none)", warnings)
	}
	if len(c.Legs) != 1 || len(c.Legs[0].Path) != 3 {
		t.Fatalf("Load = (%d legs, %d points); want (1, 3)", len(c.Legs), len(c.Legs[0].Path))
	}

	if c.StartTime != 1717243200 {
		t.Errorf("StartTime = (%f); want (1717243200)", c.StartTime)
	}

	// mixed time representations land on the same scale
	if c.Legs[0].Path[1].Time != 1717243260 {
		t.Errorf("Path[1].Time = (%f); want (1717243260)", c.Legs[0].Path[1].Time)
	}

	// the missing course is derived from the track
	derived := c.Legs[0].Path[1].Course
	if math.IsNaN(derived) || derived < 0 || derived >= 360 {
		t.Errorf("Path[1].Course = (%f); want (a bearing)", derived)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeTemp(t, "course.json", `{
		"legs": [
			{
				"start_waypoint": {"name": "start", "lat": 0, "lon": 0},
				"path": {"path_points": []}
			},
			{
				"is_upwind": true,
				"start_waypoint": {"name": "start", "lat": 0, "lon": 0},
				"end_waypoint": {"name": "mark 1", "lat": 0.01, "lon": 0},
				"path": {
					"path_points": [
						{"lat": 0, "lon": 0, "time": 100},
						{"lon": 0, "time": 160},
						{"lat": 0.002, "lon": 0, "time": "someday"}
					]
				}
			}
		]
	}`)

	c, warnings, err := Load(path)
	if err != nil {
		t.Fatalf("Load = (%v); want (no error)", err)
	}

	// leg without end waypoint skipped, point without lat skipped,
	// unparseable time warned about
	if len(c.Legs) != 1 {
		t.Fatalf("Load = (%d legs); want (1)", len(c.Legs))
	}
	if len(c.Legs[0].Path) != 2 {
		t.Errorf("Load = (%d points); want (2)", len(c.Legs[0].Path))
	}
	if len(warnings) != 3 {
		t.Errorf("Load warnings = (%v); want (3 entries)", warnings)
	}

	if !math.IsInf(c.Legs[0].Path[1].Time, 1) {
		t.Errorf("unparseable time = (%f); want (+Inf)", c.Legs[0].Path[1].Time)
	}
}

func TestLoadGPX(t *testing.T) {
	path := writeTemp(t, "track.gpx", `<?xml version="1.0"?>
<gpx version="1.1" creator="test">
  <trk>
    <name>race</name>
    <trkseg>
      <trkpt lat="0" lon="0"><time>2024-06-01T12:00:00Z</time></trkpt>
      <trkpt lat="0.001" lon="0"><time>2024-06-01T12:01:00Z</time></trkpt>
      <trkpt lat="0.002" lon="0.001"><time>2024-06-01T12:02:00Z</time></trkpt>
    </trkseg>
  </trk>
</gpx>`)

	c, warnings, err := LoadGPX(path)
	if err != nil {
		t.Fatalf("LoadGPX = (%v); want (no error)", err)
	}
	if len(warnings) != 0 {
		t.Errorf("LoadGPX warnings = (%v); want (none)", warnings)
	}
	if len(c.Legs) != 1 || len(c.Legs[0].Path) != 3 {
		t.Fatalf("LoadGPX = (%d legs, %d points); want (1, 3)", len(c.Legs), len(c.Legs[0].Path))
	}

	if c.StartTime != 1717243200 {
		t.Errorf("StartTime = (%f); want (1717243200)", c.StartTime)
	}

	// heading north at ~1.85 m/s over the first minute
	first := c.Legs[0].Path[0]
	if math.Abs(first.Course) > 1 {
		t.Errorf("Path[0].Course = (%f); want (~0)", first.Course)
	}
	if first.Speed < 3 || first.Speed > 4 {
		t.Errorf("Path[0].Speed = (%f kts); want (~3.6)", first.Speed)
	}

	if c.Legs[0].Start.Name != "start" || c.Legs[0].End.Name != "finish" {
		t.Errorf("waypoints = (%s, %s); want (start, finish)", c.Legs[0].Start.Name, c.Legs[0].End.Name)
	}
}

func TestLoadGPXTooShort(t *testing.T) {
	path := writeTemp(t, "track.gpx", `<?xml version="1.0"?>
<gpx version="1.1" creator="test">
  <trk><trkseg>
    <trkpt lat="0" lon="0"><time>2024-06-01T12:00:00Z</time></trkpt>
  </trkseg></trk>
</gpx>`)

	if _, _, err := LoadGPX(path); err == nil {
		t.Errorf("LoadGPX(single point) = (no error); want (error)")
	}
}
