// Package times reduces the time representations found in course files and
// wind forecasts to one comparable scalar, seconds since the unix epoch.
package times

import (
	"math"
	"strconv"
	"time"
)

// Stamped is anything carrying its own timestamp, like a wind forecast.
type Stamped interface {
	Timestamp() time.Time
}

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006010215", // grib forecast stamp
}

// Normalize converts an absolute time, a duration, a numeric epoch, an
// ISO-8601 string or a Stamped value to epoch seconds. Values it cannot
// make sense of map to +Inf, which never compares equal to a real time.
func Normalize(v interface{}) float64 {
	switch t := v.(type) {
	case time.Time:
		return float64(t.UnixNano()) / 1e9
	case *time.Time:
		if t == nil {
			return math.Inf(1)
		}
		return float64(t.UnixNano()) / 1e9
	case time.Duration:
		return t.Seconds()
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case string:
		for _, layout := range layouts {
			if p, err := time.Parse(layout, t); err == nil {
				return float64(p.UnixNano()) / 1e9
			}
		}
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f
		}
		return math.Inf(1)
	case Stamped:
		return Normalize(t.Timestamp())
	}
	return math.Inf(1)
}

// Diff returns |Normalize(a) - Normalize(b)|, or +Inf if either side is
// unparseable.
func Diff(a, b interface{}) float64 {
	na := Normalize(a)
	nb := Normalize(b)
	if math.IsInf(na, 1) || math.IsInf(nb, 1) {
		return math.Inf(1)
	}
	return math.Abs(na - nb)
}
