package tactics

import (
	"math"
	"sort"

	"github.com/a-bouts/tactics-server/latlon"
)

// Two detections are the same event when they are this close in space,
// time and shift angle.
const (
	dupDistance = 300.0 // meters
	dupTime     = 300.0 // seconds
	dupAngle    = 15.0  // degrees
)

// Dedup merges near-duplicate shift detections, keeping the most probable
// one of each cluster. Greedy over points sorted by time; O(n²) in the
// candidate count, which stays in the low hundreds per analysis.
func Dedup(points []WindShiftPoint) []WindShiftPoint {
	if len(points) < 2 {
		return points
	}

	sorted := make([]WindShiftPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TimeEstimate < sorted[j].TimeEstimate
	})

	kept := make([]WindShiftPoint, 0, len(sorted))

	for _, candidate := range sorted {
		duplicate := false
		for i, k := range kept {
			if latlon.Distance(candidate.Position, k.Position) < dupDistance &&
				math.Abs(candidate.TimeEstimate-k.TimeEstimate) < dupTime &&
				math.Abs(latlon.AngleDiff(candidate.ShiftAngle, k.ShiftAngle)) < dupAngle {
				duplicate = true
				if candidate.Probability > k.Probability {
					kept[i] = candidate
				}
				break
			}
		}
		if !duplicate {
			kept = append(kept, candidate)
		}
	}

	return kept
}
