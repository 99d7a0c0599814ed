package utils

import (
	"math"

	"placemap-service/internal/supercluster"
)

const (
	// DirectionCount is the number of label directions around a marker.
	DirectionCount = 12
	// AngleStepDegrees separates two consecutive directions, starting at 0°.
	AngleStepDegrees = 30
	// DefaultAngleIndex points to 270° and is used when a feature has no neighbor.
	DefaultAngleIndex = 9
)

// DirectionDegrees returns the angle in degrees of direction index i.
func DirectionDegrees(i int) float64 {
	return float64(i * AngleStepDegrees)
}

// TooltipAngleIndex picks the label direction for target relative to its
// nearest neighbor among features. Features sharing the target's index are
// ignored. Distances are measured in the index's projected space; the bearing
// uses a north-up frame, so the southward projected y is negated.
// Equidistant neighbors resolve to the one listed first in features, which
// follows the index's query order.
func TooltipAngleIndex(target supercluster.Feature, features []supercluster.Feature) int {
	var nearest *supercluster.Feature
	minDistSq := math.Inf(1)

	for i := range features {
		f := &features[i]
		if f.Index == target.Index {
			continue
		}

		dx := target.X - f.X
		dy := target.Y - f.Y
		if distSq := dx*dx + dy*dy; distSq < minDistSq {
			minDistSq = distSq
			nearest = f
		}
	}

	if nearest == nil {
		return DefaultAngleIndex
	}

	bearing := math.Atan2(nearest.Y-target.Y, target.X-nearest.X) * 180 / math.Pi
	return FarthestDirection(bearing)
}

// FarthestDirection returns the direction index with the largest circular
// distance to bearing. Ties resolve to the lowest index.
func FarthestDirection(bearing float64) int {
	best := 0
	maxDiff := -1.0

	for i := 0; i < DirectionCount; i++ {
		diff := math.Abs(DirectionDegrees(i) - bearing)
		if diff > 180 {
			diff = 360 - diff
		}
		if diff > maxDiff {
			maxDiff = diff
			best = i
		}
	}

	return best
}
