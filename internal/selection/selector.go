// Package selection merges near-duplicate scored candidates and slices the
// final top-K. Deduplication always runs before slicing so dense clusters
// of near-identical points cannot under-fill the requested count.
package selection

import (
	"github.com/meetfair/meetpoint-backend-go/internal/models"
	"github.com/meetfair/meetpoint-backend-go/internal/spatial"
)

// DefaultThresholdMeters is the distance under which two candidates count
// as the same meeting point
const DefaultThresholdMeters = 200.0

// Deduplicate scans candidates in score order and keeps a point only if no
// already-kept point lies within thresholdMeters. Duplicates are discarded,
// not merged: the better-scored survivor wins. Idempotent.
func Deduplicate(candidates []models.ScoredCandidate, thresholdMeters float64) []models.ScoredCandidate {
	if thresholdMeters <= 0 {
		thresholdMeters = DefaultThresholdMeters
	}

	kept := make([]models.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		dup := false
		for _, k := range kept {
			if spatial.EquirectangularDistance(c.Point.Coordinate, k.Point.Coordinate) < thresholdMeters {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, c)
		}
	}
	return kept
}

// SelectTop takes the first k candidates and re-ranks them 1..k. Call only
// on deduplicated input.
func SelectTop(candidates []models.ScoredCandidate, k int) []models.ScoredCandidate {
	if k <= 0 || k > len(candidates) {
		k = len(candidates)
	}

	top := make([]models.ScoredCandidate, k)
	copy(top, candidates[:k])
	for i := range top {
		top[i].Rank = i + 1
	}
	return top
}
