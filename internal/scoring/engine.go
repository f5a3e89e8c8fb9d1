// Package scoring turns a travel-time matrix and an optimization goal into
// a ranked candidate list. Raw matrix values are sanitized through the
// TravelTime variant before any aggregation; no NaN or Infinity ever
// crosses this package's boundary.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/meetfair/meetpoint-backend-go/internal/models"
)

// PenaltyMinutes scores a candidate no participant can reach. Large enough
// to lose to any reachable candidate, still finite and serializable.
const PenaltyMinutes = 999999.0

// ScoreCandidates scores points[j] from column j of the matrix and returns
// the candidates sorted ascending by score (lower is better for every
// goal). Ties keep generation order. The points slice must align with the
// matrix destinations.
func ScoreCandidates(matrix *models.TravelTimeMatrix, points []models.HypothesisPoint, goal models.OptimizationGoal) ([]models.ScoredCandidate, error) {
	if len(points) != len(matrix.Destinations) {
		return nil, fmt.Errorf("got %d points for %d matrix destinations", len(points), len(matrix.Destinations))
	}

	candidates := make([]models.ScoredCandidate, len(points))
	for j, p := range points {
		raw := coerceNonFinite(matrix.Column(j))
		metrics := computeMetrics(sanitize(raw))
		candidates[j] = models.ScoredCandidate{
			Point:          p,
			Score:          scoreFor(metrics, goal),
			Metrics:        metrics,
			RawTravelTimes: raw,
		}
	}

	rank(candidates)
	return candidates, nil
}

// RescoreForGoal re-folds already-computed travel times under a different
// goal. Pure: no external call, inputs are not mutated.
func RescoreForGoal(candidates []models.ScoredCandidate, goal models.OptimizationGoal) []models.ScoredCandidate {
	rescored := make([]models.ScoredCandidate, len(candidates))
	for i, c := range candidates {
		raw := coerceNonFinite(c.RawTravelTimes)
		metrics := computeMetrics(sanitize(raw))
		rescored[i] = models.ScoredCandidate{
			Point:          c.Point,
			Score:          scoreFor(metrics, goal),
			Metrics:        metrics,
			RawTravelTimes: raw,
		}
	}

	rank(rescored)
	return rescored
}

// rank sorts ascending by score (stable, ties keep input order) and
// assigns 1-based ranks
func rank(candidates []models.ScoredCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score < candidates[j].Score
	})
	for i := range candidates {
		candidates[i].Rank = i + 1
	}
}

// computeMetrics aggregates sanitized travel times. With no valid samples
// Max/Average/Total take the penalty constant and Variance takes 0, the
// "assume fair" policy for the MEAN goal.
func computeMetrics(times []float64) models.TravelTimeMetrics {
	if len(times) == 0 {
		return models.TravelTimeMetrics{
			MaxTravelTime:     PenaltyMinutes,
			AverageTravelTime: PenaltyMinutes,
			TotalTravelTime:   PenaltyMinutes,
			Variance:          0,
		}
	}

	var sum, max float64
	max = times[0]
	for _, t := range times {
		sum += t
		if t > max {
			max = t
		}
	}
	mean := sum / float64(len(times))

	// Population variance, so a single sample is exactly 0
	var sumSq float64
	for _, t := range times {
		diff := t - mean
		sumSq += diff * diff
	}
	variance := sumSq / float64(len(times))
	if len(times) == 1 {
		variance = 0
	}

	return models.TravelTimeMetrics{
		MaxTravelTime:     finiteOr(max, PenaltyMinutes),
		AverageTravelTime: finiteOr(mean, PenaltyMinutes),
		TotalTravelTime:   finiteOr(sum, PenaltyMinutes),
		Variance:          finiteOr(variance, 0),
	}
}

// scoreFor selects the metric the goal minimizes
func scoreFor(m models.TravelTimeMetrics, goal models.OptimizationGoal) float64 {
	switch goal {
	case models.GoalMean:
		return finiteOr(m.Variance, 0)
	case models.GoalMin:
		return finiteOr(m.TotalTravelTime, PenaltyMinutes)
	default: // MINIMAX
		return finiteOr(m.MaxTravelTime, PenaltyMinutes)
	}
}

// finiteOr coerces any non-finite aggregate to its documented fallback so
// nothing downstream ever serializes NaN or Infinity
func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
