package scoring_test

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetfair/meetpoint-backend-go/internal/models"
	"github.com/meetfair/meetpoint-backend-go/internal/scoring"
)

// matrixOf builds a matrix whose column j holds times[i][j] for origin i
func matrixOf(times [][]float64) (*models.TravelTimeMatrix, []models.HypothesisPoint) {
	cols := len(times[0])
	points := make([]models.HypothesisPoint, cols)
	destinations := make([]models.Coordinate, cols)
	for j := range points {
		points[j] = models.HypothesisPoint{
			ID:         fmt.Sprintf("c%d", j),
			Coordinate: models.Coordinate{Latitude: 40, Longitude: -74 + float64(j)*0.01},
			Phase:      models.PhaseAnchor,
		}
		destinations[j] = points[j].Coordinate
	}
	origins := make([]models.Coordinate, len(times))
	for i := range origins {
		origins[i] = models.Coordinate{Latitude: 40 + float64(i)*0.01, Longitude: -74}
	}
	return &models.TravelTimeMatrix{
		Origins:      origins,
		Destinations: destinations,
		TravelTimes:  times,
		TravelMode:   models.TravelModeDrivingCar,
	}, points
}

func TestScoreCandidatesMinimax(t *testing.T) {
	matrix, points := matrixOf([][]float64{
		{30, 10, 25},
		{20, 50, 25},
	})

	scored, err := scoring.ScoreCandidates(matrix, points, models.GoalMinimax)
	require.NoError(t, err)
	require.Len(t, scored, 3)

	// Candidate c2: max 25, winner under MINIMAX
	assert.Equal(t, "c2", scored[0].Point.ID)
	assert.Equal(t, 25.0, scored[0].Score)
	assert.Equal(t, 25.0, scored[0].Metrics.MaxTravelTime)
	assert.Equal(t, 25.0, scored[0].Metrics.AverageTravelTime)
	assert.Equal(t, 50.0, scored[0].Metrics.TotalTravelTime)
	assert.Equal(t, 0.0, scored[0].Metrics.Variance)
	assert.Equal(t, 1, scored[0].Rank)

	assert.Equal(t, "c0", scored[1].Point.ID) // max 30
	assert.Equal(t, "c1", scored[2].Point.ID) // max 50
}

func TestScoreGoals(t *testing.T) {
	matrix, points := matrixOf([][]float64{
		{10, 40},
		{30, 40},
	})

	minimax, err := scoring.ScoreCandidates(matrix, points, models.GoalMinimax)
	require.NoError(t, err)
	assert.Equal(t, 30.0, minimax[0].Score) // c0: max(10,30)

	mean, err := scoring.ScoreCandidates(matrix, points, models.GoalMean)
	require.NoError(t, err)
	// c1 has zero variance, c0 has 100
	assert.Equal(t, "c1", mean[0].Point.ID)
	assert.Equal(t, 0.0, mean[0].Score)
	assert.Equal(t, 100.0, mean[1].Score)

	min, err := scoring.ScoreCandidates(matrix, points, models.GoalMin)
	require.NoError(t, err)
	assert.Equal(t, "c0", min[0].Point.ID) // total 40 vs 80
	assert.Equal(t, 40.0, min[0].Score)
}

func TestSanitizationDropsInvalidTimes(t *testing.T) {
	matrix, points := matrixOf([][]float64{
		{20, math.NaN()},
		{math.Inf(1), 15},
		{-5, models.UnreachableSentinel},
		{30, 24*60 + 1}, // over the 24h ceiling
	})

	scored, err := scoring.ScoreCandidates(matrix, points, models.GoalMinimax)
	require.NoError(t, err)

	byID := map[string]models.ScoredCandidate{}
	for _, s := range scored {
		byID[s.Point.ID] = s
	}

	// c0 keeps {20, 30}, c1 keeps {15}
	assert.Equal(t, 30.0, byID["c0"].Metrics.MaxTravelTime)
	assert.Equal(t, 50.0, byID["c0"].Metrics.TotalTravelTime)
	assert.Equal(t, 15.0, byID["c1"].Metrics.MaxTravelTime)
	assert.Equal(t, 0.0, byID["c1"].Metrics.Variance) // single valid sample
}

func TestStoredTravelTimesStaySerializable(t *testing.T) {
	matrix, points := matrixOf([][]float64{
		{20, math.NaN()},
		{math.Inf(1), 15},
		{math.Inf(-1), 25},
	})

	scored, err := scoring.ScoreCandidates(matrix, points, models.GoalMinimax)
	require.NoError(t, err)

	// Non-finite cells are stored as the unreachable sentinel, never as-is
	for _, s := range scored {
		for _, v := range s.RawTravelTimes {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "raw time %v for %s", v, s.Point.ID)
		}
	}
	_, err = json.Marshal(scored)
	require.NoError(t, err)

	// The coercion changes nothing about scoring: rescoring the stored
	// columns reproduces the original scores
	rescored := scoring.RescoreForGoal(scored, models.GoalMinimax)
	for i := range scored {
		assert.Equal(t, scored[i].Point.ID, rescored[i].Point.ID)
		assert.Equal(t, scored[i].Score, rescored[i].Score)
		assert.Equal(t, scored[i].Metrics, rescored[i].Metrics)
	}
}

func TestFallbackWhenNothingValid(t *testing.T) {
	matrix, points := matrixOf([][]float64{
		{math.NaN(), 10},
		{models.UnreachableSentinel, 20},
	})

	minimax, err := scoring.ScoreCandidates(matrix, points, models.GoalMinimax)
	require.NoError(t, err)
	byID := map[string]models.ScoredCandidate{}
	for _, s := range minimax {
		byID[s.Point.ID] = s
	}
	assert.Equal(t, scoring.PenaltyMinutes, byID["c0"].Score)
	assert.Equal(t, 1, byID["c1"].Rank) // reachable candidate always wins

	// MEAN goal: empty sample scores 0 ("assume fair")
	mean, err := scoring.ScoreCandidates(matrix, points, models.GoalMean)
	require.NoError(t, err)
	for _, s := range mean {
		if s.Point.ID == "c0" {
			assert.Equal(t, 0.0, s.Score)
		}
	}
}

func TestNoNonFiniteEverEscapes(t *testing.T) {
	matrix, points := matrixOf([][]float64{
		{math.NaN(), math.Inf(1), -1},
		{math.Inf(-1), math.NaN(), math.NaN()},
	})

	for _, goal := range []models.OptimizationGoal{models.GoalMinimax, models.GoalMean, models.GoalMin} {
		scored, err := scoring.ScoreCandidates(matrix, points, goal)
		require.NoError(t, err)
		for _, s := range scored {
			assert.False(t, math.IsNaN(s.Score) || math.IsInf(s.Score, 0), "score for %s under %s", s.Point.ID, goal)
			for _, v := range []float64{s.Metrics.MaxTravelTime, s.Metrics.AverageTravelTime, s.Metrics.TotalTravelTime, s.Metrics.Variance} {
				assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
			}
		}
	}
}

func TestScoreInvariantUnderOriginReordering(t *testing.T) {
	forward, points := matrixOf([][]float64{
		{10, 25},
		{20, 15},
		{30, 35},
	})
	reversed, _ := matrixOf([][]float64{
		{30, 35},
		{20, 15},
		{10, 25},
	})

	a, err := scoring.ScoreCandidates(forward, points, models.GoalMinimax)
	require.NoError(t, err)
	b, err := scoring.ScoreCandidates(reversed, points, models.GoalMinimax)
	require.NoError(t, err)

	for i := range a {
		assert.Equal(t, a[i].Point.ID, b[i].Point.ID)
		assert.Equal(t, a[i].Score, b[i].Score)
		assert.Equal(t, a[i].Metrics, b[i].Metrics)
	}
}

func TestTiesKeepGenerationOrder(t *testing.T) {
	matrix, points := matrixOf([][]float64{
		{20, 20, 20},
	})

	scored, err := scoring.ScoreCandidates(matrix, points, models.GoalMinimax)
	require.NoError(t, err)
	assert.Equal(t, "c0", scored[0].Point.ID)
	assert.Equal(t, "c1", scored[1].Point.ID)
	assert.Equal(t, "c2", scored[2].Point.ID)
}

func TestPointCountMismatch(t *testing.T) {
	matrix, points := matrixOf([][]float64{{10, 20}})
	_, err := scoring.ScoreCandidates(matrix, points[:1], models.GoalMinimax)
	assert.Error(t, err)
}

func TestRescoreForGoal(t *testing.T) {
	matrix, points := matrixOf([][]float64{
		{10, 40},
		{30, 40},
	})

	minimax, err := scoring.ScoreCandidates(matrix, points, models.GoalMinimax)
	require.NoError(t, err)

	rescored := scoring.RescoreForGoal(minimax, models.GoalMean)

	// Same ranking as scoring fresh under MEAN
	direct, err := scoring.ScoreCandidates(matrix, points, models.GoalMean)
	require.NoError(t, err)
	require.Len(t, rescored, len(direct))
	for i := range rescored {
		assert.Equal(t, direct[i].Point.ID, rescored[i].Point.ID)
		assert.Equal(t, direct[i].Score, rescored[i].Score)
		assert.Equal(t, direct[i].Rank, rescored[i].Rank)
	}

	// Input not mutated
	assert.Equal(t, 30.0, minimax[0].Score)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		raw  float64
		kind scoring.TravelTimeKind
	}{
		{"Measured", 42, scoring.Measured},
		{"Zero", 0, scoring.Measured},
		{"Ceiling", 24 * 60, scoring.Measured},
		{"OverCeiling", 24*60 + 0.5, scoring.Unreachable},
		{"Sentinel", models.UnreachableSentinel, scoring.Unreachable},
		{"Negative", -3, scoring.Invalid},
		{"NaN", math.NaN(), scoring.Invalid},
		{"PosInf", math.Inf(1), scoring.Invalid},
		{"NegInf", math.Inf(-1), scoring.Invalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, scoring.Classify(tc.raw).Kind)
		})
	}
}
