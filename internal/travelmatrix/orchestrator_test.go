package travelmatrix_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetfair/meetpoint-backend-go/internal/models"
	"github.com/meetfair/meetpoint-backend-go/internal/travelmatrix"
)

func point(id string, lat, lon float64) models.HypothesisPoint {
	return models.HypothesisPoint{ID: id, Coordinate: models.Coordinate{Latitude: lat, Longitude: lon}}
}

// fakeMatrix returns a well-formed matrix and counts invocations
func fakeMatrix(calls *int) travelmatrix.MatrixFunc {
	return func(_ context.Context, origins, destinations []models.Coordinate, mode models.TravelMode) (*models.TravelTimeMatrix, error) {
		*calls++
		times := make([][]float64, len(origins))
		for i := range times {
			times[i] = make([]float64, len(destinations))
			for j := range times[i] {
				times[i][j] = float64(10 + i + j)
			}
		}
		return &models.TravelTimeMatrix{
			Origins:      origins,
			Destinations: destinations,
			TravelTimes:  times,
			TravelMode:   mode,
		}, nil
	}
}

func TestEvaluateCombinedMergesPhases(t *testing.T) {
	calls := 0
	orch := travelmatrix.NewOrchestrator(fakeMatrix(&calls))
	budget := travelmatrix.NewCallBudget(travelmatrix.MaxCallsPerRun)

	origins := []models.Coordinate{{Latitude: 40, Longitude: -74}, {Latitude: 41, Longitude: -73}}
	phase0 := []models.HypothesisPoint{point("a", 40.5, -73.5), point("b", 40.6, -73.6)}
	phase1 := []models.HypothesisPoint{point("g1", 40.7, -73.7), point("g2", 40.8, -73.8), point("g3", 40.9, -73.9)}

	result, err := orch.EvaluateCombined(context.Background(), budget, origins, phase0, phase1, models.TravelModeDrivingCar)
	require.NoError(t, err)

	assert.Equal(t, 1, calls) // both phases in one call
	assert.Equal(t, 1, budget.Used())
	assert.Len(t, result.Matrix.Destinations, 5)
	assert.Equal(t, 2, result.Phase0Count)
	assert.Equal(t, []int{0, 1}, result.Phase0Columns())
	assert.Equal(t, []int{2, 3, 4}, result.Phase1Columns())
}

func TestCallBudgetExhaustion(t *testing.T) {
	calls := 0
	orch := travelmatrix.NewOrchestrator(fakeMatrix(&calls))
	budget := travelmatrix.NewCallBudget(travelmatrix.MaxCallsPerRun)

	origins := []models.Coordinate{{Latitude: 40, Longitude: -74}}
	phase0 := []models.HypothesisPoint{point("a", 40.5, -73.5)}
	phase2 := []models.HypothesisPoint{point("r", 40.6, -73.4)}

	_, err := orch.EvaluateCombined(context.Background(), budget, origins, phase0, nil, models.TravelModeDrivingCar)
	require.NoError(t, err)
	_, err = orch.EvaluateRefinement(context.Background(), budget, origins, phase2, models.TravelModeDrivingCar)
	require.NoError(t, err)
	assert.Equal(t, 2, budget.Used())

	// Third call must be refused without reaching the provider
	_, err = orch.EvaluateRefinement(context.Background(), budget, origins, phase2, models.TravelModeDrivingCar)
	assert.ErrorIs(t, err, travelmatrix.ErrCallBudgetExhausted)
	assert.Equal(t, 2, calls)
}

func TestEvaluateCombinedEmptyDestinations(t *testing.T) {
	calls := 0
	orch := travelmatrix.NewOrchestrator(fakeMatrix(&calls))
	budget := travelmatrix.NewCallBudget(travelmatrix.MaxCallsPerRun)

	_, err := orch.EvaluateCombined(context.Background(), budget, []models.Coordinate{{Latitude: 40}}, nil, nil, models.TravelModeDrivingCar)
	assert.ErrorIs(t, err, travelmatrix.ErrNoDestinations)
	assert.Equal(t, 0, budget.Used())
	assert.Equal(t, 0, calls)
}

func TestProviderFailurePropagates(t *testing.T) {
	boom := errors.New("upstream quota exceeded")
	orch := travelmatrix.NewOrchestrator(func(context.Context, []models.Coordinate, []models.Coordinate, models.TravelMode) (*models.TravelTimeMatrix, error) {
		return nil, boom
	})
	budget := travelmatrix.NewCallBudget(travelmatrix.MaxCallsPerRun)

	_, err := orch.EvaluateCombined(context.Background(), budget,
		[]models.Coordinate{{Latitude: 40, Longitude: -74}},
		[]models.HypothesisPoint{point("a", 40.5, -73.5)}, nil, models.TravelModeDrivingCar)
	assert.ErrorIs(t, err, boom)
	// A failed call still consumes budget; retries are the caller's problem
	assert.Equal(t, 1, budget.Used())
}

func TestMalformedMatrixRejected(t *testing.T) {
	orch := travelmatrix.NewOrchestrator(func(_ context.Context, origins, destinations []models.Coordinate, mode models.TravelMode) (*models.TravelTimeMatrix, error) {
		return &models.TravelTimeMatrix{
			Origins:      origins,
			Destinations: destinations,
			TravelTimes:  [][]float64{{1, 2, 3}}, // wrong column count
			TravelMode:   mode,
		}, nil
	})
	budget := travelmatrix.NewCallBudget(travelmatrix.MaxCallsPerRun)

	_, err := orch.EvaluateCombined(context.Background(), budget,
		[]models.Coordinate{{Latitude: 40, Longitude: -74}},
		[]models.HypothesisPoint{point("a", 40.5, -73.5)}, nil, models.TravelModeDrivingCar)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}
