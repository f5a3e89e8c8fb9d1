package repository_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/meetfair/meetpoint-backend-go/internal/database"
	"github.com/meetfair/meetpoint-backend-go/internal/models"
	"github.com/meetfair/meetpoint-backend-go/internal/repository"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func sampleRun() *models.OptimizationRun {
	return &models.OptimizationRun{
		ParticipantCount:  3,
		TravelMode:        models.TravelModeDrivingCar,
		Goal:              models.GoalMinimax,
		Mode:              models.ModeBaseline,
		PointID:           "midpoint-1-2",
		Latitude:          40.7087,
		Longitude:         -73.9197,
		MaxTravelTime:     21.5,
		AverageTravelTime: 16.4,
		OptimalPhase:      models.ResultPhase0,
		CandidateCount:    3,
		MatrixCalls:       1,
	}
}

func TestRunRepositoryCreateAndGet(t *testing.T) {
	repo := repository.NewRunRepository(testDB(t))

	run := sampleRun()
	require.NoError(t, repo.Create(run))
	assert.NotZero(t, run.ID)

	got, err := repo.GetByID(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.PointID, got.PointID)
	assert.Equal(t, run.OptimalPhase, got.OptimalPhase)
	assert.Equal(t, run.MaxTravelTime, got.MaxTravelTime)
	assert.False(t, got.Degraded)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = repo.GetByID(9999)
	assert.Error(t, err)
}

func TestRunRepositoryList(t *testing.T) {
	repo := repository.NewRunRepository(testDB(t))

	for i := 0; i < 5; i++ {
		run := sampleRun()
		run.MatrixCalls = i + 1
		require.NoError(t, repo.Create(run))
	}

	runs, err := repo.List(3, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	// Newest first
	assert.Equal(t, 5, runs[0].MatrixCalls)

	rest, err := repo.List(10, 3)
	require.NoError(t, err)
	assert.Len(t, rest, 2)

	// Defaults applied for bad pagination values
	all, err := repo.List(0, -1)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
