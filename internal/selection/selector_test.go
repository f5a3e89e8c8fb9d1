package selection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetfair/meetpoint-backend-go/internal/models"
	"github.com/meetfair/meetpoint-backend-go/internal/selection"
)

func candidate(id string, lat, lon, score float64) models.ScoredCandidate {
	return models.ScoredCandidate{
		Point: models.HypothesisPoint{
			ID:         id,
			Coordinate: models.Coordinate{Latitude: lat, Longitude: lon},
		},
		Score: score,
	}
}

func TestDeduplicateKeepsBetterScored(t *testing.T) {
	// b sits ~55 m east of a; scan order is score order, so a survives
	candidates := []models.ScoredCandidate{
		candidate("a", 40.7000, -74.0000, 10),
		candidate("b", 40.7000, -73.99935, 12),
		candidate("c", 40.7100, -74.0000, 15), // ~1.1 km north
	}

	kept := selection.Deduplicate(candidates, 200)
	require.Len(t, kept, 2)
	assert.Equal(t, "a", kept[0].Point.ID)
	assert.Equal(t, "c", kept[1].Point.ID)
}

func TestDeduplicateIdempotent(t *testing.T) {
	candidates := []models.ScoredCandidate{
		candidate("a", 40.7000, -74.0000, 1),
		candidate("b", 40.7001, -74.0001, 2),
		candidate("c", 40.7050, -74.0000, 3),
		candidate("d", 40.7050, -74.0001, 4),
	}

	once := selection.Deduplicate(candidates, 150)
	twice := selection.Deduplicate(once, 150)
	assert.Equal(t, once, twice)
}

func TestDeduplicateEmptyAndSingle(t *testing.T) {
	assert.Empty(t, selection.Deduplicate(nil, 100))

	single := []models.ScoredCandidate{candidate("a", 40, -74, 1)}
	assert.Equal(t, single, selection.Deduplicate(single, 100))
}

func TestSelectTop(t *testing.T) {
	candidates := []models.ScoredCandidate{
		candidate("a", 40.70, -74.00, 1),
		candidate("b", 40.71, -74.00, 2),
		candidate("c", 40.72, -74.00, 3),
	}
	for i := range candidates {
		candidates[i].Rank = 7 + i // stale ranks from a bigger list
	}

	top := selection.SelectTop(candidates, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "a", top[0].Point.ID)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, 2, top[1].Rank)

	// k beyond length returns everything re-ranked
	all := selection.SelectTop(candidates, 10)
	assert.Len(t, all, 3)
	assert.Equal(t, 3, all[2].Rank)
}

// A dense duplicate cluster must be thinned before slicing, or the
// requested count under-fills
func TestDedupBeforeSlice(t *testing.T) {
	cluster := []models.ScoredCandidate{
		candidate("a1", 40.7000, -74.0000, 1),
		candidate("a2", 40.7001, -74.0000, 2),
		candidate("a3", 40.7002, -74.0000, 3),
		candidate("b", 40.8000, -74.0000, 4),
		candidate("c", 40.9000, -74.0000, 5),
	}

	top := selection.SelectTop(selection.Deduplicate(cluster, 200), 3)
	require.Len(t, top, 3)
	assert.Equal(t, "a1", top[0].Point.ID)
	assert.Equal(t, "b", top[1].Point.ID)
	assert.Equal(t, "c", top[2].Point.ID)
}
