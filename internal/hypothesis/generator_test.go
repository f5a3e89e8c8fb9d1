package hypothesis_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetfair/meetpoint-backend-go/internal/hypothesis"
	"github.com/meetfair/meetpoint-backend-go/internal/models"
)

func locations(n int) []models.Location {
	locs := make([]models.Location, n)
	for i := range locs {
		locs[i] = models.Location{
			ID:   fmt.Sprintf("p%d", i+1),
			Name: fmt.Sprintf("Participant %d", i+1),
			Coordinate: models.Coordinate{
				Latitude:  40.0 + float64(i)*0.1,
				Longitude: -74.0 + float64(i)*0.15,
			},
		}
	}
	return locs
}

func TestBaselineCounts(t *testing.T) {
	for n := 2; n <= 12; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			points, err := hypothesis.Baseline(locations(n))
			require.NoError(t, err)

			byType := map[models.PointType]int{}
			for _, p := range points {
				byType[p.Type]++
				assert.Equal(t, models.PhaseAnchor, p.Phase)
			}

			assert.Equal(t, 1, byType[models.PointTypeGeographicCentroid])
			assert.Equal(t, 1, byType[models.PointTypeMedianCoordinate])
			assert.Equal(t, n, byType[models.PointTypeParticipantLocation])
			assert.Equal(t, n*(n-1)/2, byType[models.PointTypePairwiseMidpoint])
			assert.Len(t, points, 2+n+n*(n-1)/2)
		})
	}
}

func TestBaselineDeterministicIDs(t *testing.T) {
	first, err := hypothesis.Baseline(locations(4))
	require.NoError(t, err)
	second, err := hypothesis.Baseline(locations(4))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Participant order feeds derived ids
	assert.Equal(t, "centroid", first[0].ID)
	assert.Equal(t, "median", first[1].ID)
	assert.Equal(t, "participant-p1", first[2].ID)
	assert.Equal(t, "midpoint-0-1", first[6].ID)
}

func TestBaselineMetadata(t *testing.T) {
	points, err := hypothesis.Baseline(locations(3))
	require.NoError(t, err)

	for _, p := range points {
		switch p.Type {
		case models.PointTypeParticipantLocation:
			require.NotNil(t, p.Metadata)
			assert.NotEmpty(t, p.Metadata.ParticipantID)
		case models.PointTypePairwiseMidpoint:
			require.NotNil(t, p.Metadata)
			assert.NotEmpty(t, p.Metadata.PairFirstID)
			assert.NotEmpty(t, p.Metadata.PairSecondID)
		default:
			assert.Nil(t, p.Metadata)
		}
	}
}

func TestBaselineErrors(t *testing.T) {
	_, err := hypothesis.Baseline(nil)
	assert.ErrorIs(t, err, hypothesis.ErrNoLocations)

	bad := locations(3)
	bad[1].Coordinate.Latitude = 91
	_, err = hypothesis.Baseline(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p2") // message names the offending input
}

func TestCoarseGrid(t *testing.T) {
	cfg := models.CoarseGridConfig{Enabled: true, PaddingKm: 5, GridResolution: 4}
	points, err := hypothesis.CoarseGrid(locations(3), cfg)
	require.NoError(t, err)
	require.Len(t, points, 16)

	for _, p := range points {
		assert.Equal(t, models.PointTypeCoarseGridCell, p.Type)
		assert.Equal(t, models.PhaseCoarseGrid, p.Phase)
	}
	assert.Equal(t, "grid-0-0", points[0].ID)
	assert.Equal(t, "grid-3-3", points[15].ID)

	_, err = hypothesis.CoarseGrid(nil, cfg)
	assert.ErrorIs(t, err, hypothesis.ErrNoLocations)
}

func TestLocalRefinement(t *testing.T) {
	candidates := []models.ScoredCandidate{
		{
			Point:   models.HypothesisPoint{ID: "a", Coordinate: models.Coordinate{Latitude: 40, Longitude: -74}},
			Metrics: models.TravelTimeMetrics{MaxTravelTime: 12},
		},
	}
	cfg := models.LocalRefinementConfig{Enabled: true, TopK: 3, RefinementRadiusKm: 1, FineGridResolution: 3}

	points, err := hypothesis.LocalRefinement(candidates, cfg)
	require.NoError(t, err)
	require.Len(t, points, 9)
	for _, p := range points {
		assert.Equal(t, models.PointTypeLocalRefinementCell, p.Type)
		assert.Equal(t, models.PhaseLocalRefinement, p.Phase)
	}

	_, err = hypothesis.LocalRefinement(nil, cfg)
	assert.ErrorIs(t, err, hypothesis.ErrNoCandidates)
}

func TestRemoveNearDuplicates(t *testing.T) {
	mk := func(id string, lat, lon float64) models.HypothesisPoint {
		return models.HypothesisPoint{ID: id, Coordinate: models.Coordinate{Latitude: lat, Longitude: lon}}
	}
	points := []models.HypothesisPoint{
		mk("a", 40.0000, -74.0000),
		mk("b", 40.0005, -74.0005), // within 0.001° of a on both axes
		mk("c", 40.0020, -74.0000), // far enough in latitude
		mk("d", 40.0000, -74.0020),
	}

	kept := hypothesis.RemoveNearDuplicates(points, 0.001)
	require.Len(t, kept, 3)
	assert.Equal(t, "a", kept[0].ID) // first seen survives
	assert.Equal(t, "c", kept[1].ID)
	assert.Equal(t, "d", kept[2].ID)

	// Idempotent
	again := hypothesis.RemoveNearDuplicates(kept, 0.001)
	assert.Equal(t, kept, again)
}
