// Package hypothesis builds the phased candidate sets the optimization
// pipeline evaluates: always-on anchors (Phase 0), an optional coarse grid
// over the participants' padded bounding box (Phase 1), and fine grids
// around the best scored candidates (Phase 2).
package hypothesis

import (
	"errors"
	"fmt"

	"github.com/meetfair/meetpoint-backend-go/internal/models"
	"github.com/meetfair/meetpoint-backend-go/internal/spatial"
)

// Generation errors
var (
	ErrNoLocations  = errors.New("no participant locations provided")
	ErrNoCandidates = errors.New("no candidates to refine around")
)

// NearDuplicateThresholdDeg is the default per-axis threshold under which
// two hypothesis points are indistinguishable (~111 m in latitude) and not
// worth separate external-call budget
const NearDuplicateThresholdDeg = 0.001

// Baseline generates the Phase 0 anchor set: the geographic centroid, the
// per-axis median, every participant location, and every pairwise midpoint.
// For n locations it yields exactly 2 + n + C(n,2) points with
// deterministic ids.
func Baseline(locations []models.Location) ([]models.HypothesisPoint, error) {
	if len(locations) == 0 {
		return nil, ErrNoLocations
	}
	for i, loc := range locations {
		if !loc.Coordinate.Valid() {
			return nil, fmt.Errorf("location %q (index %d) has invalid coordinate (%g, %g)",
				loc.ID, i, loc.Coordinate.Latitude, loc.Coordinate.Longitude)
		}
	}

	coords := make([]models.Coordinate, len(locations))
	for i, loc := range locations {
		coords[i] = loc.Coordinate
	}

	points := make([]models.HypothesisPoint, 0, 2+len(locations)+len(locations)*(len(locations)-1)/2)

	points = append(points, models.HypothesisPoint{
		ID:         "centroid",
		Coordinate: spatial.Centroid(coords),
		Type:       models.PointTypeGeographicCentroid,
		Phase:      models.PhaseAnchor,
	})
	points = append(points, models.HypothesisPoint{
		ID:         "median",
		Coordinate: spatial.MedianCoordinate(coords),
		Type:       models.PointTypeMedianCoordinate,
		Phase:      models.PhaseAnchor,
	})

	for _, loc := range locations {
		points = append(points, models.HypothesisPoint{
			ID:         "participant-" + loc.ID,
			Coordinate: loc.Coordinate,
			Type:       models.PointTypeParticipantLocation,
			Phase:      models.PhaseAnchor,
			Metadata:   &models.PointMetadata{ParticipantID: loc.ID},
		})
	}

	for i := 0; i < len(locations); i++ {
		for j := i + 1; j < len(locations); j++ {
			points = append(points, models.HypothesisPoint{
				ID:         fmt.Sprintf("midpoint-%d-%d", i, j),
				Coordinate: spatial.Midpoint(locations[i].Coordinate, locations[j].Coordinate),
				Type:       models.PointTypePairwiseMidpoint,
				Phase:      models.PhaseAnchor,
				Metadata: &models.PointMetadata{
					PairFirstID:  locations[i].ID,
					PairSecondID: locations[j].ID,
				},
			})
		}
	}

	// Derived points must also be valid before they reach the matrix provider
	for _, p := range points {
		if !p.Coordinate.Valid() {
			return nil, fmt.Errorf("derived point %s has invalid coordinate (%g, %g)",
				p.ID, p.Coordinate.Latitude, p.Coordinate.Longitude)
		}
	}

	return points, nil
}

// CoarseGrid generates the Phase 1 uniform grid over the padded bounding
// box of all participants
func CoarseGrid(locations []models.Location, cfg models.CoarseGridConfig) ([]models.HypothesisPoint, error) {
	if len(locations) == 0 {
		return nil, ErrNoLocations
	}

	coords := make([]models.Coordinate, len(locations))
	for i, loc := range locations {
		coords[i] = loc.Coordinate
	}

	box, err := spatial.PaddedBoundingBox(coords, cfg.PaddingKm)
	if err != nil {
		return nil, fmt.Errorf("failed to build bounding box: %w", err)
	}

	cells, err := spatial.GenerateGrid(box, cfg.GridResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to generate coarse grid: %w", err)
	}

	points := make([]models.HypothesisPoint, len(cells))
	for i, cell := range cells {
		points[i] = models.HypothesisPoint{
			ID:         fmt.Sprintf("grid-%d-%d", i/cfg.GridResolution, i%cfg.GridResolution),
			Coordinate: cell,
			Type:       models.PointTypeCoarseGridCell,
			Phase:      models.PhaseCoarseGrid,
		}
	}
	return points, nil
}

// LocalRefinement generates the Phase 2 fine grids around the best
// already-scored candidates. Candidates come from the scoring step; this
// package never scores.
func LocalRefinement(candidates []models.ScoredCandidate, cfg models.LocalRefinementConfig) ([]models.HypothesisPoint, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	cells, err := spatial.RefinementGrids(candidates, cfg.TopK, cfg.RefinementRadiusKm, cfg.FineGridResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refinement grids: %w", err)
	}

	points := make([]models.HypothesisPoint, len(cells))
	for i, cell := range cells {
		points[i] = models.HypothesisPoint{
			ID:         fmt.Sprintf("refine-%d", i),
			Coordinate: cell,
			Type:       models.PointTypeLocalRefinementCell,
			Phase:      models.PhaseLocalRefinement,
		}
	}
	return points, nil
}

// RemoveNearDuplicates keeps the first-seen point of every cluster whose
// members lie within thresholdDeg on both axes. Order is preserved, so
// anchors placed ahead of grid cells survive their grid twins. Applied
// before any external-call budget is spent.
func RemoveNearDuplicates(points []models.HypothesisPoint, thresholdDeg float64) []models.HypothesisPoint {
	if thresholdDeg <= 0 {
		thresholdDeg = NearDuplicateThresholdDeg
	}

	kept := make([]models.HypothesisPoint, 0, len(points))
	for _, p := range points {
		dup := false
		for _, k := range kept {
			if abs(p.Coordinate.Latitude-k.Coordinate.Latitude) < thresholdDeg &&
				abs(p.Coordinate.Longitude-k.Coordinate.Longitude) < thresholdDeg {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, p)
		}
	}
	return kept
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
