package spatial

import (
	"errors"
	"fmt"
	"sort"

	"github.com/meetfair/meetpoint-backend-go/internal/models"
)

// Geometry errors
var (
	ErrNoPoints          = errors.New("no points provided")
	ErrInvalidResolution = errors.New("grid resolution out of range")
	ErrEmptyBoundingBox  = errors.New("bounding box is empty")
)

// BoundingBox is a latitude/longitude axis-aligned box
type BoundingBox struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// Centroid calculates the geographic centroid (arithmetic mean per axis)
// of a set of points
func Centroid(points []models.Coordinate) models.Coordinate {
	if len(points) == 0 {
		return models.Coordinate{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Latitude
		sumLon += p.Longitude
	}

	return models.Coordinate{
		Latitude:  sumLat / float64(len(points)),
		Longitude: sumLon / float64(len(points)),
	}
}

// MedianCoordinate calculates the independent per-axis median. This is not
// a true 2D median: the result is cheap and stable but not guaranteed to
// coincide with any input point.
func MedianCoordinate(points []models.Coordinate) models.Coordinate {
	if len(points) == 0 {
		return models.Coordinate{}
	}

	lats := make([]float64, len(points))
	lons := make([]float64, len(points))
	for i, p := range points {
		lats[i] = p.Latitude
		lons[i] = p.Longitude
	}

	return models.Coordinate{
		Latitude:  median(lats),
		Longitude: median(lons),
	}
}

// median calculates the median of values; the input slice is not modified
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// PairwiseMidpoints returns the spherical midpoint of every unordered pair,
// C(n,2) points in deterministic order (i ascending outer, j ascending
// inner) so derived ids are reproducible
func PairwiseMidpoints(points []models.Coordinate) []models.Coordinate {
	n := len(points)
	mids := make([]models.Coordinate, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			mids = append(mids, Midpoint(points[i], points[j]))
		}
	}
	return mids
}

// PaddedBoundingBox calculates the per-axis min/max of points expanded by
// paddingKm on every side and clamped to legal coordinate ranges. The
// km→degree conversion uses DegreesPerKm on both axes (no cos(latitude)
// correction for longitude).
func PaddedBoundingBox(points []models.Coordinate, paddingKm float64) (BoundingBox, error) {
	if len(points) == 0 {
		return BoundingBox{}, ErrNoPoints
	}

	box := BoundingBox{
		South: points[0].Latitude,
		North: points[0].Latitude,
		West:  points[0].Longitude,
		East:  points[0].Longitude,
	}
	for _, p := range points[1:] {
		if p.Latitude < box.South {
			box.South = p.Latitude
		}
		if p.Latitude > box.North {
			box.North = p.Latitude
		}
		if p.Longitude < box.West {
			box.West = p.Longitude
		}
		if p.Longitude > box.East {
			box.East = p.Longitude
		}
	}

	padDeg := paddingKm * DegreesPerKm
	box.South = clamp(box.South-padDeg, -90, 90)
	box.North = clamp(box.North+padDeg, -90, 90)
	box.West = clamp(box.West-padDeg, -180, 180)
	box.East = clamp(box.East+padDeg, -180, 180)

	return box, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// GenerateGrid returns resolution² points placed at cell centers of a
// uniform grid over the bounding box:
//
//	lat_i = south + (i+0.5)·(north-south)/resolution
//	lon_j = west  + (j+0.5)·(east-west)/resolution
//
// Rows iterate south→north outer, west→east inner.
func GenerateGrid(box BoundingBox, resolution int) ([]models.Coordinate, error) {
	if resolution < 2 || resolution > 10 {
		return nil, fmt.Errorf("%w: resolution must be between 2 and 10, got %d", ErrInvalidResolution, resolution)
	}
	if box.North < box.South || box.East < box.West {
		return nil, fmt.Errorf("%w: south=%g north=%g west=%g east=%g", ErrEmptyBoundingBox, box.South, box.North, box.West, box.East)
	}

	latStep := (box.North - box.South) / float64(resolution)
	lonStep := (box.East - box.West) / float64(resolution)

	points := make([]models.Coordinate, 0, resolution*resolution)
	for i := 0; i < resolution; i++ {
		for j := 0; j < resolution; j++ {
			points = append(points, models.Coordinate{
				Latitude:  box.South + (float64(i)+0.5)*latStep,
				Longitude: box.West + (float64(j)+0.5)*lonStep,
			})
		}
	}
	return points, nil
}

// refinementMergeMeters merges refinement cells from overlapping
// per-candidate grids that land within ~100 m of each other
const refinementMergeMeters = 100.0

// RefinementGrids builds a fine grid around each of the topK best
// candidates (ascending MaxTravelTime, stable tie-break) and merges cells
// across grids that fall within ~100 m of an earlier cell. Candidates are
// expected pre-scored; callers pass fewer than topK when fewer exist.
func RefinementGrids(candidates []models.ScoredCandidate, topK int, radiusKm float64, fineResolution int) ([]models.Coordinate, error) {
	if len(candidates) == 0 {
		return nil, ErrNoPoints
	}
	if topK < 1 || topK > 10 {
		return nil, fmt.Errorf("%w: top_k must be between 1 and 10, got %d", ErrInvalidResolution, topK)
	}
	if radiusKm < 0.5 || radiusKm > 10 {
		return nil, fmt.Errorf("refinement radius must be between 0.5 and 10 km, got %g", radiusKm)
	}
	if fineResolution < 2 || fineResolution > 5 {
		return nil, fmt.Errorf("%w: fine resolution must be between 2 and 5, got %d", ErrInvalidResolution, fineResolution)
	}

	best := make([]models.ScoredCandidate, len(candidates))
	copy(best, candidates)
	sort.SliceStable(best, func(i, j int) bool {
		return best[i].Metrics.MaxTravelTime < best[j].Metrics.MaxTravelTime
	})
	if len(best) > topK {
		best = best[:topK]
	}

	var merged []models.Coordinate
	for _, c := range best {
		box, err := PaddedBoundingBox([]models.Coordinate{c.Point.Coordinate}, radiusKm)
		if err != nil {
			return nil, err
		}
		cells, err := GenerateGrid(box, fineResolution)
		if err != nil {
			return nil, err
		}
		for _, cell := range cells {
			if !nearAny(cell, merged, refinementMergeMeters) {
				merged = append(merged, cell)
			}
		}
	}
	return merged, nil
}

// nearAny reports whether p lies within thresholdMeters of any kept point
func nearAny(p models.Coordinate, kept []models.Coordinate, thresholdMeters float64) bool {
	for _, k := range kept {
		if EquirectangularDistance(p, k) < thresholdMeters {
			return true
		}
	}
	return false
}

// PointInPolygon checks if a point is inside a polygon using ray casting
func PointInPolygon(point models.Coordinate, polygon []models.Coordinate) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	j := len(polygon) - 1

	for i := 0; i < len(polygon); i++ {
		if ((polygon[i].Latitude > point.Latitude) != (polygon[j].Latitude > point.Latitude)) &&
			(point.Longitude < (polygon[j].Longitude-polygon[i].Longitude)*(point.Latitude-polygon[i].Latitude)/(polygon[j].Latitude-polygon[i].Latitude)+polygon[i].Longitude) {
			inside = !inside
		}
		j = i
	}

	return inside
}
