package models

import (
	"errors"
	"fmt"
)

// OptimizationMode selects how many candidate-generation phases run
type OptimizationMode string

const (
	ModeBaseline       OptimizationMode = "BASELINE"
	ModeCoarseGrid     OptimizationMode = "COARSE_GRID"
	ModeFullRefinement OptimizationMode = "FULL_REFINEMENT"
)

// OptimizationGoal selects the objective the scoring engine minimizes
type OptimizationGoal string

const (
	GoalMinimax OptimizationGoal = "MINIMAX" // minimize the worst participant's travel time
	GoalMean    OptimizationGoal = "MEAN"    // minimize travel-time variance across participants
	GoalMin     OptimizationGoal = "MIN"     // minimize total travel time
)

// ValidGoal reports whether goal is a supported optimization goal
func ValidGoal(goal OptimizationGoal) bool {
	switch goal {
	case GoalMinimax, GoalMean, GoalMin:
		return true
	}
	return false
}

// ErrConfiguration tags invalid optimization configuration; surfaced before
// any external call is made and never retried.
var ErrConfiguration = errors.New("invalid optimization config")

// MaxHypothesisPoints caps the estimated candidate count per request so a
// single run cannot exhaust the external matrix quota.
const MaxHypothesisPoints = 200

// CoarseGridConfig controls the Phase 1 uniform grid over the padded
// bounding box of all participants
type CoarseGridConfig struct {
	Enabled        bool    `json:"enabled"`
	PaddingKm      float64 `json:"padding_km"`
	GridResolution int     `json:"grid_resolution"`
}

// LocalRefinementConfig controls the Phase 2 fine grids around the best
// Phase 0+1 candidates
type LocalRefinementConfig struct {
	Enabled            bool    `json:"enabled"`
	TopK               int     `json:"top_k"`
	RefinementRadiusKm float64 `json:"refinement_radius_km"`
	FineGridResolution int     `json:"fine_grid_resolution"`
}

// OptimizationConfig is the full candidate-generation configuration for one
// optimization run
type OptimizationConfig struct {
	Mode            OptimizationMode       `json:"mode"`
	CoarseGrid      *CoarseGridConfig      `json:"coarse_grid,omitempty"`
	LocalRefinement *LocalRefinementConfig `json:"local_refinement,omitempty"`
}

// DefaultConfig returns a BASELINE configuration
func DefaultConfig() OptimizationConfig {
	return OptimizationConfig{Mode: ModeBaseline}
}

// Validate checks every field range and mode/sub-config combination.
// Errors wrap ErrConfiguration and name the offending field and bound.
func (c OptimizationConfig) Validate(participantCount int) error {
	switch c.Mode {
	case ModeBaseline:
	case ModeCoarseGrid, ModeFullRefinement:
		if c.CoarseGrid == nil || !c.CoarseGrid.Enabled {
			return fmt.Errorf("%w: mode %s requires coarse_grid.enabled=true", ErrConfiguration, c.Mode)
		}
	default:
		return fmt.Errorf("%w: mode must be one of BASELINE, COARSE_GRID, FULL_REFINEMENT, got %q", ErrConfiguration, c.Mode)
	}

	if c.Mode == ModeFullRefinement && (c.LocalRefinement == nil || !c.LocalRefinement.Enabled) {
		return fmt.Errorf("%w: mode FULL_REFINEMENT requires local_refinement.enabled=true", ErrConfiguration)
	}

	if g := c.CoarseGrid; g != nil && g.Enabled {
		if g.PaddingKm < 0 || g.PaddingKm > 50 {
			return fmt.Errorf("%w: coarse_grid.padding_km must be between 0 and 50, got %g", ErrConfiguration, g.PaddingKm)
		}
		if g.GridResolution < 2 || g.GridResolution > 10 {
			return fmt.Errorf("%w: coarse_grid.grid_resolution must be between 2 and 10, got %d", ErrConfiguration, g.GridResolution)
		}
		if cells := g.GridResolution * g.GridResolution; cells > 100 {
			return fmt.Errorf("%w: coarse_grid resolution %d yields %d cells, limit is 100", ErrConfiguration, g.GridResolution, cells)
		}
	}

	if r := c.LocalRefinement; r != nil && r.Enabled {
		if r.TopK < 1 || r.TopK > 10 {
			return fmt.Errorf("%w: local_refinement.top_k must be between 1 and 10, got %d", ErrConfiguration, r.TopK)
		}
		if r.RefinementRadiusKm < 0.5 || r.RefinementRadiusKm > 10 {
			return fmt.Errorf("%w: local_refinement.refinement_radius_km must be between 0.5 and 10, got %g", ErrConfiguration, r.RefinementRadiusKm)
		}
		if r.FineGridResolution < 2 || r.FineGridResolution > 5 {
			return fmt.Errorf("%w: local_refinement.fine_grid_resolution must be between 2 and 5, got %d", ErrConfiguration, r.FineGridResolution)
		}
		if pts := r.TopK * r.FineGridResolution * r.FineGridResolution; pts > 75 {
			return fmt.Errorf("%w: local_refinement top_k=%d with resolution %d yields %d points, limit is 75", ErrConfiguration, r.TopK, r.FineGridResolution, pts)
		}
	}

	if est := c.EstimatedHypothesisCount(participantCount); est > MaxHypothesisPoints {
		return fmt.Errorf("%w: configuration yields an estimated %d hypothesis points for %d participants, limit is %d", ErrConfiguration, est, participantCount, MaxHypothesisPoints)
	}

	return nil
}

// EstimatedHypothesisCount returns the worst-case candidate count this
// configuration can generate for n participants, before deduplication
func (c OptimizationConfig) EstimatedHypothesisCount(n int) int {
	// centroid + median + n participants + C(n,2) midpoints
	count := 2 + n + n*(n-1)/2
	if g := c.CoarseGrid; g != nil && g.Enabled && c.Mode != ModeBaseline {
		count += g.GridResolution * g.GridResolution
	}
	if r := c.LocalRefinement; r != nil && r.Enabled && c.Mode == ModeFullRefinement {
		count += r.TopK * r.FineGridResolution * r.FineGridResolution
	}
	return count
}
