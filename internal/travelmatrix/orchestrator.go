// Package travelmatrix groups hypothesis points into the fewest possible
// external matrix calls and enforces the per-request call budget. The
// travel-time provider itself is injected; this package only decides when
// and with what to call it.
package travelmatrix

import (
	"context"
	"errors"
	"fmt"

	"github.com/meetfair/meetpoint-backend-go/internal/models"
)

// MatrixFunc computes a rectangular travel-time matrix between origins and
// destinations. Implementations are expected to be expensive and
// quota-limited.
type MatrixFunc func(ctx context.Context, origins, destinations []models.Coordinate, mode models.TravelMode) (*models.TravelTimeMatrix, error)

// MaxCallsPerRun is the hard cap on external matrix calls for one
// optimization run, regardless of configuration
const MaxCallsPerRun = 2

// ErrCallBudgetExhausted means a phase asked for a matrix call after the
// per-run budget was spent
var ErrCallBudgetExhausted = errors.New("matrix call budget exhausted")

// ErrNoDestinations means a phase had no hypothesis points to evaluate
var ErrNoDestinations = errors.New("no destinations to evaluate")

// CallBudget tracks the remaining external calls for a single run. It is
// created per request and threaded through every matrix-invoking call;
// never store one at package scope.
type CallBudget struct {
	remaining int
	used      int
}

// NewCallBudget creates a budget allowing at most maxCalls external calls
func NewCallBudget(maxCalls int) *CallBudget {
	return &CallBudget{remaining: maxCalls}
}

// Used returns how many calls have been consumed
func (b *CallBudget) Used() int {
	return b.used
}

// consume takes one call from the budget
func (b *CallBudget) consume() error {
	if b.remaining <= 0 {
		return ErrCallBudgetExhausted
	}
	b.remaining--
	b.used++
	return nil
}

// Orchestrator invokes the injected matrix function once per destination
// group
type Orchestrator struct {
	compute MatrixFunc
}

// NewOrchestrator creates an orchestrator around the given matrix function
func NewOrchestrator(compute MatrixFunc) *Orchestrator {
	return &Orchestrator{compute: compute}
}

// CombinedResult holds the single matrix covering Phase 0 and Phase 1
// destinations plus the boundary needed to slice it per sub-phase
type CombinedResult struct {
	Matrix      *models.TravelTimeMatrix
	Phase0Count int // destinations [0, Phase0Count) are Phase 0, the rest Phase 1
}

// Phase0Columns returns the destination column indexes belonging to Phase 0
func (r *CombinedResult) Phase0Columns() []int {
	cols := make([]int, r.Phase0Count)
	for i := range cols {
		cols[i] = i
	}
	return cols
}

// Phase1Columns returns the destination column indexes belonging to Phase 1
func (r *CombinedResult) Phase1Columns() []int {
	total := len(r.Matrix.Destinations)
	cols := make([]int, 0, total-r.Phase0Count)
	for i := r.Phase0Count; i < total; i++ {
		cols = append(cols, i)
	}
	return cols
}

// EvaluateCombined merges the Phase 0 and Phase 1 destinations into one
// group and spends exactly one budgeted call on it. Failure here is fatal
// to the run; the caller falls back per the pipeline rules.
func (o *Orchestrator) EvaluateCombined(ctx context.Context, budget *CallBudget, origins []models.Coordinate, phase0, phase1 []models.HypothesisPoint, mode models.TravelMode) (*CombinedResult, error) {
	destinations := make([]models.Coordinate, 0, len(phase0)+len(phase1))
	for _, p := range phase0 {
		destinations = append(destinations, p.Coordinate)
	}
	for _, p := range phase1 {
		destinations = append(destinations, p.Coordinate)
	}
	if len(destinations) == 0 {
		return nil, ErrNoDestinations
	}

	matrix, err := o.call(ctx, budget, origins, destinations, mode)
	if err != nil {
		return nil, err
	}

	return &CombinedResult{Matrix: matrix, Phase0Count: len(phase0)}, nil
}

// EvaluateRefinement spends one budgeted call on the Phase 2 destinations
// as a separate group. The caller treats failure as non-fatal and continues
// on the Phase 0+1 results.
func (o *Orchestrator) EvaluateRefinement(ctx context.Context, budget *CallBudget, origins []models.Coordinate, phase2 []models.HypothesisPoint, mode models.TravelMode) (*models.TravelTimeMatrix, error) {
	if len(phase2) == 0 {
		return nil, ErrNoDestinations
	}

	destinations := make([]models.Coordinate, len(phase2))
	for i, p := range phase2 {
		destinations[i] = p.Coordinate
	}

	return o.call(ctx, budget, origins, destinations, mode)
}

// call consumes budget, invokes the provider, and validates the response
// shape before anything downstream folds over it
func (o *Orchestrator) call(ctx context.Context, budget *CallBudget, origins, destinations []models.Coordinate, mode models.TravelMode) (*models.TravelTimeMatrix, error) {
	if err := budget.consume(); err != nil {
		return nil, err
	}

	matrix, err := o.compute(ctx, origins, destinations, mode)
	if err != nil {
		return nil, fmt.Errorf("matrix computation failed: %w", err)
	}
	if err := matrix.Validate(); err != nil {
		return nil, fmt.Errorf("matrix provider returned malformed matrix: %w", err)
	}
	if len(matrix.Origins) != len(origins) || len(matrix.Destinations) != len(destinations) {
		return nil, fmt.Errorf("matrix provider returned %dx%d for a %dx%d request",
			len(matrix.Origins), len(matrix.Destinations), len(origins), len(destinations))
	}

	return matrix, nil
}
