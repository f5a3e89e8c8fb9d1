// Package pipeline sequences hypothesis generation, matrix evaluation,
// scoring and selection for one optimization run. Phase outcomes are
// explicit values (succeeded / skipped / fatal) driving the state machine
// as data; fallbacks are never expressed through panic or error bubbling
// from deep inside a phase.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/meetfair/meetpoint-backend-go/internal/hypothesis"
	"github.com/meetfair/meetpoint-backend-go/internal/models"
	"github.com/meetfair/meetpoint-backend-go/internal/scoring"
	"github.com/meetfair/meetpoint-backend-go/internal/selection"
	"github.com/meetfair/meetpoint-backend-go/internal/spatial"
	"github.com/meetfair/meetpoint-backend-go/internal/travelmatrix"
)

// State names one step of the optimization run
type State string

const (
	StateGeneratingPhase0  State = "GENERATING_PHASE0"
	StateEvaluatingPhase01 State = "EVALUATING_PHASE01"
	StateScoringPhase01    State = "SCORING_PHASE01"
	StateGeneratingPhase2  State = "GENERATING_PHASE2"
	StateEvaluatingPhase2  State = "EVALUATING_PHASE2"
	StateScoringPhase2     State = "SCORING_PHASE2"
	StateSelecting         State = "SELECTING"
	StateFallback          State = "FALLBACK"
	StateDone              State = "DONE"
)

// ErrNoValidCandidates means no usable point survived all phases and
// sanitization; there is no meaningful answer to return
var ErrNoValidCandidates = errors.New("no valid candidates after all phases")

// DefaultResultCount is how many ranked candidates a run returns when the
// request does not say otherwise
const DefaultResultCount = 3

// outcome is the tagged result of one optional phase step
type outcome struct {
	skipped bool
	reason  string
}

func skipped(format string, args ...interface{}) outcome {
	return outcome{skipped: true, reason: fmt.Sprintf(format, args...)}
}

// RunParams carries everything one optimization run needs. All values are
// request-scoped; the pipeline itself holds no per-run state.
type RunParams struct {
	Locations            []models.Location
	TravelMode           models.TravelMode
	Goal                 models.OptimizationGoal
	Config               models.OptimizationConfig
	DedupThresholdMeters float64
	ResultCount          int
}

// Result is the outcome of a completed run. Degraded marks the centroid
// fallback taken when the Phase 0+1 matrix call fails; a run that merely
// lost Phase 2 is not degraded.
type Result struct {
	Best        models.OptimalResult     `json:"best"`
	Candidates  []models.ScoredCandidate `json:"candidates"`
	Degraded    bool                     `json:"degraded"`
	MatrixCalls int                      `json:"matrix_calls"`
	FinalState  State                    `json:"final_state"`
}

// Pipeline runs the multi-phase meeting-point optimization
type Pipeline struct {
	orchestrator *travelmatrix.Orchestrator
}

// New creates a pipeline around the injected matrix function
func New(compute travelmatrix.MatrixFunc) *Pipeline {
	return &Pipeline{orchestrator: travelmatrix.NewOrchestrator(compute)}
}

// GenerateHypothesisPoints builds the Phase 0 (+ Phase 1 if configured)
// candidate set without spending any external call. Deterministic for
// identical inputs in identical order.
func (p *Pipeline) GenerateHypothesisPoints(locations []models.Location, cfg models.OptimizationConfig) ([]models.HypothesisPoint, error) {
	if err := cfg.Validate(len(locations)); err != nil {
		return nil, err
	}

	points, err := hypothesis.Baseline(locations)
	if err != nil {
		return nil, err
	}

	if cfg.Mode != models.ModeBaseline {
		grid, err := hypothesis.CoarseGrid(locations, *cfg.CoarseGrid)
		if err != nil {
			return nil, err
		}
		points = append(points, grid...)
	}

	return hypothesis.RemoveNearDuplicates(points, hypothesis.NearDuplicateThresholdDeg), nil
}

// Run executes the full state machine for one request
func (p *Pipeline) Run(ctx context.Context, params RunParams) (*Result, error) {
	if err := params.Config.Validate(len(params.Locations)); err != nil {
		return nil, err
	}
	if params.ResultCount <= 0 {
		params.ResultCount = DefaultResultCount
	}

	budget := travelmatrix.NewCallBudget(travelmatrix.MaxCallsPerRun)

	// GENERATING_PHASE0 (+ Phase 1 when configured)
	phase0, err := hypothesis.Baseline(params.Locations)
	if err != nil {
		return nil, err
	}
	var phase1 []models.HypothesisPoint
	if params.Config.Mode != models.ModeBaseline {
		phase1, err = hypothesis.CoarseGrid(params.Locations, *params.Config.CoarseGrid)
		if err != nil {
			return nil, err
		}
	}
	phase0, phase1 = dedupePhases(phase0, phase1)

	origins := make([]models.Coordinate, len(params.Locations))
	for i, loc := range params.Locations {
		origins[i] = loc.Coordinate
	}

	// EVALUATING_PHASE01: the one mandatory external call. Failure is fatal
	// to optimization and falls back to the plain centroid.
	combined, err := p.orchestrator.EvaluateCombined(ctx, budget, origins, phase0, phase1, params.TravelMode)
	if err != nil {
		log.Printf("Phase 0+1 matrix call failed, falling back to centroid: %v", err)
		return p.fallbackResult(params, budget.Used()), nil
	}

	// SCORING_PHASE01
	evaluated := append(append([]models.HypothesisPoint{}, phase0...), phase1...)
	scored, err := scoring.ScoreCandidates(combined.Matrix, evaluated, params.Goal)
	if err != nil {
		log.Printf("Phase 0+1 scoring failed, falling back to centroid: %v", err)
		return p.fallbackResult(params, budget.Used()), nil
	}

	// Phase 2 is best-effort: any sub-step failure skips refinement and the
	// run continues on the Phase 0+1 results.
	if params.Config.Mode == models.ModeFullRefinement {
		refState, refined, out := p.runRefinement(ctx, budget, origins, scored, params)
		if out.skipped {
			log.Printf("Local refinement skipped at %s: %s", refState, out.reason)
		} else {
			scored = mergeRanked(scored, refined)
		}
	}

	// SELECTING
	deduped := selection.Deduplicate(scored, params.DedupThresholdMeters)
	top := selection.SelectTop(deduped, params.ResultCount)
	if len(top) == 0 {
		return nil, ErrNoValidCandidates
	}

	best := top[0]
	return &Result{
		Best: models.OptimalResult{
			PointID:           best.Point.ID,
			Coordinate:        best.Point.Coordinate,
			MaxTravelTime:     best.Metrics.MaxTravelTime,
			AverageTravelTime: best.Metrics.AverageTravelTime,
			OptimalPhase:      resultPhase(best.Point.Phase),
		},
		Candidates:  top,
		Degraded:    false,
		MatrixCalls: budget.Used(),
		FinalState:  StateDone,
	}, nil
}

// runRefinement executes the three Phase 2 sub-steps. Every failure shape
// is returned as a skipped outcome, never as an error.
func (p *Pipeline) runRefinement(ctx context.Context, budget *travelmatrix.CallBudget, origins []models.Coordinate, scored []models.ScoredCandidate, params RunParams) (State, []models.ScoredCandidate, outcome) {
	state := StateGeneratingPhase2
	points, err := hypothesis.LocalRefinement(scored, *params.Config.LocalRefinement)
	if err != nil {
		return state, nil, skipped("generation failed: %v", err)
	}
	if len(points) == 0 {
		return state, nil, skipped("refinement produced no new cells")
	}

	state = StateEvaluatingPhase2
	matrix, err := p.orchestrator.EvaluateRefinement(ctx, budget, origins, points, params.TravelMode)
	if err != nil {
		return state, nil, skipped("matrix call failed: %v", err)
	}

	state = StateScoringPhase2
	refined, err := scoring.ScoreCandidates(matrix, points, params.Goal)
	if err != nil {
		return state, nil, skipped("scoring failed: %v", err)
	}

	return state, refined, outcome{}
}

// fallbackResult returns the geographic centroid as a degraded answer when
// the mandatory Phase 0+1 evaluation could not complete
func (p *Pipeline) fallbackResult(params RunParams, callsUsed int) *Result {
	coords := make([]models.Coordinate, len(params.Locations))
	for i, loc := range params.Locations {
		coords[i] = loc.Coordinate
	}
	centroid := spatial.Centroid(coords)

	return &Result{
		Best: models.OptimalResult{
			PointID:      "centroid",
			Coordinate:   centroid,
			OptimalPhase: models.ResultPhaseFallback,
		},
		Degraded:    true,
		MatrixCalls: callsUsed,
		FinalState:  StateFallback,
	}
}

// dedupePhases removes near-duplicates across the combined Phase 0+1 set
// while preserving phase membership. Phase 0 anchors come first, so an
// anchor always survives its grid twin.
func dedupePhases(phase0, phase1 []models.HypothesisPoint) ([]models.HypothesisPoint, []models.HypothesisPoint) {
	combined := append(append([]models.HypothesisPoint{}, phase0...), phase1...)
	kept := hypothesis.RemoveNearDuplicates(combined, hypothesis.NearDuplicateThresholdDeg)

	var p0, p1 []models.HypothesisPoint
	for _, p := range kept {
		if p.Phase == models.PhaseAnchor {
			p0 = append(p0, p)
		} else {
			p1 = append(p1, p)
		}
	}
	return p0, p1
}

// mergeRanked concatenates two individually ranked lists and re-sorts by
// score. The stable sort keeps Phase 0+1 candidates ahead of Phase 2 on
// exact ties.
func mergeRanked(a, b []models.ScoredCandidate) []models.ScoredCandidate {
	merged := make([]models.ScoredCandidate, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score < merged[j].Score
	})
	for i := range merged {
		merged[i].Rank = i + 1
	}
	return merged
}

// resultPhase maps a point's generation phase onto the audited result phase
func resultPhase(phase models.GenerationPhase) models.ResultPhase {
	switch phase {
	case models.PhaseCoarseGrid:
		return models.ResultPhase1
	case models.PhaseLocalRefinement:
		return models.ResultPhase2
	default:
		return models.ResultPhase0
	}
}
