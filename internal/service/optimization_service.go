package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/meetfair/meetpoint-backend-go/internal/config"
	"github.com/meetfair/meetpoint-backend-go/internal/models"
	"github.com/meetfair/meetpoint-backend-go/internal/pipeline"
	"github.com/meetfair/meetpoint-backend-go/internal/repository"
	"github.com/meetfair/meetpoint-backend-go/internal/scoring"
	"github.com/meetfair/meetpoint-backend-go/internal/travel"
)

// OptimizationService ties the optimization pipeline to persistence and the
// on-demand travel capabilities
type OptimizationService struct {
	pipeline     *pipeline.Pipeline
	runs         *repository.RunRepository
	reachability travel.ReachabilityClient
	geocoder     travel.Geocoder
	cfg          *config.Config
}

// NewOptimizationService creates a new optimization service
func NewOptimizationService(pipe *pipeline.Pipeline, runs *repository.RunRepository, reach travel.ReachabilityClient, geocoder travel.Geocoder, cfg *config.Config) *OptimizationService {
	return &OptimizationService{pipeline: pipe, runs: runs, reachability: reach, geocoder: geocoder, cfg: cfg}
}

// RunOptimization executes one optimization run and records the audit row.
// Persistence failures are logged, never surfaced: the computed result is
// still a valid answer.
func (s *OptimizationService) RunOptimization(ctx context.Context, req *models.OptimizeRequest) (*pipeline.Result, error) {
	cfg := models.DefaultConfig()
	if req.Config != nil {
		cfg = *req.Config
	}
	resultCount := req.ResultCount
	if resultCount <= 0 {
		resultCount = s.cfg.DefaultResultCount
	}

	result, err := s.pipeline.Run(ctx, pipeline.RunParams{
		Locations:            req.Locations,
		TravelMode:           req.TravelMode,
		Goal:                 req.Goal,
		Config:               cfg,
		DedupThresholdMeters: s.cfg.DedupThresholdMeters,
		ResultCount:          resultCount,
	})
	if err != nil {
		return nil, err
	}

	if s.runs != nil {
		run := &models.OptimizationRun{
			ParticipantCount:  len(req.Locations),
			TravelMode:        req.TravelMode,
			Goal:              req.Goal,
			Mode:              cfg.Mode,
			PointID:           result.Best.PointID,
			Latitude:          result.Best.Coordinate.Latitude,
			Longitude:         result.Best.Coordinate.Longitude,
			MaxTravelTime:     result.Best.MaxTravelTime,
			AverageTravelTime: result.Best.AverageTravelTime,
			OptimalPhase:      result.Best.OptimalPhase,
			Degraded:          result.Degraded,
			CandidateCount:    len(result.Candidates),
			MatrixCalls:       result.MatrixCalls,
		}
		if err := s.runs.Create(run); err != nil {
			log.Printf("Failed to persist optimization run: %v", err)
		}
	}

	return result, nil
}

// GenerateHypotheses builds the candidate set for the given locations and
// configuration without any external call
func (s *OptimizationService) GenerateHypotheses(req *models.HypothesesRequest) ([]models.HypothesisPoint, error) {
	cfg := models.DefaultConfig()
	if req.Config != nil {
		cfg = *req.Config
	}
	return s.pipeline.GenerateHypothesisPoints(req.Locations, cfg)
}

// Rescore re-ranks previously scored candidates under a different goal.
// Pure re-fold; no external call.
func (s *OptimizationService) Rescore(req *models.RescoreRequest) ([]models.ScoredCandidate, error) {
	if !models.ValidGoal(req.Goal) {
		return nil, fmt.Errorf("%w: goal must be one of MINIMAX, MEAN, MIN, got %q", models.ErrInputValidation, req.Goal)
	}
	if len(req.Candidates) == 0 {
		return nil, fmt.Errorf("%w: candidates must not be empty", models.ErrInputValidation)
	}
	return scoring.RescoreForGoal(req.Candidates, req.Goal), nil
}

// Reachability computes the isochrone for one chosen candidate
func (s *OptimizationService) Reachability(ctx context.Context, req *models.ReachabilityRequest) (*models.Polygon, error) {
	if s.reachability == nil {
		return nil, errors.New("reachability capability not configured")
	}
	return s.reachability.Reachability(ctx, req.Center, req.BufferMinutes, req.TravelMode)
}

// Geocode resolves a free-form address to a coordinate
func (s *OptimizationService) Geocode(ctx context.Context, address string) (models.Coordinate, error) {
	if s.geocoder == nil {
		return models.Coordinate{}, errors.New("geocoding capability not configured")
	}
	return s.geocoder.Geocode(ctx, address)
}

// ListRuns retrieves past optimization runs newest-first
func (s *OptimizationService) ListRuns(limit, offset int) ([]*models.OptimizationRun, error) {
	return s.runs.List(limit, offset)
}

// GetRun retrieves one past run by ID
func (s *OptimizationService) GetRun(id int64) (*models.OptimizationRun, error) {
	return s.runs.GetByID(id)
}
