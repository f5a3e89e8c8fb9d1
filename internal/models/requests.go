package models

import (
	"errors"
	"fmt"
)

// Participant bounds accepted at the API boundary
const (
	MinParticipants = 2
	MaxParticipants = 12
)

// Buffer-time bounds for reachability requests, in minutes
const (
	MinBufferMinutes = 5
	MaxBufferMinutes = 60
)

// MaxResultCount caps how many ranked candidates one response may carry
const MaxResultCount = 10

// ErrInputValidation tags rejected request input; surfaced immediately,
// before any external call.
var ErrInputValidation = errors.New("invalid input")

// OptimizeRequest is the body of POST /api/v1/optimize
type OptimizeRequest struct {
	Locations   []Location          `json:"locations"`
	TravelMode  TravelMode          `json:"travel_mode"`
	Goal        OptimizationGoal    `json:"goal"`
	Config      *OptimizationConfig `json:"config,omitempty"`
	ResultCount int                 `json:"result_count,omitempty"`
}

// Validate checks participant bounds, coordinates, mode and goal.
// Errors wrap ErrInputValidation and name the offending field.
func (r *OptimizeRequest) Validate() error {
	if len(r.Locations) < MinParticipants || len(r.Locations) > MaxParticipants {
		return fmt.Errorf("%w: locations must contain between %d and %d participants, got %d",
			ErrInputValidation, MinParticipants, MaxParticipants, len(r.Locations))
	}
	for i, loc := range r.Locations {
		if !loc.Coordinate.Valid() {
			return fmt.Errorf("%w: locations[%d] (%s) has invalid coordinate (%g, %g)",
				ErrInputValidation, i, loc.ID, loc.Coordinate.Latitude, loc.Coordinate.Longitude)
		}
	}
	if !ValidTravelMode(r.TravelMode) {
		return fmt.Errorf("%w: travel_mode must be one of DRIVING_CAR, CYCLING_REGULAR, FOOT_WALKING, got %q",
			ErrInputValidation, r.TravelMode)
	}
	if r.Goal == "" {
		r.Goal = GoalMinimax
	}
	if !ValidGoal(r.Goal) {
		return fmt.Errorf("%w: goal must be one of MINIMAX, MEAN, MIN, got %q", ErrInputValidation, r.Goal)
	}
	if r.ResultCount < 0 || r.ResultCount > MaxResultCount {
		return fmt.Errorf("%w: result_count must be between 1 and %d, got %d", ErrInputValidation, MaxResultCount, r.ResultCount)
	}
	return nil
}

// HypothesesRequest is the body of POST /api/v1/hypotheses
type HypothesesRequest struct {
	Locations []Location          `json:"locations"`
	Config    *OptimizationConfig `json:"config,omitempty"`
}

// Validate checks participant bounds and coordinates
func (r *HypothesesRequest) Validate() error {
	if len(r.Locations) < MinParticipants || len(r.Locations) > MaxParticipants {
		return fmt.Errorf("%w: locations must contain between %d and %d participants, got %d",
			ErrInputValidation, MinParticipants, MaxParticipants, len(r.Locations))
	}
	for i, loc := range r.Locations {
		if !loc.Coordinate.Valid() {
			return fmt.Errorf("%w: locations[%d] (%s) has invalid coordinate (%g, %g)",
				ErrInputValidation, i, loc.ID, loc.Coordinate.Latitude, loc.Coordinate.Longitude)
		}
	}
	return nil
}

// RescoreRequest is the body of POST /api/v1/rescore. Candidates must carry
// their raw travel times from a previous optimize response; re-ranking is a
// pure re-fold and makes no external call.
type RescoreRequest struct {
	Candidates []ScoredCandidate `json:"candidates"`
	Goal       OptimizationGoal  `json:"goal"`
}

// GeocodeRequest is the body of POST /api/v1/geocode
type GeocodeRequest struct {
	Address string `json:"address"`
}

// Validate checks that the address is non-empty
func (r *GeocodeRequest) Validate() error {
	if r.Address == "" {
		return fmt.Errorf("%w: address must not be empty", ErrInputValidation)
	}
	return nil
}

// ReachabilityRequest is the body of POST /api/v1/reachability
type ReachabilityRequest struct {
	Center        Coordinate `json:"center"`
	BufferMinutes int        `json:"buffer_minutes"`
	TravelMode    TravelMode `json:"travel_mode"`
}

// Validate checks the center coordinate, buffer bounds and travel mode
func (r *ReachabilityRequest) Validate() error {
	if !r.Center.Valid() {
		return fmt.Errorf("%w: center has invalid coordinate (%g, %g)",
			ErrInputValidation, r.Center.Latitude, r.Center.Longitude)
	}
	if r.BufferMinutes < MinBufferMinutes || r.BufferMinutes > MaxBufferMinutes {
		return fmt.Errorf("%w: buffer_minutes must be between %d and %d, got %d",
			ErrInputValidation, MinBufferMinutes, MaxBufferMinutes, r.BufferMinutes)
	}
	if !ValidTravelMode(r.TravelMode) {
		return fmt.Errorf("%w: travel_mode must be one of DRIVING_CAR, CYCLING_REGULAR, FOOT_WALKING, got %q",
			ErrInputValidation, r.TravelMode)
	}
	return nil
}
