package models

import "time"

// TravelTimeMetrics aggregates one candidate's sanitized travel times
// across all participants. Values are minutes; variance is minutes².
type TravelTimeMetrics struct {
	MaxTravelTime     float64 `json:"max_travel_time"`
	AverageTravelTime float64 `json:"average_travel_time"`
	TotalTravelTime   float64 `json:"total_travel_time"`
	Variance          float64 `json:"variance"`
}

// ScoredCandidate is a hypothesis point annotated with its score under one
// optimization goal. RawTravelTimes keeps the per-origin matrix column,
// with non-finite cells coerced to UnreachableSentinel so it stays
// serializable, letting the candidate be re-scored under a different goal
// without a new external call.
type ScoredCandidate struct {
	Point          HypothesisPoint   `json:"point"`
	Score          float64           `json:"score"`
	Metrics        TravelTimeMetrics `json:"metrics"`
	Rank           int               `json:"rank"`
	RawTravelTimes []float64         `json:"raw_travel_times"`
}

// ResultPhase records which pipeline phase produced the winning point
type ResultPhase string

const (
	ResultPhase0        ResultPhase = "PHASE_0"
	ResultPhase1        ResultPhase = "PHASE_1"
	ResultPhase2        ResultPhase = "PHASE_2"
	ResultPhaseFallback ResultPhase = "FALLBACK_CENTROID"
)

// OptimalResult is the audited record of the chosen meeting point
type OptimalResult struct {
	PointID           string      `json:"point_id"`
	Coordinate        Coordinate  `json:"coordinate"`
	MaxTravelTime     float64     `json:"max_travel_time"`
	AverageTravelTime float64     `json:"average_travel_time"`
	OptimalPhase      ResultPhase `json:"optimal_phase"`
}

// OptimizationRun is the persisted audit row for one completed run
type OptimizationRun struct {
	ID                int64            `json:"id" db:"id"`
	ParticipantCount  int              `json:"participant_count" db:"participant_count"`
	TravelMode        TravelMode       `json:"travel_mode" db:"travel_mode"`
	Goal              OptimizationGoal `json:"goal" db:"goal"`
	Mode              OptimizationMode `json:"mode" db:"mode"`
	PointID           string           `json:"point_id" db:"point_id"`
	Latitude          float64          `json:"latitude" db:"latitude"`
	Longitude         float64          `json:"longitude" db:"longitude"`
	MaxTravelTime     float64          `json:"max_travel_time" db:"max_travel_time"`
	AverageTravelTime float64          `json:"average_travel_time" db:"average_travel_time"`
	OptimalPhase      ResultPhase      `json:"optimal_phase" db:"optimal_phase"`
	Degraded          bool             `json:"degraded" db:"degraded"`
	CandidateCount    int              `json:"candidate_count" db:"candidate_count"`
	MatrixCalls       int              `json:"matrix_calls" db:"matrix_calls"`
	CreatedAt         time.Time        `json:"created_at" db:"created_at"`
}
