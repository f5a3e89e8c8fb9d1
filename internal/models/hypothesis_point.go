package models

// PointType classifies how a hypothesis point was generated
type PointType string

const (
	PointTypeGeographicCentroid  PointType = "GEOGRAPHIC_CENTROID"
	PointTypeMedianCoordinate    PointType = "MEDIAN_COORDINATE"
	PointTypeParticipantLocation PointType = "PARTICIPANT_LOCATION"
	PointTypePairwiseMidpoint    PointType = "PAIRWISE_MIDPOINT"
	PointTypeCoarseGridCell      PointType = "COARSE_GRID_CELL"
	PointTypeLocalRefinementCell PointType = "LOCAL_REFINEMENT_CELL"
)

// GenerationPhase identifies the pipeline phase that produced a point
type GenerationPhase string

const (
	PhaseAnchor          GenerationPhase = "ANCHOR"
	PhaseCoarseGrid      GenerationPhase = "COARSE_GRID"
	PhaseLocalRefinement GenerationPhase = "LOCAL_REFINEMENT"
	PhaseFinalOutput     GenerationPhase = "FINAL_OUTPUT"
)

// PointMetadata links a hypothesis point back to the participant(s)
// it was derived from. Nil for grid cells and derived centers.
type PointMetadata struct {
	ParticipantID string `json:"participant_id,omitempty"`
	PairFirstID   string `json:"pair_first_id,omitempty"`
	PairSecondID  string `json:"pair_second_id,omitempty"`
}

// HypothesisPoint is a candidate meeting point. Points are created once and
// never mutated; scoring annotates copies, not the originals.
type HypothesisPoint struct {
	ID         string          `json:"id"`
	Coordinate Coordinate      `json:"coordinate"`
	Type       PointType       `json:"type"`
	Phase      GenerationPhase `json:"phase"`
	Metadata   *PointMetadata  `json:"metadata,omitempty"`
}
