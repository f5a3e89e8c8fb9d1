package repository

import (
	"database/sql"
	"fmt"

	"github.com/meetfair/meetpoint-backend-go/internal/models"
)

// RunRepository handles database operations for optimization run audit rows
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create persists a completed optimization run
func (r *RunRepository) Create(run *models.OptimizationRun) error {
	query := `
		INSERT INTO optimization_runs (
			participant_count, travel_mode, goal, mode, point_id,
			latitude, longitude, max_travel_time, average_travel_time,
			optimal_phase, degraded, candidate_count, matrix_calls
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		run.ParticipantCount,
		run.TravelMode,
		run.Goal,
		run.Mode,
		run.PointID,
		run.Latitude,
		run.Longitude,
		run.MaxTravelTime,
		run.AverageTravelTime,
		run.OptimalPhase,
		run.Degraded,
		run.CandidateCount,
		run.MatrixCalls,
	)
	if err != nil {
		return fmt.Errorf("failed to create optimization run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	run.ID = id
	return nil
}

// GetByID retrieves one run by ID
func (r *RunRepository) GetByID(id int64) (*models.OptimizationRun, error) {
	query := selectColumns + " WHERE id = ?"

	run := &models.OptimizationRun{}
	err := r.db.QueryRow(query, id).Scan(
		&run.ID, &run.ParticipantCount, &run.TravelMode, &run.Goal, &run.Mode,
		&run.PointID, &run.Latitude, &run.Longitude, &run.MaxTravelTime,
		&run.AverageTravelTime, &run.OptimalPhase, &run.Degraded,
		&run.CandidateCount, &run.MatrixCalls, &run.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("optimization run %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get optimization run: %w", err)
	}
	return run, nil
}

// List retrieves runs newest-first with pagination
func (r *RunRepository) List(limit, offset int) ([]*models.OptimizationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := selectColumns + " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list optimization runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.OptimizationRun
	for rows.Next() {
		run := &models.OptimizationRun{}
		if err := rows.Scan(
			&run.ID, &run.ParticipantCount, &run.TravelMode, &run.Goal, &run.Mode,
			&run.PointID, &run.Latitude, &run.Longitude, &run.MaxTravelTime,
			&run.AverageTravelTime, &run.OptimalPhase, &run.Degraded,
			&run.CandidateCount, &run.MatrixCalls, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan optimization run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

const selectColumns = `
	SELECT id, participant_count, travel_mode, goal, mode, point_id,
		   latitude, longitude, max_travel_time, average_travel_time,
		   optimal_phase, degraded, candidate_count, matrix_calls, created_at
	FROM optimization_runs`
