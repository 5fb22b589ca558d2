package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/statify/internal/models"
	"github.com/desertthunder/statify/internal/shared"
)

// RunRepository handles analysis run history rows.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// NextSequence atomically increments and returns the next sequence number
// for the runs table. Sequence numbers provide human-readable ordering.
func (r *RunRepository) NextSequence() (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE runs_sequence SET value = value + 1 WHERE id = 1"); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	if err := tx.QueryRow("SELECT value FROM runs_sequence WHERE id = 1").Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}

// Create inserts a new run with a generated ID and sequence. The run's ID,
// Sequence, and CreatedAt fields are filled in on success.
func (r *RunRepository) Create(run *models.AnalysisRun) error {
	sequence, err := r.NextSequence()
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	run.ID = shared.GenerateID()
	run.Sequence = sequence
	run.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO runs (id, sequence, playlist_id, playlist_name, owner, track_count, skipped_count, mean_popularity, export_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.ID,
		run.Sequence,
		run.PlaylistID,
		run.PlaylistName,
		run.Owner,
		run.TrackCount,
		run.SkippedCount,
		run.MeanPopularity,
		run.ExportPath,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// List returns the most recent runs, newest first, up to limit rows.
// A limit <= 0 returns everything.
func (r *RunRepository) List(limit int) ([]models.AnalysisRun, error) {
	query := `
		SELECT id, sequence, playlist_id, playlist_name, owner, track_count, skipped_count, mean_popularity, export_path, created_at
		FROM runs
		ORDER BY sequence DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.AnalysisRun
	for rows.Next() {
		var run models.AnalysisRun
		if err := rows.Scan(
			&run.ID,
			&run.Sequence,
			&run.PlaylistID,
			&run.PlaylistName,
			&run.Owner,
			&run.TrackCount,
			&run.SkippedCount,
			&run.MeanPopularity,
			&run.ExportPath,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// ForPlaylist returns past runs for one playlist, newest first.
func (r *RunRepository) ForPlaylist(playlistID string) ([]models.AnalysisRun, error) {
	rows, err := r.db.Query(`
		SELECT id, sequence, playlist_id, playlist_name, owner, track_count, skipped_count, mean_popularity, export_path, created_at
		FROM runs
		WHERE playlist_id = ?
		ORDER BY sequence DESC
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.AnalysisRun
	for rows.Next() {
		var run models.AnalysisRun
		if err := rows.Scan(
			&run.ID,
			&run.Sequence,
			&run.PlaylistID,
			&run.PlaylistName,
			&run.Owner,
			&run.TrackCount,
			&run.SkippedCount,
			&run.MeanPopularity,
			&run.ExportPath,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
