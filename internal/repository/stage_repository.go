package repository

import (
	"database/sql"
	"fmt"
	"time"

	"primaries-backend/internal/models"
)

// StageRepository handles the singleton election configuration row. The row
// is created lazily on first read; its primary key is fixed at 1.
type StageRepository struct {
	db *sql.DB
}

// NewStageRepository creates a new stage repository
func NewStageRepository(db *sql.DB) *StageRepository {
	return &StageRepository{db: db}
}

// Get returns the current election stage, creating the config row if it
// does not exist yet. A NULL stage maps to models.StageInactive.
func (r *StageRepository) Get() (models.Stage, error) {
	var stage sql.NullString
	err := r.db.QueryRow(`SELECT stage FROM election_config WHERE id = 1`).Scan(&stage)
	if err == sql.ErrNoRows {
		if _, err := r.db.Exec(`
			INSERT INTO election_config (id, stage) VALUES (1, NULL)
			ON CONFLICT (id) DO NOTHING
		`); err != nil {
			return models.StageInactive, fmt.Errorf("failed to initialize election config: %w", err)
		}
		return models.StageInactive, nil
	}
	if err != nil {
		return models.StageInactive, fmt.Errorf("failed to get election stage: %w", err)
	}

	if !stage.Valid {
		return models.StageInactive, nil
	}
	return stage.String, nil
}

// GetForUpdate reads the current stage inside tx with a row lock, creating
// the config row first if necessary.
func (r *StageRepository) GetForUpdate(tx *sql.Tx) (models.Stage, error) {
	if _, err := tx.Exec(`
		INSERT INTO election_config (id, stage) VALUES (1, NULL)
		ON CONFLICT (id) DO NOTHING
	`); err != nil {
		return models.StageInactive, fmt.Errorf("failed to initialize election config: %w", err)
	}

	var stage sql.NullString
	err := tx.QueryRow(`SELECT stage FROM election_config WHERE id = 1 FOR UPDATE`).Scan(&stage)
	if err != nil {
		return models.StageInactive, fmt.Errorf("failed to lock election config: %w", err)
	}

	if !stage.Valid {
		return models.StageInactive, nil
	}
	return stage.String, nil
}

// Set stores the stage inside tx. models.StageInactive is persisted as NULL.
func (r *StageRepository) Set(tx *sql.Tx, stage models.Stage) error {
	var value interface{}
	if stage != models.StageInactive {
		value = stage
	}

	_, err := tx.Exec(`
		UPDATE election_config SET stage = $1, updated_at = $2 WHERE id = 1
	`, value, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set election stage: %w", err)
	}

	return nil
}
