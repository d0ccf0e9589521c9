package service

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"primaries-backend/internal/models"
	"primaries-backend/internal/repository"
)

var ErrInvalidStage = errors.New("invalid election stage")

// StageService manages the global election stage. The stage is a singleton
// value that gates every voting, evaluation and payment operation.
type StageService struct {
	db        *sql.DB
	stageRepo *repository.StageRepository
	voterRepo *repository.VoterRepository
}

// NewStageService creates a new stage service
func NewStageService(db *sql.DB, stageRepo *repository.StageRepository, voterRepo *repository.VoterRepository) *StageService {
	return &StageService{
		db:        db,
		stageRepo: stageRepo,
		voterRepo: voterRepo,
	}
}

// Current returns the current election stage
func (s *StageService) Current() (models.Stage, error) {
	return s.stageRepo.Get()
}

// Set transitions the election to a new stage. Moving into a registration
// or discussion stage wipes stage-scoped voter state in bulk: payment
// status, purchased ballot weight and already-voted flags. Setting the same
// stage again is a no-op and leaves voter state untouched.
func (s *StageService) Set(stage models.Stage) error {
	if !models.ValidStage(stage) {
		return ErrInvalidStage
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin stage transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("Failed to rollback stage transaction", "error", err)
		}
	}()

	current, err := s.stageRepo.GetForUpdate(tx)
	if err != nil {
		return err
	}

	if current == stage {
		return tx.Commit()
	}

	if err := s.stageRepo.Set(tx, stage); err != nil {
		return err
	}

	if models.StageResetsEligibility(stage) {
		if err := s.voterRepo.ResetEligibility(tx); err != nil {
			return err
		}
		slog.Info("Voter eligibility reset on stage transition",
			"from", models.StageName(current),
			"to", models.StageName(stage),
		)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit stage transaction: %w", err)
	}

	slog.Info("Election stage changed",
		"from", models.StageName(current),
		"to", models.StageName(stage),
	)

	return nil
}
