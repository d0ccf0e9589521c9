package service

import (
	"errors"

	"primaries-backend/internal/models"
	"primaries-backend/internal/repository"
)

var (
	ErrEvaluationClosed      = errors.New("evaluation is closed")
	ErrNotEligibleForMarks   = errors.New("profile is not an approved candidate")
	ErrEvaluationResultsGate = errors.New("evaluation results are not available in the current stage")
)

// EvaluationService handles trust-mark assignment and aggregation. A voter
// assigns one mark from the fixed catalog to each candidate; re-submission
// replaces the previous mark.
type EvaluationService struct {
	stageRepo     *repository.StageRepository
	voterRepo     *repository.VoterRepository
	candidateRepo *repository.CandidateRepository
	markRepo      *repository.MarkRepository
	evalRepo      *repository.EvaluationRepository
}

// NewEvaluationService creates a new evaluation service
func NewEvaluationService(
	stageRepo *repository.StageRepository,
	voterRepo *repository.VoterRepository,
	candidateRepo *repository.CandidateRepository,
	markRepo *repository.MarkRepository,
	evalRepo *repository.EvaluationRepository,
) *EvaluationService {
	return &EvaluationService{
		stageRepo:     stageRepo,
		voterRepo:     voterRepo,
		candidateRepo: candidateRepo,
		markRepo:      markRepo,
		evalRepo:      evalRepo,
	}
}

// Marks returns the trust-mark catalog
func (s *EvaluationService) Marks() ([]models.MarkOption, error) {
	return s.markRepo.GetAll()
}

// Submit records a voter's mark for a candidate. The target must be an
// approved, email-verified candidate, and the election must be active.
func (s *EvaluationService) Submit(voterID, candidateID, markID uint) (*models.Evaluation, error) {
	stage, err := s.stageRepo.Get()
	if err != nil {
		return nil, err
	}
	if stage == models.StageInactive {
		return nil, ErrEvaluationClosed
	}

	if _, err := s.voterRepo.GetByID(voterID); err != nil {
		return nil, err
	}

	candidate, err := s.candidateRepo.GetByID(candidateID)
	if err != nil {
		return nil, err
	}
	if !candidate.IsApproved || !candidate.IsEmailVerified {
		return nil, ErrNotEligibleForMarks
	}

	if _, err := s.markRepo.GetByID(markID); err != nil {
		return nil, err
	}

	eval := &models.Evaluation{
		VoterID:     voterID,
		CandidateID: candidateID,
		MarkID:      markID,
	}
	if err := s.evalRepo.Upsert(eval); err != nil {
		return nil, err
	}

	return eval, nil
}

// OwnMarks returns the marks the voter has assigned so far
func (s *EvaluationService) OwnMarks(voterID uint) ([]models.Evaluation, error) {
	return s.evalRepo.GetByVoter(voterID)
}

// Results returns the aggregated trust scores. They are only public during
// the primary discussion stage.
func (s *EvaluationService) Results() ([]models.CandidateScore, error) {
	stage, err := s.stageRepo.Get()
	if err != nil {
		return nil, err
	}
	if stage != models.StagePrimaryDiscussion {
		return nil, ErrEvaluationResultsGate
	}

	return s.evalRepo.SumScores()
}
