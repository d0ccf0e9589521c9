package service

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"primaries-backend/internal/models"
	"primaries-backend/internal/repository"
)

var (
	ErrVotingClosed       = errors.New("voting is not open in the current stage")
	ErrEmptyBallot        = errors.New("ballot contains no votes")
	ErrWrongBallotSize    = errors.New("ballot has the wrong number of votes")
	ErrDuplicateCandidate = errors.New("ballot contains a duplicate candidate")
	ErrInvalidCandidate   = errors.New("ballot references an unknown candidate")
	ErrAlreadyVoted       = errors.New("voter has already voted in this stage")
	ErrGenderQuota        = errors.New("ballot does not satisfy the gender quota")
	ErrPositionOutOfRange = errors.New("ballot position exceeds the candidate count")
	ErrResultsUnavailable = errors.New("results are not available in the current stage")
	ErrNotPaid            = errors.New("voter has not paid the participation fee")
)

// Ballot size rules. Final-stage ballots rank exactly the council size;
// earlier ballots must rank at least minBallotSize candidates.
const (
	minBallotSize   = 10
	finalBallotSize = 7
)

// Minimum share of each gender on a ranked ballot, in percent.
const genderQuotaPercent = 27

// VotingService handles ranked-choice ballot submission and result
// aggregation.
type VotingService struct {
	db            *sql.DB
	stageRepo     *repository.StageRepository
	voterRepo     *repository.VoterRepository
	candidateRepo *repository.CandidateRepository
	voteRepo      *repository.VoteRepository
}

// NewVotingService creates a new voting service
func NewVotingService(
	db *sql.DB,
	stageRepo *repository.StageRepository,
	voterRepo *repository.VoterRepository,
	candidateRepo *repository.CandidateRepository,
	voteRepo *repository.VoteRepository,
) *VotingService {
	return &VotingService{
		db:            db,
		stageRepo:     stageRepo,
		voterRepo:     voterRepo,
		candidateRepo: candidateRepo,
		voteRepo:      voteRepo,
	}
}

// ValidateBallotSize checks the ballot length rule for a stage
func ValidateBallotSize(stage models.Stage, size int) error {
	if size == 0 {
		return ErrEmptyBallot
	}
	if stage == models.StageFinalVoting {
		if size != finalBallotSize {
			return ErrWrongBallotSize
		}
		return nil
	}
	if size < minBallotSize {
		return ErrWrongBallotSize
	}
	return nil
}

// FindDuplicate returns the first candidate ID appearing more than once,
// or 0 when all entries are distinct.
func FindDuplicate(candidateIDs []uint) uint {
	seen := make(map[uint]struct{}, len(candidateIDs))
	for _, id := range candidateIDs {
		if _, ok := seen[id]; ok {
			return id
		}
		seen[id] = struct{}{}
	}
	return 0
}

// GenderQuotaSatisfied checks that each gender holds at least
// genderQuotaPercent of the ballot.
func GenderQuotaSatisfied(genders []string) bool {
	if len(genders) == 0 {
		return false
	}
	var male, female int
	for _, g := range genders {
		switch g {
		case models.GenderMale:
			male++
		case models.GenderFemale:
			female++
		}
	}
	total := len(genders)
	return male*100/total >= genderQuotaPercent && female*100/total >= genderQuotaPercent
}

// BallotPoints computes the points a candidate earns at a 1-based ballot
// position, scaled by the voter's purchased weight.
func BallotPoints(weight, position int) float64 {
	return float64(weight) / float64(position)
}

// SubmitBallot validates and records a voter's ranked ballot. candidateIDs
// is ordered by preference, most preferred first. Either the whole ballot is
// recorded or nothing is.
func (s *VotingService) SubmitBallot(voterID uint, candidateIDs []uint) error {
	stage, err := s.stageRepo.Get()
	if err != nil {
		return err
	}
	if stage != models.StagePrimaryVoting && stage != models.StageFinalVoting {
		return ErrVotingClosed
	}

	if err := ValidateBallotSize(stage, len(candidateIDs)); err != nil {
		return err
	}

	// Positions are bounded by every candidate profile in the system, not
	// just the approved ones.
	totalCandidates, err := s.candidateRepo.Count()
	if err != nil {
		return err
	}
	if len(candidateIDs) > totalCandidates {
		return ErrPositionOutOfRange
	}

	// The extended checks only apply to the non-final stage; the final
	// ballot is restricted to the shortlist the previous round produced.
	if stage != models.StageFinalVoting {
		if dup := FindDuplicate(candidateIDs); dup != 0 {
			return ErrDuplicateCandidate
		}

		candidates, err := s.candidateRepo.GetByIDs(candidateIDs)
		if err != nil {
			return err
		}
		if len(candidates) != len(candidateIDs) {
			return ErrInvalidCandidate
		}

		genders := make([]string, len(candidates))
		for i, c := range candidates {
			genders[i] = c.Gender
		}
		if !GenderQuotaSatisfied(genders) {
			return ErrGenderQuota
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin ballot transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("Failed to rollback ballot transaction", "error", err)
		}
	}()

	// The voter row stays locked until the ballot commits, so concurrent
	// submissions serialize and the loser sees the winner's votes.
	voter, err := s.voterRepo.GetByIDForUpdate(tx, voterID)
	if err != nil {
		return err
	}
	if !voter.IsPaid {
		return ErrNotPaid
	}

	if stage != models.StageFinalVoting {
		voted, err := s.voteRepo.ExistsForStage(tx, voterID, stage)
		if err != nil {
			return err
		}
		if voted || voter.AlreadyVoted {
			return ErrAlreadyVoted
		}
	}

	weight := voter.Weight()
	votes := make([]models.Vote, len(candidateIDs))
	for i, candidateID := range candidateIDs {
		position := i + 1
		votes[i] = models.Vote{
			VoterID:     voterID,
			CandidateID: candidateID,
			Position:    position,
			Points:      BallotPoints(weight, position),
			Stage:       stage,
		}
	}

	if err := s.voteRepo.InsertBallot(tx, votes); err != nil {
		return err
	}
	if err := s.voterRepo.MarkVoted(tx, voterID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ballot transaction: %w", err)
	}

	slog.Info("Ballot recorded", "voter_id", voterID, "stage", models.StageName(stage), "size", len(votes))

	return nil
}

// Results returns the aggregated point sums for the round whose results are
// currently public. Primary-round sums open up during the final discussion
// stage; final-round sums open up once the election is over.
func (s *VotingService) Results() ([]models.CandidatePoints, error) {
	stage, err := s.stageRepo.Get()
	if err != nil {
		return nil, err
	}

	switch stage {
	case models.StageFinalDiscussion:
		return s.voteRepo.SumByStage(models.StagePrimaryVoting)
	case models.StageInactive:
		return s.voteRepo.SumByStage(models.StageFinalVoting)
	default:
		return nil, ErrResultsUnavailable
	}
}
