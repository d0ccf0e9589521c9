package repository

import (
	"database/sql"
	"fmt"

	"primaries-backend/internal/models"
)

// VoteRepository handles ballot persistence and result aggregation
type VoteRepository struct {
	db *sql.DB
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *sql.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// ExistsForStage reports whether the voter already has votes recorded for
// the given stage. Runs inside the caller's ballot transaction so the check
// holds until the ballot commits.
func (r *VoteRepository) ExistsForStage(tx *sql.Tx, voterID uint, stage models.Stage) (bool, error) {
	var exists bool
	err := tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM votes WHERE voter_id = $1 AND stage = $2)
	`, voterID, stage).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existing votes: %w", err)
	}
	return exists, nil
}

// InsertBallot inserts all rows of a ballot inside the caller's transaction.
// Either every row lands or the transaction rolls back.
func (r *VoteRepository) InsertBallot(tx *sql.Tx, votes []models.Vote) error {
	stmt, err := tx.Prepare(`
		INSERT INTO votes (voter_id, candidate_id, position, points, stage)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare vote insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range votes {
		if _, err := stmt.Exec(v.VoterID, v.CandidateID, v.Position, v.Points, v.Stage); err != nil {
			return fmt.Errorf("failed to insert vote: %w", err)
		}
	}

	return nil
}

// SumForCandidate returns one candidate's total points for a stage
func (r *VoteRepository) SumForCandidate(candidateID uint, stage models.Stage) (float64, error) {
	var points float64
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(points), 0)
		FROM votes
		WHERE candidate_id = $1 AND stage = $2
	`, candidateID, stage).Scan(&points)
	if err != nil {
		return 0, fmt.Errorf("failed to sum candidate points: %w", err)
	}
	return points, nil
}

// SumByStage returns the total points per candidate for one stage, ordered
// by candidate ID.
func (r *VoteRepository) SumByStage(stage models.Stage) ([]models.CandidatePoints, error) {
	rows, err := r.db.Query(`
		SELECT candidate_id, SUM(points)
		FROM votes
		WHERE stage = $1
		GROUP BY candidate_id
		ORDER BY candidate_id
	`, stage)
	if err != nil {
		return nil, fmt.Errorf("failed to sum votes: %w", err)
	}
	defer rows.Close()

	var results []models.CandidatePoints
	for rows.Next() {
		var cp models.CandidatePoints
		if err := rows.Scan(&cp.CandidateID, &cp.Points); err != nil {
			return nil, fmt.Errorf("failed to scan vote sum: %w", err)
		}
		results = append(results, cp)
	}

	return results, nil
}
