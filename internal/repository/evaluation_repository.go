package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"primaries-backend/internal/models"
)

var ErrMarkNotFound = errors.New("mark option not found")

// MarkRepository handles the trust-mark catalog
type MarkRepository struct {
	db *sql.DB
}

// NewMarkRepository creates a new mark repository
func NewMarkRepository(db *sql.DB) *MarkRepository {
	return &MarkRepository{db: db}
}

// GetAll returns the full mark catalog ordered by score
func (r *MarkRepository) GetAll() ([]models.MarkOption, error) {
	rows, err := r.db.Query(`SELECT id, content, mark FROM mark_options ORDER BY mark`)
	if err != nil {
		return nil, fmt.Errorf("failed to get mark options: %w", err)
	}
	defer rows.Close()

	var options []models.MarkOption
	for rows.Next() {
		var o models.MarkOption
		if err := rows.Scan(&o.ID, &o.Content, &o.Mark); err != nil {
			return nil, fmt.Errorf("failed to scan mark option: %w", err)
		}
		options = append(options, o)
	}

	return options, nil
}

// GetByID retrieves a single mark option
func (r *MarkRepository) GetByID(id uint) (*models.MarkOption, error) {
	o := &models.MarkOption{}
	err := r.db.QueryRow(`SELECT id, content, mark FROM mark_options WHERE id = $1`, id).
		Scan(&o.ID, &o.Content, &o.Mark)
	if err == sql.ErrNoRows {
		return nil, ErrMarkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mark option: %w", err)
	}
	return o, nil
}

// Create inserts a new mark option
func (r *MarkRepository) Create(option *models.MarkOption) error {
	err := r.db.QueryRow(`
		INSERT INTO mark_options (content, mark) VALUES ($1, $2) RETURNING id
	`, option.Content, option.Mark).Scan(&option.ID)
	if err != nil {
		return fmt.Errorf("failed to create mark option: %w", err)
	}
	return nil
}

// EvaluationRepository handles trust-mark assignments
type EvaluationRepository struct {
	db *sql.DB
}

// NewEvaluationRepository creates a new evaluation repository
func NewEvaluationRepository(db *sql.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// Upsert records a voter's mark for a candidate. Re-submission for the same
// (voter, candidate) pair overwrites the previous mark.
func (r *EvaluationRepository) Upsert(eval *models.Evaluation) error {
	now := time.Now()
	err := r.db.QueryRow(`
		INSERT INTO evaluations (voter_id, candidate_id, mark_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (voter_id, candidate_id)
		DO UPDATE SET mark_id = EXCLUDED.mark_id, updated_at = EXCLUDED.updated_at
		RETURNING id
	`, eval.VoterID, eval.CandidateID, eval.MarkID, now).Scan(&eval.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert evaluation: %w", err)
	}
	return nil
}

// GetByVoter returns all marks the voter has assigned
func (r *EvaluationRepository) GetByVoter(voterID uint) ([]models.Evaluation, error) {
	rows, err := r.db.Query(`
		SELECT id, voter_id, candidate_id, mark_id, created_at, updated_at
		FROM evaluations
		WHERE voter_id = $1
		ORDER BY candidate_id
	`, voterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluations: %w", err)
	}
	defer rows.Close()

	var evals []models.Evaluation
	for rows.Next() {
		var e models.Evaluation
		if err := rows.Scan(&e.ID, &e.VoterID, &e.CandidateID, &e.MarkID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation: %w", err)
		}
		evals = append(evals, e)
	}

	return evals, nil
}

// SumForCandidate returns one candidate's trust-score total
func (r *EvaluationRepository) SumForCandidate(candidateID uint) (int, error) {
	var score int
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(m.mark), 0)
		FROM evaluations e
		INNER JOIN mark_options m ON m.id = e.mark_id
		WHERE e.candidate_id = $1
	`, candidateID).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("failed to sum candidate score: %w", err)
	}
	return score, nil
}

// SumScores returns the trust-score total per candidate, ordered by
// candidate ID.
func (r *EvaluationRepository) SumScores() ([]models.CandidateScore, error) {
	rows, err := r.db.Query(`
		SELECT e.candidate_id, SUM(m.mark)
		FROM evaluations e
		INNER JOIN mark_options m ON m.id = e.mark_id
		GROUP BY e.candidate_id
		ORDER BY e.candidate_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to sum evaluation scores: %w", err)
	}
	defer rows.Close()

	var scores []models.CandidateScore
	for rows.Next() {
		var s models.CandidateScore
		if err := rows.Scan(&s.CandidateID, &s.Points); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation score: %w", err)
		}
		scores = append(scores, s)
	}

	return scores, nil
}
