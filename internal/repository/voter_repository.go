package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"primaries-backend/internal/models"
)

var (
	ErrVoterNotFound = errors.New("voter profile not found")
	ErrVoterExists   = errors.New("voter profile already exists")
)

// VoterRepository handles voter profile database operations
type VoterRepository struct {
	db *sql.DB
}

// NewVoterRepository creates a new voter repository
func NewVoterRepository(db *sql.DB) *VoterRepository {
	return &VoterRepository{db: db}
}

const voterColumns = `id, user_id, first_name, last_name, phone_number, birth_date, address, soc_url,
	       is_email_verified, is_paid, votes_count, already_voted, created_at, updated_at`

func scanVoter(row interface{ Scan(...interface{}) error }) (*models.VoterProfile, error) {
	p := &models.VoterProfile{}
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.FirstName,
		&p.LastName,
		&p.PhoneNumber,
		&p.BirthDate,
		&p.Address,
		&p.SocialURL,
		&p.IsEmailVerified,
		&p.IsPaid,
		&p.VotesCount,
		&p.AlreadyVoted,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create creates a new voter profile
func (r *VoterRepository) Create(profile *models.VoterProfile) error {
	query := `
		INSERT INTO voter_profiles (user_id, first_name, last_name, phone_number, birth_date, address, soc_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRow(
		query,
		profile.UserID,
		profile.FirstName,
		profile.LastName,
		profile.PhoneNumber,
		profile.BirthDate,
		profile.Address,
		profile.SocialURL,
		now,
		now,
	).Scan(&profile.ID)

	if err != nil {
		return fmt.Errorf("failed to create voter profile: %w", err)
	}

	profile.CreatedAt = now
	profile.UpdatedAt = now
	return nil
}

// GetByID retrieves a voter profile by ID
func (r *VoterRepository) GetByID(id uint) (*models.VoterProfile, error) {
	query := `SELECT ` + voterColumns + ` FROM voter_profiles WHERE id = $1`

	profile, err := scanVoter(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrVoterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get voter profile: %w", err)
	}

	return profile, nil
}

// GetByUserID retrieves a voter profile by the owning user ID
func (r *VoterRepository) GetByUserID(userID uint) (*models.VoterProfile, error) {
	query := `SELECT ` + voterColumns + ` FROM voter_profiles WHERE user_id = $1`

	profile, err := scanVoter(r.db.QueryRow(query, userID))
	if err == sql.ErrNoRows {
		return nil, ErrVoterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get voter profile by user: %w", err)
	}

	return profile, nil
}

// GetByIDForUpdate retrieves a voter profile by ID and locks the row for the
// rest of the caller's transaction.
func (r *VoterRepository) GetByIDForUpdate(tx *sql.Tx, id uint) (*models.VoterProfile, error) {
	query := `SELECT ` + voterColumns + ` FROM voter_profiles WHERE id = $1 FOR UPDATE`

	profile, err := scanVoter(tx.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrVoterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get voter profile: %w", err)
	}

	return profile, nil
}

// Update updates the editable fields of a voter profile
func (r *VoterRepository) Update(profile *models.VoterProfile) error {
	query := `
		UPDATE voter_profiles
		SET first_name = $1, last_name = $2, phone_number = $3, birth_date = $4,
		    address = $5, soc_url = $6, updated_at = $7
		WHERE id = $8
	`

	profile.UpdatedAt = time.Now()
	_, err := r.db.Exec(
		query,
		profile.FirstName,
		profile.LastName,
		profile.PhoneNumber,
		profile.BirthDate,
		profile.Address,
		profile.SocialURL,
		profile.UpdatedAt,
		profile.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update voter profile: %w", err)
	}

	return nil
}

// SetEmailVerified marks the voter profile's email as verified
func (r *VoterRepository) SetEmailVerified(id uint) error {
	query := `
		UPDATE voter_profiles
		SET is_email_verified = true, updated_at = $1
		WHERE id = $2
	`

	_, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to verify voter email: %w", err)
	}

	return nil
}

// SetPaid records a confirmed payment and the purchased ballot weight.
func (r *VoterRepository) SetPaid(id uint, votesCount int) error {
	query := `
		UPDATE voter_profiles
		SET is_paid = true, votes_count = $1, updated_at = $2
		WHERE id = $3
	`

	_, err := r.db.Exec(query, votesCount, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark voter as paid: %w", err)
	}

	return nil
}

// MarkVoted flags the voter as having voted in the current stage. Runs inside
// the caller's ballot transaction.
func (r *VoterRepository) MarkVoted(tx *sql.Tx, id uint) error {
	query := `
		UPDATE voter_profiles
		SET already_voted = true, updated_at = $1
		WHERE id = $2
	`

	_, err := tx.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark voter as voted: %w", err)
	}

	return nil
}

// ResetEligibility wipes stage-scoped voter state in bulk. Every voter loses
// is_paid, votes_count and already_voted, and every user loses the derived
// is_voter flag. Runs inside the caller's stage transaction.
func (r *VoterRepository) ResetEligibility(tx *sql.Tx) error {
	now := time.Now()

	if _, err := tx.Exec(`
		UPDATE voter_profiles
		SET is_paid = false, votes_count = NULL, already_voted = false, updated_at = $1
	`, now); err != nil {
		return fmt.Errorf("failed to reset voter profiles: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE users
		SET is_voter = false, updated_at = $1
		WHERE is_voter = true
	`, now); err != nil {
		return fmt.Errorf("failed to reset voter flags: %w", err)
	}

	return nil
}

// Delete deletes a voter profile
func (r *VoterRepository) Delete(id uint) error {
	query := `DELETE FROM voter_profiles WHERE id = $1`
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete voter profile: %w", err)
	}
	return nil
}
