package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"primaries-backend/internal/models"
)

var (
	ErrCandidateNotFound = errors.New("candidate profile not found")
	ErrCandidateExists   = errors.New("candidate profile already exists")
)

// CandidateRepository handles candidate profile database operations
type CandidateRepository struct {
	db *sql.DB
}

// NewCandidateRepository creates a new candidate repository
func NewCandidateRepository(db *sql.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

const candidateColumns = `id, user_id, first_name, last_name, birth_date, picture, gender, phone_number,
	       region, address, facebook_url, youtube_url, additional_url, party, education,
	       work_experience, political_experience, marital_status, political_opinion, city_program,
	       is_email_verified, is_approved, created_at, updated_at`

func scanCandidate(row interface{ Scan(...interface{}) error }) (*models.CandidateProfile, error) {
	p := &models.CandidateProfile{}
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.FirstName,
		&p.LastName,
		&p.BirthDate,
		&p.Picture,
		&p.Gender,
		&p.PhoneNumber,
		&p.Region,
		&p.Address,
		&p.FacebookURL,
		&p.YoutubeURL,
		&p.AdditionalURL,
		&p.Party,
		&p.Education,
		&p.WorkExperience,
		&p.PoliticalExperience,
		&p.MaritalStatus,
		&p.PoliticalOpinion,
		&p.CityProgram,
		&p.IsEmailVerified,
		&p.IsApproved,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create creates a new candidate profile
func (r *CandidateRepository) Create(profile *models.CandidateProfile) error {
	query := `
		INSERT INTO candidate_profiles (user_id, first_name, last_name, birth_date, picture, gender,
			phone_number, region, address, facebook_url, youtube_url, additional_url, party,
			education, work_experience, political_experience, marital_status, political_opinion,
			city_program, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRow(
		query,
		profile.UserID,
		profile.FirstName,
		profile.LastName,
		profile.BirthDate,
		profile.Picture,
		profile.Gender,
		profile.PhoneNumber,
		profile.Region,
		profile.Address,
		profile.FacebookURL,
		profile.YoutubeURL,
		profile.AdditionalURL,
		profile.Party,
		profile.Education,
		profile.WorkExperience,
		profile.PoliticalExperience,
		profile.MaritalStatus,
		profile.PoliticalOpinion,
		profile.CityProgram,
		now,
		now,
	).Scan(&profile.ID)

	if err != nil {
		return fmt.Errorf("failed to create candidate profile: %w", err)
	}

	profile.CreatedAt = now
	profile.UpdatedAt = now
	return nil
}

// GetByID retrieves a candidate profile by ID
func (r *CandidateRepository) GetByID(id uint) (*models.CandidateProfile, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidate_profiles WHERE id = $1`

	profile, err := scanCandidate(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate profile: %w", err)
	}

	return profile, nil
}

// GetByUserID retrieves a candidate profile by the owning user ID
func (r *CandidateRepository) GetByUserID(userID uint) (*models.CandidateProfile, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidate_profiles WHERE user_id = $1`

	profile, err := scanCandidate(r.db.QueryRow(query, userID))
	if err == sql.ErrNoRows {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate profile by user: %w", err)
	}

	return profile, nil
}

// GetApproved retrieves all approved, email-verified candidate profiles
func (r *CandidateRepository) GetApproved() ([]models.CandidateProfile, error) {
	query := `SELECT ` + candidateColumns + `
		FROM candidate_profiles
		WHERE is_approved = true AND is_email_verified = true
		ORDER BY last_name, first_name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get approved candidates: %w", err)
	}
	defer rows.Close()

	var profiles []models.CandidateProfile
	for rows.Next() {
		p, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		profiles = append(profiles, *p)
	}

	return profiles, nil
}

// GetByIDs retrieves the candidate profiles with the given IDs. Missing IDs
// are simply absent from the result.
func (r *CandidateRepository) GetByIDs(ids []uint) ([]models.CandidateProfile, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidate_profiles WHERE id = ANY($1)`

	int64IDs := make([]int64, len(ids))
	for i, id := range ids {
		int64IDs[i] = int64(id)
	}

	rows, err := r.db.Query(query, pq.Array(int64IDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get candidates by IDs: %w", err)
	}
	defer rows.Close()

	var profiles []models.CandidateProfile
	for rows.Next() {
		p, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		profiles = append(profiles, *p)
	}

	return profiles, nil
}

// Count returns the number of candidate profiles in the system
func (r *CandidateRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM candidate_profiles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count candidates: %w", err)
	}
	return count, nil
}

// GetParties returns the distinct party names of approved candidates
func (r *CandidateRepository) GetParties() ([]string, error) {
	rows, err := r.db.Query(`
		SELECT DISTINCT party FROM candidate_profiles
		WHERE is_approved = true AND is_email_verified = true
		ORDER BY party
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get parties: %w", err)
	}
	defer rows.Close()

	var parties []string
	for rows.Next() {
		var party string
		if err := rows.Scan(&party); err != nil {
			return nil, fmt.Errorf("failed to scan party: %w", err)
		}
		parties = append(parties, party)
	}

	return parties, nil
}

// Update updates the editable fields of a candidate profile
func (r *CandidateRepository) Update(profile *models.CandidateProfile) error {
	query := `
		UPDATE candidate_profiles
		SET first_name = $1, last_name = $2, birth_date = $3, picture = $4, gender = $5,
		    phone_number = $6, region = $7, address = $8, facebook_url = $9, youtube_url = $10,
		    additional_url = $11, party = $12, education = $13, work_experience = $14,
		    political_experience = $15, marital_status = $16, political_opinion = $17,
		    city_program = $18, updated_at = $19
		WHERE id = $20
	`

	profile.UpdatedAt = time.Now()
	_, err := r.db.Exec(
		query,
		profile.FirstName,
		profile.LastName,
		profile.BirthDate,
		profile.Picture,
		profile.Gender,
		profile.PhoneNumber,
		profile.Region,
		profile.Address,
		profile.FacebookURL,
		profile.YoutubeURL,
		profile.AdditionalURL,
		profile.Party,
		profile.Education,
		profile.WorkExperience,
		profile.PoliticalExperience,
		profile.MaritalStatus,
		profile.PoliticalOpinion,
		profile.CityProgram,
		profile.UpdatedAt,
		profile.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update candidate profile: %w", err)
	}

	return nil
}

// SetEmailVerified marks the candidate profile's email as verified
func (r *CandidateRepository) SetEmailVerified(id uint) error {
	query := `
		UPDATE candidate_profiles
		SET is_email_verified = true, updated_at = $1
		WHERE id = $2
	`

	_, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to verify candidate email: %w", err)
	}

	return nil
}

// SetApproved updates the admin approval flag
func (r *CandidateRepository) SetApproved(id uint, approved bool) error {
	query := `
		UPDATE candidate_profiles
		SET is_approved = $1, updated_at = $2
		WHERE id = $3
	`

	_, err := r.db.Exec(query, approved, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set candidate approval: %w", err)
	}

	return nil
}

// Delete deletes a candidate profile
func (r *CandidateRepository) Delete(id uint) error {
	query := `DELETE FROM candidate_profiles WHERE id = $1`
	_, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete candidate profile: %w", err)
	}
	return nil
}
