package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"primaries-backend/internal/models"
)

// Fixtures holds test data
type Fixtures struct {
	DB         *sql.DB
	StaffUser  *models.User
	VoterUser  *models.User
	Voter      *models.VoterProfile
	Candidates []models.CandidateProfile
	Marks      []models.MarkOption
}

// SetupFixtures creates a staff account, a verified paid voter and a slate
// of approved candidates with alternating genders
func SetupFixtures(t *testing.T, db *sql.DB) *Fixtures {
	t.Helper()

	fixtures := &Fixtures{
		DB: db,
	}

	fixtures.StaffUser = CreateUser(t, db, "staff@test.com", true)
	fixtures.VoterUser = CreateUser(t, db, "voter@test.com", false)
	fixtures.Voter = CreateVoter(t, db, fixtures.VoterUser.ID, true, true, 1)

	for i := 0; i < 12; i++ {
		gender := "male"
		if i%3 == 0 {
			gender = "female"
		}
		user := CreateUser(t, db, fmt.Sprintf("candidate%d@test.com", i), false)
		candidate := CreateCandidate(t, db, user.ID, gender, true)
		fixtures.Candidates = append(fixtures.Candidates, *candidate)
	}

	fixtures.Marks = CreateMarkOptions(t, db)

	return fixtures
}

// CreateUser inserts a user account with a bcrypt password hash
func CreateUser(t *testing.T, db *sql.DB, email string, staff bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		IsStaff:      staff,
		IsActive:     true,
	}

	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, is_staff, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, user.Email, user.PasswordHash, user.IsStaff, user.IsActive).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}

	return user
}

// CreateVoter inserts a voter profile for the given user
func CreateVoter(t *testing.T, db *sql.DB, userID uint, verified, paid bool, votes int) *models.VoterProfile {
	t.Helper()

	voter := &models.VoterProfile{
		UserID:          userID,
		FirstName:       "Test",
		LastName:        "Voter",
		PhoneNumber:     "+380501112233",
		Address:         "1 Test St",
		SocialURL:          "https://example.com/voter",
		IsEmailVerified: verified,
		IsPaid:          paid,
	}
	if votes > 0 {
		voter.VotesCount = &votes
	}

	err := db.QueryRow(`
		INSERT INTO voter_profiles (user_id, first_name, last_name, phone_number, address, soc_url, is_email_verified, is_paid, votes_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, birth_date, created_at, updated_at
	`, voter.UserID, voter.FirstName, voter.LastName, voter.PhoneNumber, voter.Address,
		voter.SocialURL, voter.IsEmailVerified, voter.IsPaid, voter.VotesCount).Scan(
		&voter.ID, &voter.BirthDate, &voter.CreatedAt, &voter.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("Failed to create voter profile: %v", err)
	}

	return voter
}

// CreateCandidate inserts an email-verified candidate profile
func CreateCandidate(t *testing.T, db *sql.DB, userID uint, gender string, approved bool) *models.CandidateProfile {
	t.Helper()

	candidate := &models.CandidateProfile{
		UserID:          userID,
		FirstName:       "Test",
		LastName:        "Candidate",
		Gender:          gender,
		PhoneNumber:     "+380504445566",
		Region:          "Kyiv",
		Address:         "2 Test St",
		FacebookURL:     "https://facebook.com/test",
		Party:           "Independent",
		IsEmailVerified: true,
		IsApproved:      approved,
	}

	err := db.QueryRow(`
		INSERT INTO candidate_profiles (user_id, first_name, last_name, birth_date, gender, phone_number, region, address, facebook_url, party, is_email_verified, is_approved)
		VALUES ($1, $2, $3, '1980-01-01', $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, birth_date, created_at, updated_at
	`, candidate.UserID, candidate.FirstName, candidate.LastName, candidate.Gender,
		candidate.PhoneNumber, candidate.Region, candidate.Address, candidate.FacebookURL,
		candidate.Party, candidate.IsEmailVerified, candidate.IsApproved).Scan(
		&candidate.ID, &candidate.BirthDate, &candidate.CreatedAt, &candidate.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("Failed to create candidate profile: %v", err)
	}

	return candidate
}

// CreateMarkOptions seeds the trust-mark catalog
func CreateMarkOptions(t *testing.T, db *sql.DB) []models.MarkOption {
	t.Helper()

	seeds := []models.MarkOption{
		{Content: "Full trust", Mark: 5},
		{Content: "Trust", Mark: 3},
		{Content: "Neutral", Mark: 0},
		{Content: "Distrust", Mark: -2},
	}

	marks := make([]models.MarkOption, 0, len(seeds))
	for _, seed := range seeds {
		err := db.QueryRow(`
			INSERT INTO mark_options (content, mark)
			VALUES ($1, $2)
			RETURNING id
		`, seed.Content, seed.Mark).Scan(&seed.ID)
		if err != nil {
			t.Fatalf("Failed to create mark option: %v", err)
		}
		marks = append(marks, seed)
	}

	return marks
}

// SetStage writes the election stage directly
func SetStage(t *testing.T, db *sql.DB, stage models.Stage) {
	t.Helper()

	var value interface{}
	if stage != models.StageInactive {
		value = string(stage)
	}

	_, err := db.Exec(`
		INSERT INTO election_config (id, stage) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET stage = EXCLUDED.stage, updated_at = CURRENT_TIMESTAMP
	`, value)
	if err != nil {
		t.Fatalf("Failed to set stage: %v", err)
	}
}
