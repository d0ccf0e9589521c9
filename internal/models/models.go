package models

import (
	"time"
)

// User represents an account in the system. The is_voter and is_candidate
// flags are derived: is_voter is true iff the user's voter profile is
// email-verified and paid, is_candidate iff the candidate profile is
// email-verified and admin-approved. They are recomputed after every write
// to the owning profile.
type User struct {
	ID           uint      `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsStaff      bool      `json:"is_staff" db:"is_staff"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	IsVoter      bool      `json:"is_voter" db:"is_voter"`
	IsCandidate  bool      `json:"is_candidate" db:"is_candidate"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// VoterProfile holds the voter-side profile of a user. is_paid, votes_count
// and already_voted are scoped to the current voting stage and are wiped in
// bulk when the election transitions back to a registration stage.
type VoterProfile struct {
	ID              uint      `json:"id" db:"id"`
	UserID          uint      `json:"user_id" db:"user_id"`
	FirstName       string    `json:"first_name" db:"first_name"`
	LastName        string    `json:"last_name" db:"last_name"`
	PhoneNumber     string    `json:"phone_number" db:"phone_number"`
	BirthDate       time.Time `json:"birth_date" db:"birth_date"`
	Address         string    `json:"address" db:"address"`
	SocialURL       string    `json:"soc_url" db:"soc_url"`
	IsEmailVerified bool      `json:"is_email_verified" db:"is_email_verified"`
	IsPaid          bool      `json:"is_paid" db:"is_paid"`
	VotesCount      *int      `json:"votes_count" db:"votes_count"`
	AlreadyVoted    bool      `json:"already_voted" db:"already_voted"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Weight returns the voter's ranked-choice multiplier, defaulting to 1 when
// no payment tier has been recorded.
func (p *VoterProfile) Weight() int {
	if p.VotesCount == nil || *p.VotesCount < 1 {
		return 1
	}
	return *p.VotesCount
}

// Gender categories used by candidate profiles and the ballot quota rule.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// CandidateProfile holds the candidate-side profile of a user.
type CandidateProfile struct {
	ID                  uint      `json:"id" db:"id"`
	UserID              uint      `json:"user_id" db:"user_id"`
	FirstName           string    `json:"first_name" db:"first_name"`
	LastName            string    `json:"last_name" db:"last_name"`
	BirthDate           time.Time `json:"birth_date" db:"birth_date"`
	Picture             string    `json:"picture" db:"picture"`
	Gender              string    `json:"gender" db:"gender"`
	PhoneNumber         string    `json:"phone_number" db:"phone_number"`
	Region              string    `json:"region" db:"region"`
	Address             string    `json:"address" db:"address"`
	FacebookURL         string    `json:"facebook_url" db:"facebook_url"`
	YoutubeURL          *string   `json:"youtube_url,omitempty" db:"youtube_url"`
	AdditionalURL       *string   `json:"additional_url,omitempty" db:"additional_url"`
	Party               string    `json:"party" db:"party"`
	Education           string    `json:"education" db:"education"`
	WorkExperience      string    `json:"work_experience" db:"work_experience"`
	PoliticalExperience string    `json:"political_experience" db:"political_experience"`
	MaritalStatus       string    `json:"marital_status" db:"marital_status"`
	PoliticalOpinion    string    `json:"political_opinion" db:"political_opinion"`
	CityProgram         string    `json:"city_program" db:"city_program"`
	IsEmailVerified     bool      `json:"is_email_verified" db:"is_email_verified"`
	IsApproved          bool      `json:"is_approved" db:"is_approved"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// CandidatePost is a campaign publication attached to a candidate profile.
type CandidatePost struct {
	ID        uint      `json:"id" db:"id"`
	ProfileID uint      `json:"profile_id" db:"profile_id"`
	Title     string    `json:"title" db:"title"`
	Text      string    `json:"text" db:"text"`
	MediaURL  *string   `json:"media_url,omitempty" db:"media_url"`
	Photo     *string   `json:"photo,omitempty" db:"photo"`
	Important bool      `json:"important" db:"important"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// News is a published news item.
type News struct {
	ID        uint      `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Text      string    `json:"text" db:"text"`
	Picture   *string   `json:"picture,omitempty" db:"picture"`
	MediaURL  *string   `json:"media_url,omitempty" db:"media_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Token kinds for email verification. A token verifies exactly one of the
// user's two profiles.
const (
	TokenKindVoter     = "voter"
	TokenKindCandidate = "candidate"
)

// VerificationToken is a single-use email verification token.
type VerificationToken struct {
	ID        uint       `json:"id" db:"id"`
	UserID    uint       `json:"user_id" db:"user_id"`
	Token     string     `json:"token" db:"token"`
	Kind      string     `json:"kind" db:"kind"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty" db:"used_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// MarkOption is one entry of the fixed trust-mark catalog: a descriptive
// text with an integer score in [-2, 5]. Admin-curated reference data.
type MarkOption struct {
	ID      uint   `json:"id" db:"id"`
	Content string `json:"content" db:"content"`
	Mark    int    `json:"mark" db:"mark"`
}

// Evaluation records a single trust-mark a voter assigned to a candidate.
// At most one row exists per (voter, candidate); re-submission overwrites.
type Evaluation struct {
	ID          uint      `json:"id" db:"id"`
	VoterID     uint      `json:"voter" db:"voter_id"`
	CandidateID uint      `json:"candidate" db:"candidate_id"`
	MarkID      uint      `json:"poll" db:"mark_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CandidateScore is an aggregated evaluation result row.
type CandidateScore struct {
	CandidateID uint `json:"candidate" db:"candidate_id"`
	Points      int  `json:"points" db:"points"`
}

// Vote is one ranked entry of a submitted ballot. A full ballot is a set of
// Vote rows sharing (voter, stage); partial ballots are never persisted.
type Vote struct {
	ID          uint    `json:"id" db:"id"`
	VoterID     uint    `json:"voter" db:"voter_id"`
	CandidateID uint    `json:"candidate" db:"candidate_id"`
	Position    int     `json:"position" db:"position"`
	Points      float64 `json:"points" db:"points"`
	Stage       string  `json:"stage" db:"stage"`
}

// CandidatePoints is an aggregated voting result row: the point sum one
// candidate collected within one stage.
type CandidatePoints struct {
	CandidateID uint    `json:"candidate" db:"candidate_id"`
	Points      float64 `json:"points" db:"points"`
}

// Payment is a gateway payment request. BillNo is the opaque unique
// identifier (EDP_BILL_NO) the gateway echoes back on precheck and confirm.
type Payment struct {
	BillNo     string    `json:"EDP_BILL_NO" db:"bill_no"`
	VoterID    uint      `json:"voter" db:"voter_id"`
	Amount     string    `json:"EDP_AMOUNT" db:"amount"`
	RecAccount string    `json:"EDP_REC_ACCOUNT" db:"rec_account"`
	Confirmed  bool      `json:"confirmed" db:"confirmed"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// PaymentImage is a manually reviewed payment proof uploaded by a voter.
type PaymentImage struct {
	ID        uint      `json:"id" db:"id"`
	VoterID   uint      `json:"voter" db:"voter_id"`
	Picture   string    `json:"picture" db:"picture"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
