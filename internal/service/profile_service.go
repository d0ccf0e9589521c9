package service

import (
	"errors"
	"log/slog"

	"primaries-backend/internal/models"
	"primaries-backend/internal/repository"
)

var ErrProfileExists = errors.New("profile already exists for this user")

// ProfileService handles voter and candidate profile lifecycle: creation,
// updates, admin approval and the verification mails they trigger.
type ProfileService struct {
	userRepo      *repository.UserRepository
	voterRepo     *repository.VoterRepository
	candidateRepo *repository.CandidateRepository
	authService   *AuthService
}

// NewProfileService creates a new profile service
func NewProfileService(
	userRepo *repository.UserRepository,
	voterRepo *repository.VoterRepository,
	candidateRepo *repository.CandidateRepository,
	authService *AuthService,
) *ProfileService {
	return &ProfileService{
		userRepo:      userRepo,
		voterRepo:     voterRepo,
		candidateRepo: candidateRepo,
		authService:   authService,
	}
}

// CreateVoterProfile registers a voter profile for the user and sends the
// verification email. The mail is best effort; the profile is kept even
// when delivery fails so the user can request a resend.
func (s *ProfileService) CreateVoterProfile(user *models.User, profile *models.VoterProfile) (*models.VoterProfile, error) {
	if _, err := s.voterRepo.GetByUserID(user.ID); err == nil {
		return nil, ErrProfileExists
	}

	profile.UserID = user.ID
	if err := s.voterRepo.Create(profile); err != nil {
		return nil, err
	}

	if err := s.authService.SendVerification(user, models.TokenKindVoter); err != nil {
		slog.Error("Failed to send voter verification email", "user_id", user.ID, "error", err)
	}

	return profile, nil
}

// CreateCandidateProfile registers a candidate profile for the user and
// sends the verification email. The profile stays invisible until an
// administrator approves it.
func (s *ProfileService) CreateCandidateProfile(user *models.User, profile *models.CandidateProfile) (*models.CandidateProfile, error) {
	if _, err := s.candidateRepo.GetByUserID(user.ID); err == nil {
		return nil, ErrProfileExists
	}

	profile.UserID = user.ID
	if err := s.candidateRepo.Create(profile); err != nil {
		return nil, err
	}

	if err := s.authService.SendVerification(user, models.TokenKindCandidate); err != nil {
		slog.Error("Failed to send candidate verification email", "user_id", user.ID, "error", err)
	}

	return profile, nil
}

// GetVoterProfile returns the user's voter profile
func (s *ProfileService) GetVoterProfile(userID uint) (*models.VoterProfile, error) {
	return s.voterRepo.GetByUserID(userID)
}

// GetCandidateProfile returns the user's candidate profile
func (s *ProfileService) GetCandidateProfile(userID uint) (*models.CandidateProfile, error) {
	return s.candidateRepo.GetByUserID(userID)
}

// UpdateVoterProfile updates the user's voter profile
func (s *ProfileService) UpdateVoterProfile(userID uint, update *models.VoterProfile) (*models.VoterProfile, error) {
	profile, err := s.voterRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	profile.FirstName = update.FirstName
	profile.LastName = update.LastName
	profile.PhoneNumber = update.PhoneNumber
	profile.BirthDate = update.BirthDate
	profile.Address = update.Address
	profile.SocialURL = update.SocialURL

	if err := s.voterRepo.Update(profile); err != nil {
		return nil, err
	}

	return profile, nil
}

// UpdateCandidateProfile updates the user's candidate profile
func (s *ProfileService) UpdateCandidateProfile(userID uint, update *models.CandidateProfile) (*models.CandidateProfile, error) {
	profile, err := s.candidateRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	update.ID = profile.ID
	update.UserID = profile.UserID
	update.IsEmailVerified = profile.IsEmailVerified
	update.IsApproved = profile.IsApproved

	if err := s.candidateRepo.Update(update); err != nil {
		return nil, err
	}

	return update, nil
}

// ApproveCandidate sets the admin approval flag and refreshes the derived
// candidate flag on the owning user.
func (s *ProfileService) ApproveCandidate(candidateID uint, approved bool) error {
	profile, err := s.candidateRepo.GetByID(candidateID)
	if err != nil {
		return err
	}

	if err := s.candidateRepo.SetApproved(candidateID, approved); err != nil {
		return err
	}

	return s.authService.RefreshCandidateFlag(profile.UserID)
}

// ResendVerification issues a fresh verification token for the profile kind
func (s *ProfileService) ResendVerification(userID uint, kind string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	return s.authService.SendVerification(user, kind)
}
