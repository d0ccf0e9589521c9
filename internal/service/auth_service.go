package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"primaries-backend/internal/auth"
	"primaries-backend/internal/email"
	"primaries-backend/internal/models"
	"primaries-backend/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user account is inactive")
)

const verificationTokenTTL = 24 * time.Hour

// AuthService handles registration, login and email verification. A single
// account can carry a voter profile, a candidate profile or both; each
// profile verifies its email independently.
type AuthService struct {
	userRepo      *repository.UserRepository
	voterRepo     *repository.VoterRepository
	candidateRepo *repository.CandidateRepository
	tokenRepo     *repository.TokenRepository
	authSvc       *auth.Service
	emailSvc      *email.Service
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo *repository.UserRepository,
	voterRepo *repository.VoterRepository,
	candidateRepo *repository.CandidateRepository,
	tokenRepo *repository.TokenRepository,
	authSvc *auth.Service,
	emailSvc *email.Service,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		voterRepo:     voterRepo,
		candidateRepo: candidateRepo,
		tokenRepo:     tokenRepo,
		authSvc:       authSvc,
		emailSvc:      emailSvc,
	}
}

// Register creates a new user account
func (s *AuthService) Register(emailAddr, password string) (*models.User, error) {
	existing, _ := s.userRepo.GetByEmail(emailAddr)
	if existing != nil {
		return nil, repository.ErrUserExists
	}

	passwordHash, err := s.authSvc.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        emailAddr,
		PasswordHash: passwordHash,
		IsActive:     true,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user and returns access and refresh tokens
func (s *AuthService) Login(emailAddr, password string) (string, string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(emailAddr)
	if err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	if err := s.authSvc.VerifyPassword(user.PasswordHash, password); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", "", nil, ErrUserInactive
	}

	accessToken, err := s.authSvc.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	refreshToken, err := s.authSvc.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(refreshToken string) (string, string, error) {
	claims, err := s.authSvc.ValidateToken(refreshToken)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", "", ErrUserInactive
	}

	accessToken, err := s.authSvc.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate token: %w", err)
	}
	newRefreshToken, err := s.authSvc.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return accessToken, newRefreshToken, nil
}

// ChangePassword verifies the current password and stores a new hash
func (s *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	if err := s.authSvc.VerifyPassword(user.PasswordHash, currentPassword); err != nil {
		return ErrInvalidCredentials
	}

	passwordHash, err := s.authSvc.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(userID, passwordHash)
}

// User returns the account with the given ID
func (s *AuthService) User(userID uint) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// SendVerification issues a fresh verification token for one of the user's
// profiles and emails the link.
func (s *AuthService) SendVerification(user *models.User, kind string) error {
	tokenValue, err := auth.GenerateRandomToken(32)
	if err != nil {
		return err
	}

	if err := s.tokenRepo.DeleteExpired(); err != nil {
		slog.Warn("Failed to purge expired verification tokens", "error", err)
	}

	token := &models.VerificationToken{
		UserID:    user.ID,
		Token:     tokenValue,
		Kind:      kind,
		ExpiresAt: time.Now().Add(verificationTokenTTL),
	}
	if err := s.tokenRepo.Create(token); err != nil {
		return err
	}

	if err := s.emailSvc.SendVerificationEmail(user.Email, tokenValue); err != nil {
		slog.Error("Failed to send verification email", "user_id", user.ID, "error", err)
		return err
	}

	return nil
}

// VerifyEmail consumes a verification token and marks the matching profile
// as email-verified. Verifying the candidate profile also refreshes the
// derived candidate flag.
func (s *AuthService) VerifyEmail(tokenValue string) error {
	token, err := s.tokenRepo.Consume(tokenValue)
	if err != nil {
		return err
	}

	switch token.Kind {
	case models.TokenKindVoter:
		profile, err := s.voterRepo.GetByUserID(token.UserID)
		if err != nil {
			return err
		}
		if err := s.voterRepo.SetEmailVerified(profile.ID); err != nil {
			return err
		}
		// The voter may have paid before verifying
		if err := s.RefreshVoterFlag(token.UserID); err != nil {
			return err
		}
	case models.TokenKindCandidate:
		profile, err := s.candidateRepo.GetByUserID(token.UserID)
		if err != nil {
			return err
		}
		if err := s.candidateRepo.SetEmailVerified(profile.ID); err != nil {
			return err
		}
		if profile.IsApproved {
			if err := s.userRepo.SetCandidateFlag(token.UserID, true); err != nil {
				return err
			}
		}
	default:
		return repository.ErrTokenNotFound
	}

	return nil
}

// RefreshCandidateFlag recomputes the derived is_candidate flag from the
// candidate profile state.
func (s *AuthService) RefreshCandidateFlag(userID uint) error {
	profile, err := s.candidateRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			return s.userRepo.SetCandidateFlag(userID, false)
		}
		return err
	}
	return s.userRepo.SetCandidateFlag(userID, profile.IsApproved && profile.IsEmailVerified)
}

// RefreshVoterFlag recomputes the derived is_voter flag from the voter
// profile state.
func (s *AuthService) RefreshVoterFlag(userID uint) error {
	profile, err := s.voterRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrVoterNotFound) {
			return s.userRepo.SetVoterFlag(userID, false)
		}
		return err
	}
	return s.userRepo.SetVoterFlag(userID, profile.IsEmailVerified && profile.IsPaid)
}
