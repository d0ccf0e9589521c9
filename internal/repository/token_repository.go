package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"primaries-backend/internal/models"
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token has expired")
	ErrTokenUsed     = errors.New("token has already been used")
)

// TokenRepository handles email verification tokens
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create stores a new verification token
func (r *TokenRepository) Create(token *models.VerificationToken) error {
	token.CreatedAt = time.Now()
	err := r.db.QueryRow(`
		INSERT INTO email_verification_tokens (user_id, token, kind, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, token.UserID, token.Token, token.Kind, token.ExpiresAt, token.CreatedAt).Scan(&token.ID)
	if err != nil {
		return fmt.Errorf("failed to create verification token: %w", err)
	}
	return nil
}

// Consume looks up a token, validates it and marks it used. Returns the
// token record when it is valid.
func (r *TokenRepository) Consume(tokenValue string) (*models.VerificationToken, error) {
	t := &models.VerificationToken{}
	err := r.db.QueryRow(`
		SELECT id, user_id, token, kind, expires_at, used_at, created_at
		FROM email_verification_tokens
		WHERE token = $1
	`, tokenValue).Scan(&t.ID, &t.UserID, &t.Token, &t.Kind, &t.ExpiresAt, &t.UsedAt, &t.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verification token: %w", err)
	}

	if t.UsedAt != nil {
		return nil, ErrTokenUsed
	}
	if time.Now().After(t.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	now := time.Now()
	if _, err := r.db.Exec(`
		UPDATE email_verification_tokens SET used_at = $1 WHERE id = $2
	`, now, t.ID); err != nil {
		return nil, fmt.Errorf("failed to mark token as used: %w", err)
	}
	t.UsedAt = &now

	return t, nil
}

// DeleteExpired removes tokens past their expiry
func (r *TokenRepository) DeleteExpired() error {
	_, err := r.db.Exec(`DELETE FROM email_verification_tokens WHERE expires_at < $1`, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return nil
}
