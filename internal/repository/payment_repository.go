package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"primaries-backend/internal/models"
)

var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepository handles gateway payment records
type PaymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// GetOrCreate returns the voter's pending payment for the given amount,
// creating one with a fresh bill number when none exists. Reusing the
// pending record keeps the bill number stable across repeated checkout
// attempts.
func (r *PaymentRepository) GetOrCreate(voterID uint, amount, recAccount string) (*models.Payment, error) {
	p := &models.Payment{}
	err := r.db.QueryRow(`
		SELECT bill_no, voter_id, amount, rec_account, confirmed, created_at
		FROM payments
		WHERE voter_id = $1 AND amount = $2 AND confirmed = false
		ORDER BY created_at DESC
		LIMIT 1
	`, voterID, amount).Scan(&p.BillNo, &p.VoterID, &p.Amount, &p.RecAccount, &p.Confirmed, &p.CreatedAt)

	if err == nil {
		return p, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get pending payment: %w", err)
	}

	p = &models.Payment{
		BillNo:     uuid.New().String(),
		VoterID:    voterID,
		Amount:     amount,
		RecAccount: recAccount,
		CreatedAt:  time.Now(),
	}

	if _, err := r.db.Exec(`
		INSERT INTO payments (bill_no, voter_id, amount, rec_account, confirmed, created_at)
		VALUES ($1, $2, $3, $4, false, $5)
	`, p.BillNo, p.VoterID, p.Amount, p.RecAccount, p.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return p, nil
}

// GetByBillNo retrieves a payment by its bill number
func (r *PaymentRepository) GetByBillNo(billNo string) (*models.Payment, error) {
	p := &models.Payment{}
	err := r.db.QueryRow(`
		SELECT bill_no, voter_id, amount, rec_account, confirmed, created_at
		FROM payments
		WHERE bill_no = $1
	`, billNo).Scan(&p.BillNo, &p.VoterID, &p.Amount, &p.RecAccount, &p.Confirmed, &p.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return p, nil
}

// Confirm marks a payment as confirmed inside the caller's transaction
func (r *PaymentRepository) Confirm(tx *sql.Tx, billNo string) error {
	_, err := tx.Exec(`UPDATE payments SET confirmed = true WHERE bill_no = $1`, billNo)
	if err != nil {
		return fmt.Errorf("failed to confirm payment: %w", err)
	}
	return nil
}

// PaymentImageRepository handles manually reviewed payment proofs
type PaymentImageRepository struct {
	db *sql.DB
}

// NewPaymentImageRepository creates a new payment image repository
func NewPaymentImageRepository(db *sql.DB) *PaymentImageRepository {
	return &PaymentImageRepository{db: db}
}

// Create records an uploaded payment receipt awaiting manual confirmation
func (r *PaymentImageRepository) Create(image *models.PaymentImage) error {
	image.CreatedAt = time.Now()
	err := r.db.QueryRow(`
		INSERT INTO payment_images (voter_id, picture, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, image.VoterID, image.Picture, image.CreatedAt).Scan(&image.ID)
	if err != nil {
		return fmt.Errorf("failed to create payment image: %w", err)
	}
	return nil
}

// GetByVoter returns all receipts a voter has uploaded
func (r *PaymentImageRepository) GetByVoter(voterID uint) ([]models.PaymentImage, error) {
	rows, err := r.db.Query(`
		SELECT id, voter_id, picture, created_at
		FROM payment_images
		WHERE voter_id = $1
		ORDER BY created_at DESC
	`, voterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment images: %w", err)
	}
	defer rows.Close()

	var images []models.PaymentImage
	for rows.Next() {
		var img models.PaymentImage
		if err := rows.Scan(&img.ID, &img.VoterID, &img.Picture, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment image: %w", err)
		}
		images = append(images, img)
	}

	return images, nil
}
