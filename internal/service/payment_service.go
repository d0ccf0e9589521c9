package service

import (
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"primaries-backend/internal/config"
	"primaries-backend/internal/email"
	"primaries-backend/internal/models"
	"primaries-backend/internal/repository"
)

var (
	ErrUnknownAmount    = errors.New("amount does not match a payment tier")
	ErrWrongRecAccount  = errors.New("receiver account mismatch")
	ErrBadChecksum      = errors.New("checksum mismatch")
	ErrPaymentInactive  = errors.New("payments are closed in the current stage")
	ErrEmailNotVerified = errors.New("email is not verified")
)

// EvaluationFee is the flat fee that unlocks trust-mark evaluation.
const EvaluationFee = "1.00"

// votingTiers maps a payment amount to the ballot weight it purchases.
var votingTiers = map[string]int{
	"2.00": 1,
	"3.00": 2,
	"4.00": 3,
	"5.00": 4,
	"6.00": 5,
}

// VotesForAmount returns the ballot weight a payment amount purchases, or
// an error when the amount matches no tier.
func VotesForAmount(amount string) (int, error) {
	if amount == EvaluationFee {
		return 1, nil
	}
	votes, ok := votingTiers[amount]
	if !ok {
		return 0, ErrUnknownAmount
	}
	return votes, nil
}

// AmountForVotes returns the fee for a requested ballot weight
func AmountForVotes(votes int) (string, error) {
	for amount, v := range votingTiers {
		if v == votes {
			return amount, nil
		}
	}
	return "", ErrUnknownAmount
}

// GatewayChecksum computes the uppercase hex MD5 the gateway signs its
// confirmation callbacks with.
func GatewayChecksum(recAccount, amount, secret, billNo, payerAccount, transID, transDate string) string {
	payload := fmt.Sprintf("%s:%s:%s:%s:%s:%s:%s", recAccount, amount, secret, billNo, payerAccount, transID, transDate)
	sum := md5.Sum([]byte(payload))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// GatewayCallback carries the form fields of a gateway webhook call.
type GatewayCallback struct {
	Precheck     bool
	BillNo       string
	Amount       string
	RecAccount   string
	PayerAccount string
	TransID      string
	TransDate    string
	Checksum     string
}

// PaymentService handles payment requests, gateway callbacks and the manual
// image-proof channel.
type PaymentService struct {
	db          *sql.DB
	cfg         *config.PaymentConfig
	stageRepo   *repository.StageRepository
	voterRepo   *repository.VoterRepository
	userRepo    *repository.UserRepository
	paymentRepo *repository.PaymentRepository
	imageRepo   *repository.PaymentImageRepository
	emailSvc    *email.Service
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	db *sql.DB,
	cfg *config.PaymentConfig,
	stageRepo *repository.StageRepository,
	voterRepo *repository.VoterRepository,
	userRepo *repository.UserRepository,
	paymentRepo *repository.PaymentRepository,
	imageRepo *repository.PaymentImageRepository,
	emailSvc *email.Service,
) *PaymentService {
	return &PaymentService{
		db:          db,
		cfg:         cfg,
		stageRepo:   stageRepo,
		voterRepo:   voterRepo,
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		imageRepo:   imageRepo,
		emailSvc:    emailSvc,
	}
}

// RequestVotingPayment opens (or returns the pending) payment that buys the
// requested ballot weight.
func (s *PaymentService) RequestVotingPayment(voterID uint, votes int) (*models.Payment, error) {
	stage, err := s.stageRepo.Get()
	if err != nil {
		return nil, err
	}
	if stage == models.StageInactive {
		return nil, ErrPaymentInactive
	}

	voter, err := s.voterRepo.GetByID(voterID)
	if err != nil {
		return nil, err
	}
	if !voter.IsEmailVerified {
		return nil, ErrEmailNotVerified
	}

	amount, err := AmountForVotes(votes)
	if err != nil {
		return nil, err
	}

	return s.paymentRepo.GetOrCreate(voterID, amount, s.cfg.RecAccount)
}

// RequestEvaluationPayment opens (or returns the pending) flat-fee payment
// that unlocks trust-mark evaluation.
func (s *PaymentService) RequestEvaluationPayment(voterID uint) (*models.Payment, error) {
	stage, err := s.stageRepo.Get()
	if err != nil {
		return nil, err
	}
	if stage == models.StageInactive {
		return nil, ErrPaymentInactive
	}

	voter, err := s.voterRepo.GetByID(voterID)
	if err != nil {
		return nil, err
	}
	if !voter.IsEmailVerified {
		return nil, ErrEmailNotVerified
	}

	return s.paymentRepo.GetOrCreate(voterID, EvaluationFee, s.cfg.RecAccount)
}

// Precheck answers the gateway's pre-payment probe: the bill must exist,
// be unconfirmed, and match amount and receiver account.
func (s *PaymentService) Precheck(cb *GatewayCallback) error {
	payment, err := s.paymentRepo.GetByBillNo(cb.BillNo)
	if err != nil {
		return err
	}
	if payment.Confirmed {
		return repository.ErrPaymentNotFound
	}
	if payment.Amount != cb.Amount {
		return ErrUnknownAmount
	}
	if payment.RecAccount != cb.RecAccount {
		return ErrWrongRecAccount
	}
	return nil
}

// Confirm finalizes a payment after the gateway signed it off. It verifies
// the checksum, marks the payment confirmed, grants the purchased ballot
// weight and recomputes the voter flag. A repeated confirmation for an
// already confirmed bill is acknowledged without side effects.
func (s *PaymentService) Confirm(cb *GatewayCallback) error {
	payment, err := s.paymentRepo.GetByBillNo(cb.BillNo)
	if err != nil {
		return err
	}
	if payment.Confirmed {
		return nil
	}

	if payment.Amount != cb.Amount {
		return ErrUnknownAmount
	}
	if payment.RecAccount != cb.RecAccount {
		return ErrWrongRecAccount
	}

	expected := GatewayChecksum(cb.RecAccount, cb.Amount, s.cfg.SecretKey, cb.BillNo, cb.PayerAccount, cb.TransID, cb.TransDate)
	if !strings.EqualFold(cb.Checksum, expected) {
		return ErrBadChecksum
	}

	votes, err := VotesForAmount(payment.Amount)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin payment transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("Failed to rollback payment transaction", "error", err)
		}
	}()

	if err := s.paymentRepo.Confirm(tx, cb.BillNo); err != nil {
		return err
	}

	if _, err := tx.Exec(`
		UPDATE voter_profiles SET is_paid = true, votes_count = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`, votes, payment.VoterID); err != nil {
		return fmt.Errorf("failed to mark voter as paid: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE users SET is_voter = true, updated_at = CURRENT_TIMESTAMP
		WHERE id = (SELECT user_id FROM voter_profiles WHERE id = $1 AND is_email_verified = true)
	`, payment.VoterID); err != nil {
		return fmt.Errorf("failed to update voter flag: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit payment transaction: %w", err)
	}

	slog.Info("Payment confirmed",
		"bill_no", cb.BillNo,
		"voter_id", payment.VoterID,
		"amount", payment.Amount,
		"votes", votes,
	)

	return nil
}

// ConfirmManual grants payment eligibility after an administrator has
// reviewed an image proof. The ballot weight must match a voting tier.
func (s *PaymentService) ConfirmManual(voterID uint, votes int) error {
	if _, err := AmountForVotes(votes); err != nil {
		return err
	}

	voter, err := s.voterRepo.GetByID(voterID)
	if err != nil {
		return err
	}

	if err := s.voterRepo.SetPaid(voterID, votes); err != nil {
		return err
	}
	if voter.IsEmailVerified {
		if err := s.userRepo.SetVoterFlag(voter.UserID, true); err != nil {
			return err
		}
	}

	slog.Info("Payment confirmed manually", "voter_id", voterID, "votes", votes)

	return nil
}

// SubmitImageProof records a manually reviewed payment receipt and notifies
// the administrator. The email is best effort; a delivery failure does not
// fail the upload.
func (s *PaymentService) SubmitImageProof(voterID uint, pictureURL string) (*models.PaymentImage, error) {
	stage, err := s.stageRepo.Get()
	if err != nil {
		return nil, err
	}
	if stage == models.StageInactive {
		return nil, ErrPaymentInactive
	}

	voter, err := s.voterRepo.GetByID(voterID)
	if err != nil {
		return nil, err
	}

	image := &models.PaymentImage{
		VoterID: voterID,
		Picture: pictureURL,
	}
	if err := s.imageRepo.Create(image); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(voter.UserID)
	if err == nil {
		if err := s.emailSvc.SendPaymentProofNotice(user.Email, pictureURL); err != nil {
			slog.Error("Failed to send payment proof notice", "voter_id", voterID, "error", err)
		}
	}

	return image, nil
}
