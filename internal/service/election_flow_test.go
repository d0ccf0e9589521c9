package service_test

import (
	"errors"
	"testing"

	"primaries-backend/internal/config"
	"primaries-backend/internal/email"
	"primaries-backend/internal/models"
	"primaries-backend/internal/repository"
	"primaries-backend/internal/service"
	"primaries-backend/internal/testutil"
)

// TestElectionFlow drives a voter through payment, voting and the stage
// transition that resets eligibility, against a real database.
func TestElectionFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)

	stageRepo := repository.NewStageRepository(containers.DB)
	voterRepo := repository.NewVoterRepository(containers.DB)
	candidateRepo := repository.NewCandidateRepository(containers.DB)
	voteRepo := repository.NewVoteRepository(containers.DB)
	userRepo := repository.NewUserRepository(containers.DB)
	paymentRepo := repository.NewPaymentRepository(containers.DB)
	imageRepo := repository.NewPaymentImageRepository(containers.DB)

	paymentCfg := &config.PaymentConfig{
		RecAccount: "26001000000001",
		SecretKey:  "test-gateway-secret",
	}
	emailSvc := email.NewService(&config.EmailConfig{})

	stageSvc := service.NewStageService(containers.DB, stageRepo, voterRepo)
	votingSvc := service.NewVotingService(containers.DB, stageRepo, voterRepo, candidateRepo, voteRepo)
	paymentSvc := service.NewPaymentService(containers.DB, paymentCfg, stageRepo, voterRepo, userRepo, paymentRepo, imageRepo, emailSvc)

	// Freshly migrated database starts inactive
	current, err := stageSvc.Current()
	if err != nil {
		t.Fatalf("Failed to read stage: %v", err)
	}
	if current != models.StageInactive {
		t.Fatalf("Expected inactive stage, got %q", current)
	}

	// Voting is closed while inactive
	ballot := candidateIDs(fixtures.Candidates[:10])
	if err := votingSvc.SubmitBallot(fixtures.Voter.ID, ballot); !errors.Is(err, service.ErrVotingClosed) {
		t.Fatalf("Expected ErrVotingClosed, got %v", err)
	}

	if err := stageSvc.Set(models.StagePrimaryVoting); err != nil {
		t.Fatalf("Failed to set voting stage: %v", err)
	}

	// Payment flow: request a five-vote payment, confirm it via the gateway
	// callback with a valid checksum
	secondUser := testutil.CreateUser(t, containers.DB, "voter2@test.com", false)
	second := testutil.CreateVoter(t, containers.DB, secondUser.ID, true, false, 0)

	payment, err := paymentSvc.RequestVotingPayment(second.ID, 5)
	if err != nil {
		t.Fatalf("Failed to request payment: %v", err)
	}
	if payment.Amount != "6.00" {
		t.Fatalf("Expected amount 6.00 for five votes, got %s", payment.Amount)
	}

	cb := &service.GatewayCallback{
		BillNo:       payment.BillNo,
		Amount:       payment.Amount,
		RecAccount:   paymentCfg.RecAccount,
		PayerAccount: "26001000000099",
		TransID:      "T100",
		TransDate:    "01.09.2026 12:00:00",
	}
	cb.Checksum = service.GatewayChecksum(cb.RecAccount, cb.Amount, paymentCfg.SecretKey,
		cb.BillNo, cb.PayerAccount, cb.TransID, cb.TransDate)

	if err := paymentSvc.Precheck(cb); err != nil {
		t.Fatalf("Precheck failed: %v", err)
	}
	if err := paymentSvc.Confirm(cb); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	// Confirming twice is a no-op
	if err := paymentSvc.Confirm(cb); err != nil {
		t.Fatalf("Second confirm should be idempotent, got %v", err)
	}

	paid, err := voterRepo.GetByID(second.ID)
	if err != nil {
		t.Fatalf("Failed to reload voter: %v", err)
	}
	if !paid.IsPaid || paid.VotesCount == nil || *paid.VotesCount != 5 {
		t.Fatalf("Expected paid voter with five votes, got paid=%v votes=%v", paid.IsPaid, paid.VotesCount)
	}

	// Re-setting the current stage is a no-op and keeps eligibility intact
	if err := stageSvc.Set(models.StagePrimaryVoting); err != nil {
		t.Fatalf("Failed to re-set voting stage: %v", err)
	}
	paid, err = voterRepo.GetByID(second.ID)
	if err != nil {
		t.Fatalf("Failed to reload voter: %v", err)
	}
	if !paid.IsPaid || paid.VotesCount == nil || *paid.VotesCount != 5 {
		t.Fatalf("Expected eligibility to survive same-value stage set, got paid=%v votes=%v",
			paid.IsPaid, paid.VotesCount)
	}

	// A tampered checksum is rejected
	bad := *cb
	bad.Checksum = "0000"
	if err := paymentSvc.Confirm(&bad); !errors.Is(err, service.ErrBadChecksum) {
		t.Fatalf("Expected ErrBadChecksum, got %v", err)
	}

	// Ballot flow
	if err := votingSvc.SubmitBallot(fixtures.Voter.ID, ballot); err != nil {
		t.Fatalf("Failed to submit ballot: %v", err)
	}
	if err := votingSvc.SubmitBallot(fixtures.Voter.ID, ballot); !errors.Is(err, service.ErrAlreadyVoted) {
		t.Fatalf("Expected ErrAlreadyVoted, got %v", err)
	}

	// Two simultaneous submissions from the same voter record exactly one
	// ballot; the voter row lock serializes them
	thirdUser := testutil.CreateUser(t, containers.DB, "voter3@test.com", false)
	third := testutil.CreateVoter(t, containers.DB, thirdUser.ID, true, true, 3)

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			errs <- votingSvc.SubmitBallot(third.ID, ballot)
		}()
	}
	var recorded, rejected int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			recorded++
		case errors.Is(err, service.ErrAlreadyVoted):
			rejected++
		default:
			t.Fatalf("Unexpected concurrent submission error: %v", err)
		}
	}
	if recorded != 1 || rejected != 1 {
		t.Fatalf("Expected one recorded and one rejected ballot, got %d/%d", recorded, rejected)
	}

	// All-male ballot violates the gender quota
	males := make([]uint, 0, 10)
	for _, c := range fixtures.Candidates {
		if c.Gender == "male" {
			males = append(males, c.ID)
		}
	}
	for len(males) < 10 {
		males = append(males, males[0])
	}
	if err := votingSvc.SubmitBallot(paid.ID, males[:10]); err == nil {
		t.Fatal("Expected quota or duplicate error for all-male ballot, got nil")
	}

	// Results open once the final discussion stage begins
	if _, err := votingSvc.Results(); !errors.Is(err, service.ErrResultsUnavailable) {
		t.Fatalf("Expected ErrResultsUnavailable during voting, got %v", err)
	}
	// Entering the final voting stage keeps eligibility
	if err := stageSvc.Set(models.StageFinalVoting); err != nil {
		t.Fatalf("Failed to set final voting stage: %v", err)
	}
	kept, err := voterRepo.GetByID(fixtures.Voter.ID)
	if err != nil {
		t.Fatalf("Failed to reload voter: %v", err)
	}
	if !kept.IsPaid || !kept.AlreadyVoted {
		t.Fatalf("Expected eligibility to survive the final voting stage, got paid=%v voted=%v",
			kept.IsPaid, kept.AlreadyVoted)
	}

	if err := stageSvc.Set(models.StageFinalDiscussion); err != nil {
		t.Fatalf("Failed to set final discussion stage: %v", err)
	}
	results, err := votingSvc.Results()
	if err != nil {
		t.Fatalf("Failed to read results: %v", err)
	}
	if len(results) != 10 {
		t.Fatalf("Expected results for 10 candidates, got %d", len(results))
	}

	// The per-candidate sum agrees with the grouped results
	top, err := voteRepo.SumForCandidate(results[0].CandidateID, models.StagePrimaryVoting)
	if err != nil {
		t.Fatalf("Failed to sum candidate points: %v", err)
	}
	if top != results[0].Points {
		t.Fatalf("Expected %v points for candidate %d, got %v", results[0].Points, results[0].CandidateID, top)
	}

	// The final discussion stage wipes eligibility for the final round
	reset, err := voterRepo.GetByID(fixtures.Voter.ID)
	if err != nil {
		t.Fatalf("Failed to reload voter: %v", err)
	}
	if reset.IsPaid || reset.AlreadyVoted || reset.VotesCount != nil {
		t.Fatalf("Expected eligibility reset, got paid=%v voted=%v votes=%v",
			reset.IsPaid, reset.AlreadyVoted, reset.VotesCount)
	}
}

func candidateIDs(candidates []models.CandidateProfile) []uint {
	ids := make([]uint, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	return ids
}
