package service_test

import (
	"errors"
	"testing"

	"primaries-backend/internal/models"
	"primaries-backend/internal/repository"
	"primaries-backend/internal/service"
	"primaries-backend/internal/testutil"
)

// TestEvaluationFlow exercises the trust-mark upsert and the stage gates
// around submission and results.
func TestEvaluationFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)

	stageRepo := repository.NewStageRepository(containers.DB)
	voterRepo := repository.NewVoterRepository(containers.DB)
	candidateRepo := repository.NewCandidateRepository(containers.DB)
	markRepo := repository.NewMarkRepository(containers.DB)
	evalRepo := repository.NewEvaluationRepository(containers.DB)

	evaluationSvc := service.NewEvaluationService(stageRepo, voterRepo, candidateRepo, markRepo, evalRepo)

	candidate := fixtures.Candidates[0]
	first := fixtures.Marks[0]
	second := fixtures.Marks[1]

	// Locked while the election is inactive
	_, err := evaluationSvc.Submit(fixtures.Voter.ID, candidate.ID, first.ID)
	if !errors.Is(err, service.ErrEvaluationClosed) {
		t.Fatalf("Expected ErrEvaluationClosed, got %v", err)
	}

	testutil.SetStage(t, containers.DB, models.StagePrimaryDiscussion)

	if _, err := evaluationSvc.Submit(fixtures.Voter.ID, candidate.ID, first.ID); err != nil {
		t.Fatalf("Failed to submit mark: %v", err)
	}

	// Resubmission overwrites instead of duplicating
	if _, err := evaluationSvc.Submit(fixtures.Voter.ID, candidate.ID, second.ID); err != nil {
		t.Fatalf("Failed to resubmit mark: %v", err)
	}

	own, err := evaluationSvc.OwnMarks(fixtures.Voter.ID)
	if err != nil {
		t.Fatalf("Failed to read own marks: %v", err)
	}
	if len(own) != 1 {
		t.Fatalf("Expected one evaluation after upsert, got %d", len(own))
	}
	if own[0].MarkID != second.ID {
		t.Fatalf("Expected mark %d after upsert, got %d", second.ID, own[0].MarkID)
	}

	score, err := evalRepo.SumForCandidate(candidate.ID)
	if err != nil {
		t.Fatalf("Failed to sum candidate score: %v", err)
	}
	if score != second.Mark {
		t.Fatalf("Expected score %d, got %d", second.Mark, score)
	}

	// Results are public only during the primary discussion stage
	results, err := evaluationSvc.Results()
	if err != nil {
		t.Fatalf("Failed to read evaluation results: %v", err)
	}
	if len(results) != 1 || results[0].CandidateID != candidate.ID {
		t.Fatalf("Unexpected evaluation results: %+v", results)
	}

	testutil.SetStage(t, containers.DB, models.StagePrimaryVoting)
	if _, err := evaluationSvc.Results(); !errors.Is(err, service.ErrEvaluationResultsGate) {
		t.Fatalf("Expected ErrEvaluationResultsGate, got %v", err)
	}

	// An unapproved candidate cannot be marked
	hiddenUser := testutil.CreateUser(t, containers.DB, "hidden@test.com", false)
	hidden := testutil.CreateCandidate(t, containers.DB, hiddenUser.ID, "male", false)
	if _, err := evaluationSvc.Submit(fixtures.Voter.ID, hidden.ID, first.ID); !errors.Is(err, service.ErrNotEligibleForMarks) {
		t.Fatalf("Expected ErrNotEligibleForMarks, got %v", err)
	}
}
