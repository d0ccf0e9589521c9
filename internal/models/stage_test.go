package models

import "testing"

func TestValidStage(t *testing.T) {
	for _, s := range []Stage{StageQualification, StagePrimaryDiscussion, StagePrimaryVoting, StageFinalDiscussion, StageFinalVoting, StageInactive} {
		if !ValidStage(s) {
			t.Errorf("stage %q should be valid", s)
		}
	}

	for _, s := range []Stage{"0", "6", "x", "10"} {
		if ValidStage(s) {
			t.Errorf("stage %q should be invalid", s)
		}
	}
}

func TestStageName(t *testing.T) {
	if StageName(StagePrimaryVoting) != "Primary stage: voting" {
		t.Errorf("unexpected name for primary voting: %q", StageName(StagePrimaryVoting))
	}
	if StageName("nonsense") != StageName(StageInactive) {
		t.Error("unknown stages should use the inactive label")
	}
}

func TestStageResetsEligibility(t *testing.T) {
	resets := map[Stage]bool{
		StageQualification:     true,
		StagePrimaryDiscussion: true,
		StagePrimaryVoting:     false,
		StageFinalDiscussion:   true,
		StageFinalVoting:       false,
		StageInactive:          true,
	}

	for stage, want := range resets {
		if got := StageResetsEligibility(stage); got != want {
			t.Errorf("StageResetsEligibility(%q) = %v, want %v", stage, got, want)
		}
	}
}
