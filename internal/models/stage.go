package models

// Stage is the global election phase. The empty string represents the
// inactive phase and is stored as NULL.
type Stage = string

// The six-entry stage catalog.
const (
	StageQualification     Stage = "1"
	StagePrimaryDiscussion Stage = "2"
	StagePrimaryVoting     Stage = "3"
	StageFinalDiscussion   Stage = "4"
	StageFinalVoting       Stage = "5"
	StageInactive          Stage = ""
)

var stageNames = map[Stage]string{
	StageQualification:     "Qualification stage",
	StagePrimaryDiscussion: "Primary stage: discussions and voter registration",
	StagePrimaryVoting:     "Primary stage: voting",
	StageFinalDiscussion:   "Final stage: discussions and voter registration",
	StageFinalVoting:       "Final stage: voting",
	StageInactive:          "Inactive stage",
}

// StageName returns the display text for a stage, or the inactive label for
// anything outside the catalog.
func StageName(s Stage) string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return stageNames[StageInactive]
}

// ValidStage reports whether s is one of the six catalog values.
func ValidStage(s Stage) bool {
	_, ok := stageNames[s]
	return ok
}

// StageResetsEligibility reports whether entering s wipes the stage-scoped
// voter state (is_paid, votes_count, already_voted, is_voter). Payment and
// ballot eligibility belong to a single voting stage, so every
// registration-type or inactive stage opens with a clean slate.
func StageResetsEligibility(s Stage) bool {
	switch s {
	case StageQualification, StagePrimaryDiscussion, StageFinalDiscussion, StageInactive:
		return true
	}
	return false
}
