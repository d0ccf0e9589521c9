package service

import (
	"math"
	"testing"

	"primaries-backend/internal/models"
)

func TestValidateBallotSize(t *testing.T) {
	tests := []struct {
		name  string
		stage models.Stage
		size  int
		want  error
	}{
		{"empty ballot", models.StagePrimaryVoting, 0, ErrEmptyBallot},
		{"primary below minimum", models.StagePrimaryVoting, 9, ErrWrongBallotSize},
		{"primary at minimum", models.StagePrimaryVoting, 10, nil},
		{"primary above minimum", models.StagePrimaryVoting, 25, nil},
		{"final exact", models.StageFinalVoting, 7, nil},
		{"final too short", models.StageFinalVoting, 6, ErrWrongBallotSize},
		{"final too long", models.StageFinalVoting, 8, ErrWrongBallotSize},
		{"final empty", models.StageFinalVoting, 0, ErrEmptyBallot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateBallotSize(tt.stage, tt.size); got != tt.want {
				t.Errorf("ValidateBallotSize(%q, %d) = %v, want %v", tt.stage, tt.size, got, tt.want)
			}
		})
	}
}

func TestFindDuplicate(t *testing.T) {
	if dup := FindDuplicate([]uint{1, 2, 3, 4}); dup != 0 {
		t.Errorf("expected no duplicate, got %d", dup)
	}
	if dup := FindDuplicate([]uint{1, 2, 3, 2, 4}); dup != 2 {
		t.Errorf("expected duplicate 2, got %d", dup)
	}
	if dup := FindDuplicate(nil); dup != 0 {
		t.Errorf("expected no duplicate for empty ballot, got %d", dup)
	}
}

func TestGenderQuotaSatisfied(t *testing.T) {
	ballot := func(male, female int) []string {
		var genders []string
		for i := 0; i < male; i++ {
			genders = append(genders, models.GenderMale)
		}
		for i := 0; i < female; i++ {
			genders = append(genders, models.GenderFemale)
		}
		return genders
	}

	tests := []struct {
		name   string
		male   int
		female int
		want   bool
	}{
		{"balanced ballot", 5, 5, true},
		{"three of ten is enough", 7, 3, true},
		{"two of ten is not", 8, 2, false},
		{"all one gender", 10, 0, false},
		{"empty ballot", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenderQuotaSatisfied(ballot(tt.male, tt.female)); got != tt.want {
				t.Errorf("GenderQuotaSatisfied(%d male, %d female) = %v, want %v", tt.male, tt.female, got, tt.want)
			}
		})
	}
}

func TestBallotPoints(t *testing.T) {
	tests := []struct {
		weight   int
		position int
		want     float64
	}{
		{1, 1, 1.0},
		{1, 2, 0.5},
		{1, 4, 0.25},
		{3, 1, 3.0},
		{3, 2, 1.5},
		{5, 10, 0.5},
	}

	for _, tt := range tests {
		got := BallotPoints(tt.weight, tt.position)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("BallotPoints(%d, %d) = %f, want %f", tt.weight, tt.position, got, tt.want)
		}
	}
}

func TestBallotPointsDecay(t *testing.T) {
	// A full ballot must award strictly decreasing points down the ranking.
	prev := math.Inf(1)
	for position := 1; position <= 10; position++ {
		points := BallotPoints(2, position)
		if points >= prev {
			t.Fatalf("points at position %d (%f) not below position %d (%f)", position, points, position-1, prev)
		}
		prev = points
	}
}

func TestVoterWeightDefaults(t *testing.T) {
	p := &models.VoterProfile{}
	if w := p.Weight(); w != 1 {
		t.Errorf("nil votes_count should weigh 1, got %d", w)
	}

	zero := 0
	p.VotesCount = &zero
	if w := p.Weight(); w != 1 {
		t.Errorf("zero votes_count should weigh 1, got %d", w)
	}

	five := 5
	p.VotesCount = &five
	if w := p.Weight(); w != 5 {
		t.Errorf("expected weight 5, got %d", w)
	}
}
