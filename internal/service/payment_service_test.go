package service

import (
	"testing"
)

func TestVotesForAmount(t *testing.T) {
	tests := []struct {
		amount string
		votes  int
		ok     bool
	}{
		{"2.00", 1, true},
		{"3.00", 2, true},
		{"4.00", 3, true},
		{"5.00", 4, true},
		{"6.00", 5, true},
		{"1.00", 1, true},
		{"7.00", 0, false},
		{"2", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		votes, err := VotesForAmount(tt.amount)
		if tt.ok {
			if err != nil {
				t.Errorf("VotesForAmount(%q) returned error: %v", tt.amount, err)
				continue
			}
			if votes != tt.votes {
				t.Errorf("VotesForAmount(%q) = %d, want %d", tt.amount, votes, tt.votes)
			}
		} else if err == nil {
			t.Errorf("VotesForAmount(%q) should fail", tt.amount)
		}
	}
}

func TestAmountForVotes(t *testing.T) {
	for votes := 1; votes <= 5; votes++ {
		amount, err := AmountForVotes(votes)
		if err != nil {
			t.Fatalf("AmountForVotes(%d) returned error: %v", votes, err)
		}
		back, err := VotesForAmount(amount)
		if err != nil {
			t.Fatalf("VotesForAmount(%q) returned error: %v", amount, err)
		}
		if back != votes {
			t.Errorf("tier round trip for %d votes came back as %d", votes, back)
		}
	}

	if _, err := AmountForVotes(6); err == nil {
		t.Error("AmountForVotes(6) should fail")
	}
	if _, err := AmountForVotes(0); err == nil {
		t.Error("AmountForVotes(0) should fail")
	}
}

func TestGatewayChecksum(t *testing.T) {
	sum := GatewayChecksum("100", "2.00", "secret", "B1", "P1", "T1", "D1")

	if len(sum) != 32 {
		t.Fatalf("checksum should be 32 hex characters, got %d", len(sum))
	}
	for _, c := range sum {
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			t.Fatalf("checksum contains non-uppercase-hex character %q", c)
		}
	}

	// Deterministic for identical input.
	if again := GatewayChecksum("100", "2.00", "secret", "B1", "P1", "T1", "D1"); again != sum {
		t.Error("checksum should be deterministic")
	}

	// Any field change must change the signature.
	variants := []string{
		GatewayChecksum("101", "2.00", "secret", "B1", "P1", "T1", "D1"),
		GatewayChecksum("100", "3.00", "secret", "B1", "P1", "T1", "D1"),
		GatewayChecksum("100", "2.00", "other", "B1", "P1", "T1", "D1"),
		GatewayChecksum("100", "2.00", "secret", "B2", "P1", "T1", "D1"),
		GatewayChecksum("100", "2.00", "secret", "B1", "P2", "T1", "D1"),
		GatewayChecksum("100", "2.00", "secret", "B1", "P1", "T2", "D1"),
		GatewayChecksum("100", "2.00", "secret", "B1", "P1", "T1", "D2"),
	}
	for i, v := range variants {
		if v == sum {
			t.Errorf("variant %d should produce a different checksum", i)
		}
	}
}
