package rewards

import "testing"

func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		balance int
		want    string
	}{
		{0, TierNeedsImprovement},
		{2, TierNeedsImprovement},
		{50, TierNeedsImprovement},
		{51, TierFair},
		{100, TierFair},
		{101, TierSatisfactory},
		{150, TierSatisfactory},
		{151, TierGood},
		{200, TierGood},
		{201, TierExcellent},
		{205, TierExcellent},
		{100000, TierExcellent},
	}
	for _, tt := range tests {
		if got := Tier(tt.balance); got != tt.want {
			t.Errorf("Tier(%d) = %q, want %q", tt.balance, got, tt.want)
		}
	}
}

func TestTierIsPure(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := Tier(75); got != TierFair {
			t.Fatalf("call %d: Tier(75) = %q", i, got)
		}
	}
}
