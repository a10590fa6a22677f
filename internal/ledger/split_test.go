package ledger

import (
	"testing"

	"github.com/eduvision/expenses/internal/models"
)

func sum(shares []int64) int64 {
	var total int64
	for _, s := range shares {
		total += s
	}
	return total
}

func TestComputeShares_Equal(t *testing.T) {
	inputs := []ShareInput{{UserID: "a"}, {UserID: "b"}, {UserID: "c"}}

	shares, err := ComputeShares(models.SplitEqual, 30000, inputs)
	if err != nil {
		t.Fatalf("ComputeShares failed: %v", err)
	}
	for i, s := range shares {
		if s != 10000 {
			t.Errorf("share %d: got %d, want 10000", i, s)
		}
	}
}

func TestComputeShares_EqualRemainder(t *testing.T) {
	// 100 paise across 3 people cannot divide evenly; the extra paisa must
	// land somewhere and the total must stay exact.
	inputs := []ShareInput{{UserID: "a"}, {UserID: "b"}, {UserID: "c"}}

	shares, err := ComputeShares(models.SplitEqual, 100, inputs)
	if err != nil {
		t.Fatalf("ComputeShares failed: %v", err)
	}
	if got := sum(shares); got != 100 {
		t.Errorf("shares sum to %d, want 100", got)
	}
	for i, s := range shares {
		if s != 33 && s != 34 {
			t.Errorf("share %d: got %d, want 33 or 34", i, s)
		}
	}
}

func TestComputeShares_Exact(t *testing.T) {
	inputs := []ShareInput{
		{UserID: "a", Value: 12000},
		{UserID: "b", Value: 18000},
	}

	shares, err := ComputeShares(models.SplitExact, 30000, inputs)
	if err != nil {
		t.Fatalf("ComputeShares failed: %v", err)
	}
	if shares[0] != 12000 || shares[1] != 18000 {
		t.Errorf("got %v, want [12000 18000]", shares)
	}
}

func TestComputeShares_ExactMismatch(t *testing.T) {
	inputs := []ShareInput{
		{UserID: "a", Value: 12000},
		{UserID: "b", Value: 12000},
	}

	if _, err := ComputeShares(models.SplitExact, 30000, inputs); err == nil {
		t.Error("expected error when exact shares do not sum to the amount")
	}
}

func TestComputeShares_Percentage(t *testing.T) {
	inputs := []ShareInput{
		{UserID: "a", Value: 2500}, // 25%
		{UserID: "b", Value: 7500}, // 75%
	}

	shares, err := ComputeShares(models.SplitPercentage, 40000, inputs)
	if err != nil {
		t.Fatalf("ComputeShares failed: %v", err)
	}
	if shares[0] != 10000 || shares[1] != 30000 {
		t.Errorf("got %v, want [10000 30000]", shares)
	}
}

func TestComputeShares_PercentageMustCoverWhole(t *testing.T) {
	inputs := []ShareInput{
		{UserID: "a", Value: 5000},
		{UserID: "b", Value: 4000},
	}

	if _, err := ComputeShares(models.SplitPercentage, 40000, inputs); err == nil {
		t.Error("expected error when percentages do not sum to 100%")
	}
}

func TestComputeShares_Shares(t *testing.T) {
	inputs := []ShareInput{
		{UserID: "a", Value: 2},
		{UserID: "b", Value: 1},
	}

	shares, err := ComputeShares(models.SplitShares, 30000, inputs)
	if err != nil {
		t.Fatalf("ComputeShares failed: %v", err)
	}
	if shares[0] != 20000 || shares[1] != 10000 {
		t.Errorf("got %v, want [20000 10000]", shares)
	}
}

func TestComputeShares_SharesRemainder(t *testing.T) {
	// 1000 split 1:1:1 leaves one extra paisa; verify it is distributed and
	// nothing is lost.
	inputs := []ShareInput{
		{UserID: "a", Value: 1},
		{UserID: "b", Value: 1},
		{UserID: "c", Value: 1},
	}

	shares, err := ComputeShares(models.SplitShares, 1000, inputs)
	if err != nil {
		t.Fatalf("ComputeShares failed: %v", err)
	}
	if got := sum(shares); got != 1000 {
		t.Errorf("shares sum to %d, want 1000", got)
	}
}

func TestComputeShares_Errors(t *testing.T) {
	tests := []struct {
		name      string
		splitType models.SplitType
		amount    int64
		inputs    []ShareInput
	}{
		{"zero amount", models.SplitEqual, 0, []ShareInput{{UserID: "a"}}},
		{"negative amount", models.SplitEqual, -100, []ShareInput{{UserID: "a"}}},
		{"no participants", models.SplitEqual, 100, nil},
		{"unknown split type", models.SplitType("HALVES"), 100, []ShareInput{{UserID: "a"}}},
		{"zero share weight", models.SplitShares, 100, []ShareInput{{UserID: "a", Value: 0}}},
		{"negative exact share", models.SplitExact, 100, []ShareInput{{UserID: "a", Value: -5}, {UserID: "b", Value: 105}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ComputeShares(tt.splitType, tt.amount, tt.inputs); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
