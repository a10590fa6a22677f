// Package ledger derives shares and balances from expense data.
// All functions are pure: they take snapshots and return results, so
// storage and transport can be tested independently of the arithmetic.
package ledger

import (
	"errors"
	"fmt"
	"sort"

	"github.com/eduvision/expenses/internal/models"
)

var (
	ErrNoParticipants    = errors.New("at least one participant is required")
	ErrNonPositiveAmount = errors.New("amount must be positive")
)

// ShareInput describes one participant going into a split computation.
// Value is interpreted per split type: ignored for EQUAL, minor units for
// EXACT, basis points (1% = 100) for PERCENTAGE, weight for SHARES.
type ShareInput struct {
	UserID string
	Value  int64
}

// ComputeShares divides amount (minor units) among participants according to
// the split type. The returned slice is aligned with inputs and always sums
// to exactly amount; remainders from integer division are distributed by the
// largest-remainder method so no paisa is lost or invented.
func ComputeShares(splitType models.SplitType, amount int64, inputs []ShareInput) ([]int64, error) {
	if amount <= 0 {
		return nil, ErrNonPositiveAmount
	}
	if len(inputs) == 0 {
		return nil, ErrNoParticipants
	}

	switch splitType {
	case models.SplitEqual:
		weights := make([]int64, len(inputs))
		for i := range weights {
			weights[i] = 1
		}
		return splitByWeight(amount, weights)

	case models.SplitExact:
		var sum int64
		shares := make([]int64, len(inputs))
		for i, in := range inputs {
			if in.Value < 0 {
				return nil, fmt.Errorf("exact share for %s is negative", in.UserID)
			}
			shares[i] = in.Value
			sum += in.Value
		}
		if sum != amount {
			return nil, fmt.Errorf("exact shares sum to %d, expense amount is %d", sum, amount)
		}
		return shares, nil

	case models.SplitPercentage:
		var sum int64
		weights := make([]int64, len(inputs))
		for i, in := range inputs {
			if in.Value < 0 {
				return nil, fmt.Errorf("percentage for %s is negative", in.UserID)
			}
			weights[i] = in.Value
			sum += in.Value
		}
		// Percentages are basis points and must cover the whole amount.
		if sum != 10000 {
			return nil, fmt.Errorf("percentages sum to %d basis points, want 10000", sum)
		}
		return splitByWeight(amount, weights)

	case models.SplitShares:
		weights := make([]int64, len(inputs))
		for i, in := range inputs {
			if in.Value <= 0 {
				return nil, fmt.Errorf("share weight for %s must be positive", in.UserID)
			}
			weights[i] = in.Value
		}
		return splitByWeight(amount, weights)

	default:
		return nil, fmt.Errorf("unknown split type %q", splitType)
	}
}

// splitByWeight divides amount proportionally to weights, assigning leftover
// minor units to the entries with the largest truncated remainders. Ties go
// to the earlier entry, which keeps results deterministic.
func splitByWeight(amount int64, weights []int64) ([]int64, error) {
	var total int64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return nil, ErrNoParticipants
	}

	shares := make([]int64, len(weights))
	remainders := make([]int64, len(weights))
	var assigned int64
	for i, w := range weights {
		shares[i] = amount * w / total
		remainders[i] = amount * w % total
		assigned += shares[i]
	}

	leftover := amount - assigned
	order := make([]int, len(weights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})
	for i := int64(0); i < leftover; i++ {
		shares[order[i%int64(len(order))]]++
	}

	return shares, nil
}
