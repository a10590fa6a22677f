package models

// SettlementStatus is the lifecycle state of a settlement.
type SettlementStatus string

const (
	SettlementPending   SettlementStatus = "pending"
	SettlementCompleted SettlementStatus = "completed"
	SettlementCancelled SettlementStatus = "cancelled"
)

// Valid reports whether s is a known settlement status.
func (s SettlementStatus) Valid() bool {
	switch s {
	case SettlementPending, SettlementCompleted, SettlementCancelled:
		return true
	}
	return false
}

// Settlement records a real-world repayment between two group members.
// Only completed settlements affect balances.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// GroupID is the group this settlement belongs to.
	GroupID string `json:"group_id"`

	// FromUserID is the user who paid (debtor settling up).
	FromUserID string `json:"from_user_id"`

	// ToUserID is the user who received payment (creditor being paid).
	ToUserID string `json:"to_user_id"`

	// Amount is the payment amount in minor units. Always positive.
	Amount int64 `json:"amount"`

	// Status is pending, completed or cancelled.
	Status SettlementStatus `json:"status"`

	// Notes is an optional description for the settlement.
	Notes string `json:"notes,omitempty"`

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64 `json:"created_at"`

	// SettledAt is the Unix timestamp when the settlement completed;
	// zero while pending or cancelled.
	SettledAt int64 `json:"settled_at,omitempty"`
}
