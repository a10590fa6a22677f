package models

// SplitType is the rule used to divide an expense among participants.
type SplitType string

const (
	SplitEqual      SplitType = "EQUAL"
	SplitExact      SplitType = "EXACT"
	SplitPercentage SplitType = "PERCENTAGE"
	SplitShares     SplitType = "SHARES"
)

// Valid reports whether t is a known split type.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitExact, SplitPercentage, SplitShares:
		return true
	}
	return false
}

// Expense represents money fronted by one user to be split among participants.
//
// All amounts are integer minor units (paise) to avoid floating-point drift.
// An expense without a group ID is a personal expense.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// GroupID is the owning group; empty for personal expenses.
	GroupID string `json:"group_id,omitempty"`

	// Description is the human-readable label (e.g., "Dinner at Sagar").
	Description string `json:"description"`

	// Amount is the total expense amount in minor units. Always positive.
	Amount int64 `json:"amount"`

	// PaidBy is the user ID of the payer who fronted the money.
	PaidBy string `json:"paid_by"`

	// PaidByName is the payer's display name, denormalized at creation.
	PaidByName string `json:"paid_by_name"`

	// SplitType records the rule the shares were derived from.
	SplitType SplitType `json:"split_type"`

	// Notes is an optional free-form note.
	Notes string `json:"notes,omitempty"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp of the last modification.
	UpdatedAt int64 `json:"updated_at"`

	// Participants holds the per-user shares. The sum of AmountOwed across
	// participants always equals Amount (enforced at creation).
	Participants []ExpenseParticipant `json:"participants,omitempty"`
}

// ExpenseParticipant is one user's share of a specific expense.
type ExpenseParticipant struct {
	ID        string `json:"id"`
	ExpenseID string `json:"expense_id"`
	UserID    string `json:"user_id"`

	// UserEmail and UserName are denormalized display fields.
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`

	// AmountOwed is this participant's share in minor units.
	AmountOwed int64 `json:"amount_owed"`

	// IsSettled is maintained independently of settlements; recording a
	// settlement does not flip it.
	IsSettled bool `json:"is_settled"`

	CreatedAt int64 `json:"created_at"`
}
