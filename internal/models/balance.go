package models

// UserBalance is a user's aggregate position within a group, derived at
// query time from expenses, participants and completed settlements.
// It is never persisted.
//
// Sign convention: positive YouAreOwed means others owe this user; positive
// YouOwe is this user's outstanding debt; NetBalance = YouAreOwed - YouOwe.
type UserBalance struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`

	NetBalance int64 `json:"net_balance"`
	YouOwe     int64 `json:"you_owe"`
	YouAreOwed int64 `json:"you_are_owed"`
}

// SuggestedTransfer is a proposed repayment that helps zero out a group's
// balances with a minimal number of transactions.
type SuggestedTransfer struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Amount     int64  `json:"amount"`
}
