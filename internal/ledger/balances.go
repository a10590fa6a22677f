package ledger

import (
	"sort"

	"github.com/eduvision/expenses/internal/models"
)

// Member identifies one group member for balance computation.
type Member struct {
	UserID   string
	UserName string
}

// ComputeBalances derives every member's net position from the group's
// expenses and completed settlements.
//
// For each expense, every participant other than the payer owes the payer
// their share; the payer's own share cancels against the money they fronted.
// A completed settlement from A to B reduces A's debt to B (an overpayment
// flips the direction when pairs are netted). Pending and cancelled
// settlements are ignored.
//
// Members with no activity get an all-zero balance. The sum of NetBalance
// across the result is always zero as long as shares were constructed to sum
// to their expense amounts.
func ComputeBalances(members []Member, expenses []models.Expense, settlements []models.Settlement) []models.UserBalance {
	// debts[debtor][creditor] = outstanding minor units
	debts := make(map[string]map[string]int64)
	owe := func(debtor, creditor string, amount int64) {
		if debtor == creditor || amount == 0 {
			return
		}
		if debts[debtor] == nil {
			debts[debtor] = make(map[string]int64)
		}
		debts[debtor][creditor] += amount
	}

	for _, e := range expenses {
		if e.PaidBy == "" {
			continue
		}
		for _, p := range e.Participants {
			owe(p.UserID, e.PaidBy, p.AmountOwed)
		}
	}

	for _, s := range settlements {
		if s.Status != models.SettlementCompleted {
			continue
		}
		owe(s.FromUserID, s.ToUserID, -s.Amount)
	}

	// Net each unordered pair so only one direction remains.
	type pos struct{ owes, owed int64 }
	positions := make(map[string]*pos, len(members))
	at := func(id string) *pos {
		p, ok := positions[id]
		if !ok {
			p = &pos{}
			positions[id] = p
		}
		return p
	}
	seen := make(map[[2]string]bool)
	for a, row := range debts {
		for b := range row {
			key := [2]string{a, b}
			if a > b {
				key = [2]string{b, a}
			}
			if seen[key] {
				continue
			}
			seen[key] = true

			net := debts[a][b]
			if debts[b] != nil {
				net -= debts[b][a]
			}
			switch {
			case net > 0:
				at(a).owes += net
				at(b).owed += net
			case net < 0:
				at(b).owes += -net
				at(a).owed += -net
			}
		}
	}

	balances := make([]models.UserBalance, 0, len(members))
	for _, m := range members {
		b := models.UserBalance{UserID: m.UserID, UserName: m.UserName}
		if p, ok := positions[m.UserID]; ok {
			b.YouOwe = p.owes
			b.YouAreOwed = p.owed
			b.NetBalance = p.owed - p.owes
		}
		balances = append(balances, b)
	}
	return balances
}

// OutstandingDebt returns how much `from` currently owes `to` after netting
// the reverse direction and completed settlements. Never negative; if `to`
// is the one in debt the result is zero. Used to reject settlements that
// would overpay.
func OutstandingDebt(expenses []models.Expense, settlements []models.Settlement, from, to string) int64 {
	// positive = from owes to
	var net int64
	for _, e := range expenses {
		for _, p := range e.Participants {
			switch {
			case e.PaidBy == to && p.UserID == from:
				net += p.AmountOwed
			case e.PaidBy == from && p.UserID == to:
				net -= p.AmountOwed
			}
		}
	}
	for _, s := range settlements {
		if s.Status != models.SettlementCompleted {
			continue
		}
		switch {
		case s.FromUserID == from && s.ToUserID == to:
			net -= s.Amount
		case s.FromUserID == to && s.ToUserID == from:
			net += s.Amount
		}
	}
	if net < 0 {
		return 0
	}
	return net
}

// SuggestTransfers proposes repayments that zero out the given balances with
// a small number of transactions: the largest debtor pays the largest
// creditor until both sides are exhausted. Output is deterministic (amount
// descending, user ID as tie-break).
func SuggestTransfers(balances []models.UserBalance) []models.SuggestedTransfer {
	type entry struct {
		userID string
		amount int64
	}
	var debtors, creditors []entry
	for _, b := range balances {
		switch {
		case b.NetBalance < 0:
			debtors = append(debtors, entry{b.UserID, -b.NetBalance})
		case b.NetBalance > 0:
			creditors = append(creditors, entry{b.UserID, b.NetBalance})
		}
	}
	byAmount := func(s []entry) {
		sort.Slice(s, func(i, j int) bool {
			if s[i].amount != s[j].amount {
				return s[i].amount > s[j].amount
			}
			return s[i].userID < s[j].userID
		})
	}
	byAmount(debtors)
	byAmount(creditors)

	var transfers []models.SuggestedTransfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].amount
		if creditors[j].amount < amount {
			amount = creditors[j].amount
		}
		if amount > 0 {
			transfers = append(transfers, models.SuggestedTransfer{
				FromUserID: debtors[i].userID,
				ToUserID:   creditors[j].userID,
				Amount:     amount,
			})
		}
		debtors[i].amount -= amount
		creditors[j].amount -= amount
		if debtors[i].amount == 0 {
			i++
		}
		if creditors[j].amount == 0 {
			j++
		}
	}
	return transfers
}
