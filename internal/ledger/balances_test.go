package ledger

import (
	"testing"

	"github.com/eduvision/expenses/internal/models"
)

func balanceFor(t *testing.T, balances []models.UserBalance, userID string) models.UserBalance {
	t.Helper()
	for _, b := range balances {
		if b.UserID == userID {
			return b
		}
	}
	t.Fatalf("no balance for %s", userID)
	return models.UserBalance{}
}

func dinnerExpense(amount, share int64) models.Expense {
	return models.Expense{
		ID:     "e1",
		PaidBy: "alice",
		Amount: amount,
		Participants: []models.ExpenseParticipant{
			{UserID: "alice", AmountOwed: share},
			{UserID: "bob", AmountOwed: share},
		},
	}
}

func TestComputeBalances_EqualSplitDinner(t *testing.T) {
	// Alice fronts 300.00 for dinner split equally with Bob: Bob owes
	// Alice 150.00, Alice's own share cancels.
	members := []Member{{UserID: "alice"}, {UserID: "bob"}}
	expenses := []models.Expense{dinnerExpense(30000, 15000)}

	balances := ComputeBalances(members, expenses, nil)

	alice := balanceFor(t, balances, "alice")
	if alice.YouAreOwed != 15000 || alice.YouOwe != 0 || alice.NetBalance != 15000 {
		t.Errorf("alice: got owed=%d owe=%d net=%d, want 15000/0/15000",
			alice.YouAreOwed, alice.YouOwe, alice.NetBalance)
	}

	bob := balanceFor(t, balances, "bob")
	if bob.YouOwe != 15000 || bob.YouAreOwed != 0 || bob.NetBalance != -15000 {
		t.Errorf("bob: got owed=%d owe=%d net=%d, want 0/15000/-15000",
			bob.YouAreOwed, bob.YouOwe, bob.NetBalance)
	}
}

func TestComputeBalances_CompletedSettlementClearsDebt(t *testing.T) {
	members := []Member{{UserID: "alice"}, {UserID: "bob"}}
	expenses := []models.Expense{dinnerExpense(30000, 15000)}
	settlements := []models.Settlement{
		{FromUserID: "bob", ToUserID: "alice", Amount: 15000, Status: models.SettlementCompleted},
	}

	balances := ComputeBalances(members, expenses, settlements)
	for _, b := range balances {
		if b.NetBalance != 0 || b.YouOwe != 0 || b.YouAreOwed != 0 {
			t.Errorf("%s: expected all-zero balance after settlement, got %+v", b.UserID, b)
		}
	}
}

func TestComputeBalances_PendingSettlementIgnored(t *testing.T) {
	members := []Member{{UserID: "alice"}, {UserID: "bob"}}
	expenses := []models.Expense{dinnerExpense(30000, 15000)}
	settlements := []models.Settlement{
		{FromUserID: "bob", ToUserID: "alice", Amount: 15000, Status: models.SettlementPending},
		{FromUserID: "bob", ToUserID: "alice", Amount: 15000, Status: models.SettlementCancelled},
	}

	balances := ComputeBalances(members, expenses, settlements)
	bob := balanceFor(t, balances, "bob")
	if bob.YouOwe != 15000 {
		t.Errorf("bob owes %d, want 15000 (pending/cancelled must not count)", bob.YouOwe)
	}
}

func TestComputeBalances_InactiveMemberIsZero(t *testing.T) {
	members := []Member{{UserID: "alice"}, {UserID: "bob"}, {UserID: "carol"}}
	expenses := []models.Expense{dinnerExpense(30000, 15000)}

	balances := ComputeBalances(members, expenses, nil)
	carol := balanceFor(t, balances, "carol")
	if carol.NetBalance != 0 || carol.YouOwe != 0 || carol.YouAreOwed != 0 {
		t.Errorf("carol should be all-zero, got %+v", carol)
	}
}

func TestComputeBalances_NetSumIsZero(t *testing.T) {
	// Closed ledger: as long as shares sum to their expense amounts, every
	// paisa owed is a paisa owed to someone.
	members := []Member{{UserID: "alice"}, {UserID: "bob"}, {UserID: "carol"}}
	expenses := []models.Expense{
		{
			ID: "e1", PaidBy: "alice", Amount: 10001,
			Participants: []models.ExpenseParticipant{
				{UserID: "alice", AmountOwed: 3334},
				{UserID: "bob", AmountOwed: 3334},
				{UserID: "carol", AmountOwed: 3333},
			},
		},
		{
			ID: "e2", PaidBy: "bob", Amount: 5000,
			Participants: []models.ExpenseParticipant{
				{UserID: "alice", AmountOwed: 2500},
				{UserID: "carol", AmountOwed: 2500},
			},
		},
	}
	settlements := []models.Settlement{
		{FromUserID: "carol", ToUserID: "alice", Amount: 1000, Status: models.SettlementCompleted},
	}

	balances := ComputeBalances(members, expenses, settlements)
	var net int64
	for _, b := range balances {
		net += b.NetBalance
	}
	if net != 0 {
		t.Errorf("net balances sum to %d, want 0", net)
	}
}

func TestComputeBalances_MutualDebtsNet(t *testing.T) {
	// Alice paid 100 for Bob, Bob paid 60 for Alice: only the 40 difference
	// survives netting.
	members := []Member{{UserID: "alice"}, {UserID: "bob"}}
	expenses := []models.Expense{
		{ID: "e1", PaidBy: "alice", Amount: 100,
			Participants: []models.ExpenseParticipant{{UserID: "bob", AmountOwed: 100}}},
		{ID: "e2", PaidBy: "bob", Amount: 60,
			Participants: []models.ExpenseParticipant{{UserID: "alice", AmountOwed: 60}}},
	}

	balances := ComputeBalances(members, expenses, nil)
	bob := balanceFor(t, balances, "bob")
	if bob.YouOwe != 40 || bob.YouAreOwed != 0 {
		t.Errorf("bob: got owe=%d owed=%d, want 40/0", bob.YouOwe, bob.YouAreOwed)
	}
}

func TestOutstandingDebt(t *testing.T) {
	expenses := []models.Expense{dinnerExpense(30000, 15000)}
	settlements := []models.Settlement{
		{FromUserID: "bob", ToUserID: "alice", Amount: 5000, Status: models.SettlementCompleted},
		{FromUserID: "bob", ToUserID: "alice", Amount: 9999, Status: models.SettlementPending},
	}

	if got := OutstandingDebt(expenses, settlements, "bob", "alice"); got != 10000 {
		t.Errorf("bob owes alice %d, want 10000", got)
	}
	if got := OutstandingDebt(expenses, settlements, "alice", "bob"); got != 0 {
		t.Errorf("alice owes bob %d, want 0", got)
	}
}

func TestSuggestTransfers(t *testing.T) {
	balances := []models.UserBalance{
		{UserID: "alice", NetBalance: 15000},
		{UserID: "bob", NetBalance: -10000},
		{UserID: "carol", NetBalance: -5000},
	}

	transfers := SuggestTransfers(balances)
	if len(transfers) != 2 {
		t.Fatalf("got %d transfers, want 2", len(transfers))
	}
	if transfers[0].FromUserID != "bob" || transfers[0].ToUserID != "alice" || transfers[0].Amount != 10000 {
		t.Errorf("first transfer: got %+v, want bob->alice 10000", transfers[0])
	}
	if transfers[1].FromUserID != "carol" || transfers[1].ToUserID != "alice" || transfers[1].Amount != 5000 {
		t.Errorf("second transfer: got %+v, want carol->alice 5000", transfers[1])
	}
}

func TestSuggestTransfers_Balanced(t *testing.T) {
	balances := []models.UserBalance{
		{UserID: "alice"},
		{UserID: "bob"},
	}
	if transfers := SuggestTransfers(balances); len(transfers) != 0 {
		t.Errorf("expected no transfers for a settled group, got %v", transfers)
	}
}
