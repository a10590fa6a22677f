package service

import (
	"context"
	"errors"
	"testing"

	"github.com/eduvision/expenses/internal/models"
	"github.com/eduvision/expenses/internal/storage"
)

type fixture struct {
	store storage.Store
	svc   *ExpenseService
	group *models.Group
	alice *models.User
	bob   *models.User
}

// newFixture sets up a group with Alice (admin) and Bob as members.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newTestStore(t)
	ctx := context.Background()

	alice := seedUser(t, store, "alice@univ.edu", "Alice")
	bob := seedUser(t, store, "bob@univ.edu", "Bob")

	groups := NewGroupService(store)
	group, err := groups.CreateGroup(ctx, alice.ID, GroupInput{Name: "Goa Trip"})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if _, err := groups.AddMember(ctx, alice.ID, group.ID, bob.Email, false); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	return &fixture{
		store: store,
		svc:   NewExpenseService(store),
		group: group,
		alice: alice,
		bob:   bob,
	}
}

func (f *fixture) dinner(t *testing.T) *models.Expense {
	t.Helper()
	expense, err := f.svc.CreateExpense(context.Background(), f.alice.ID, ExpenseInput{
		GroupID:     f.group.ID,
		Description: "Dinner",
		Amount:      30000,
		SplitType:   models.SplitEqual,
		Shares: []ShareInput{
			{UserID: f.alice.ID},
			{UserID: f.bob.ID},
		},
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	return expense
}

func TestExpenseService_CreateExpense(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expense := f.dinner(t)

	t.Run("equal split computed", func(t *testing.T) {
		if len(expense.Participants) != 2 {
			t.Fatalf("got %d participants, want 2", len(expense.Participants))
		}
		for _, p := range expense.Participants {
			if p.AmountOwed != 15000 {
				t.Errorf("%s owes %d, want 15000", p.UserName, p.AmountOwed)
			}
		}
		if expense.PaidBy != f.alice.ID {
			t.Errorf("paid_by = %s, want %s", expense.PaidBy, f.alice.ID)
		}
	})

	t.Run("exact split must sum to amount", func(t *testing.T) {
		_, err := f.svc.CreateExpense(ctx, f.alice.ID, ExpenseInput{
			GroupID:     f.group.ID,
			Description: "Cab",
			Amount:      1000,
			SplitType:   models.SplitExact,
			Shares: []ShareInput{
				{UserID: f.alice.ID, Value: 400},
				{UserID: f.bob.ID, Value: 500},
			},
		})
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("expected ErrInvalid for mismatched exact shares, got %v", err)
		}
	})

	t.Run("non-member participant rejected", func(t *testing.T) {
		eve := seedUser(t, f.store, "eve@univ.edu", "Eve")
		_, err := f.svc.CreateExpense(ctx, f.alice.ID, ExpenseInput{
			GroupID:     f.group.ID,
			Description: "Snacks",
			Amount:      500,
			SplitType:   models.SplitEqual,
			Shares:      []ShareInput{{UserID: f.alice.ID}, {UserID: eve.ID}},
		})
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("expected ErrInvalid, got %v", err)
		}
	})

	t.Run("non-member payer forbidden", func(t *testing.T) {
		eve := seedUser(t, f.store, "eve2@univ.edu", "Eve")
		_, err := f.svc.CreateExpense(ctx, eve.ID, ExpenseInput{
			GroupID:     f.group.ID,
			Description: "Snacks",
			Amount:      500,
			SplitType:   models.SplitEqual,
			Shares:      []ShareInput{{UserID: eve.ID}},
		})
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("personal expense without group", func(t *testing.T) {
		expense, err := f.svc.CreateExpense(ctx, f.alice.ID, ExpenseInput{
			Description: "Textbook",
			Amount:      5000,
			SplitType:   models.SplitEqual,
			Shares:      []ShareInput{{UserID: f.alice.ID}},
		})
		if err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.GroupID != "" {
			t.Errorf("group_id = %q, want empty", expense.GroupID)
		}
	})
}

func TestExpenseService_UpdateDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	expense := f.dinner(t)

	t.Run("only payer can update", func(t *testing.T) {
		_, err := f.svc.UpdateExpense(ctx, f.bob.ID, expense.ID, ExpenseInput{
			GroupID:     f.group.ID,
			Description: "Dinner v2",
			Amount:      30000,
			SplitType:   models.SplitEqual,
			Shares:      []ShareInput{{UserID: f.alice.ID}, {UserID: f.bob.ID}},
		})
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("payer update replaces shares", func(t *testing.T) {
		got, err := f.svc.UpdateExpense(ctx, f.alice.ID, expense.ID, ExpenseInput{
			GroupID:     f.group.ID,
			Description: "Dinner with dessert",
			Amount:      40000,
			SplitType:   models.SplitShares,
			Shares: []ShareInput{
				{UserID: f.alice.ID, Value: 1},
				{UserID: f.bob.ID, Value: 3},
			},
		})
		if err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}
		if got.Amount != 40000 {
			t.Errorf("amount = %d, want 40000", got.Amount)
		}
		var bobShare int64
		for _, p := range got.Participants {
			if p.UserID == f.bob.ID {
				bobShare = p.AmountOwed
			}
		}
		if bobShare != 30000 {
			t.Errorf("bob's share = %d, want 30000", bobShare)
		}
	})

	t.Run("only payer can delete", func(t *testing.T) {
		if err := f.svc.DeleteExpense(ctx, f.bob.ID, expense.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
		if err := f.svc.DeleteExpense(ctx, f.alice.ID, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if err := f.svc.DeleteExpense(ctx, f.alice.ID, expense.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestExpenseService_Settlements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.dinner(t) // bob owes alice 15000

	t.Run("amount must be positive", func(t *testing.T) {
		_, err := f.svc.CreateSettlement(ctx, f.bob.ID, SettlementInput{
			GroupID: f.group.ID, ToUserID: f.alice.ID, Amount: 0,
		})
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("expected ErrInvalid, got %v", err)
		}
	})

	t.Run("cannot settle with self", func(t *testing.T) {
		_, err := f.svc.CreateSettlement(ctx, f.bob.ID, SettlementInput{
			GroupID: f.group.ID, ToUserID: f.bob.ID, Amount: 100,
		})
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("expected ErrInvalid, got %v", err)
		}
	})

	t.Run("cannot overpay outstanding debt", func(t *testing.T) {
		_, err := f.svc.CreateSettlement(ctx, f.bob.ID, SettlementInput{
			GroupID: f.group.ID, ToUserID: f.alice.ID, Amount: 20000,
		})
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("expected ErrInvalid, got %v", err)
		}
	})

	t.Run("settling the debt zeroes balances", func(t *testing.T) {
		settlement, err := f.svc.CreateSettlement(ctx, f.bob.ID, SettlementInput{
			GroupID: f.group.ID, ToUserID: f.alice.ID, Amount: 15000, Notes: "UPI",
		})
		if err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}
		if settlement.Status != models.SettlementCompleted {
			t.Errorf("status = %s, want completed", settlement.Status)
		}

		balances, err := f.svc.GetGroupBalances(ctx, f.alice.ID, f.group.ID, "")
		if err != nil {
			t.Fatalf("GetGroupBalances failed: %v", err)
		}
		for _, b := range balances {
			if b.NetBalance != 0 {
				t.Errorf("%s net balance = %d, want 0", b.UserName, b.NetBalance)
			}
		}
	})

	t.Run("replay rejected", func(t *testing.T) {
		_, err := f.svc.CreateSettlement(ctx, f.bob.ID, SettlementInput{
			GroupID: f.group.ID, ToUserID: f.alice.ID, Amount: 15000,
		})
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("expected ErrInvalid on repeated settlement, got %v", err)
		}
	})

	t.Run("only payer deletes", func(t *testing.T) {
		settlements, err := f.svc.ListSettlements(ctx, f.alice.ID, f.group.ID)
		if err != nil {
			t.Fatalf("ListSettlements failed: %v", err)
		}
		if len(settlements) != 1 {
			t.Fatalf("got %d settlements, want 1", len(settlements))
		}
		id := settlements[0].ID

		if err := f.svc.DeleteSettlement(ctx, f.alice.ID, id); !errors.Is(err, ErrForbidden) {
			t.Errorf("recipient delete: expected ErrForbidden, got %v", err)
		}
		if err := f.svc.DeleteSettlement(ctx, f.bob.ID, id); err != nil {
			t.Fatalf("payer delete failed: %v", err)
		}
	})
}

func TestExpenseService_Balances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.dinner(t)

	t.Run("member sees full ledger", func(t *testing.T) {
		balances, err := f.svc.GetGroupBalances(ctx, f.bob.ID, f.group.ID, "")
		if err != nil {
			t.Fatalf("GetGroupBalances failed: %v", err)
		}
		byUser := make(map[string]models.UserBalance, len(balances))
		for _, b := range balances {
			byUser[b.UserID] = b
		}
		if got := byUser[f.bob.ID]; got.YouOwe != 15000 || got.NetBalance != -15000 {
			t.Errorf("bob balance = %+v, want owes 15000", got)
		}
		if got := byUser[f.alice.ID]; got.YouAreOwed != 15000 || got.NetBalance != 15000 {
			t.Errorf("alice balance = %+v, want owed 15000", got)
		}
	})

	t.Run("single-user filter", func(t *testing.T) {
		balances, err := f.svc.GetGroupBalances(ctx, f.alice.ID, f.group.ID, f.bob.ID)
		if err != nil {
			t.Fatalf("GetGroupBalances failed: %v", err)
		}
		if len(balances) != 1 || balances[0].UserID != f.bob.ID {
			t.Fatalf("got %+v, want only bob", balances)
		}

		balances, err = f.svc.GetGroupBalances(ctx, f.alice.ID, f.group.ID, "ghost")
		if err != nil {
			t.Fatalf("GetGroupBalances failed: %v", err)
		}
		if balances != nil {
			t.Errorf("unknown target should yield nil, got %+v", balances)
		}
	})

	t.Run("non-member forbidden", func(t *testing.T) {
		eve := seedUser(t, f.store, "eve@univ.edu", "Eve")
		if _, err := f.svc.GetGroupBalances(ctx, eve.ID, f.group.ID, ""); !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("suggestions pay off the ledger", func(t *testing.T) {
		transfers, err := f.svc.SuggestSettlements(ctx, f.alice.ID, f.group.ID)
		if err != nil {
			t.Fatalf("SuggestSettlements failed: %v", err)
		}
		if len(transfers) != 1 {
			t.Fatalf("got %d transfers, want 1", len(transfers))
		}
		tr := transfers[0]
		if tr.FromUserID != f.bob.ID || tr.ToUserID != f.alice.ID || tr.Amount != 15000 {
			t.Errorf("unexpected transfer: %+v", tr)
		}
	})
}

func TestExpenseService_GetClassmates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("same cohort returned", func(t *testing.T) {
		classmates := f.svc.GetClassmates(ctx, f.alice.ID)
		if len(classmates) != 1 || classmates[0].ID != f.bob.ID {
			t.Errorf("got %d classmates, want just Bob", len(classmates))
		}
	})

	t.Run("unknown user yields empty list", func(t *testing.T) {
		classmates := f.svc.GetClassmates(ctx, "missing")
		if classmates == nil || len(classmates) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", classmates)
		}
	})
}
