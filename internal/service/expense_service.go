package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eduvision/expenses/internal/ledger"
	"github.com/eduvision/expenses/internal/models"
	"github.com/eduvision/expenses/internal/storage"
)

// ExpenseService orchestrates expenses, settlements and balance reads.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// ShareInput names one participant of an expense. Value is interpreted per
// split type (see ledger.ComputeShares); it is ignored for EQUAL splits.
type ShareInput struct {
	UserID string
	Value  int64
}

// ExpenseInput carries everything needed to record an expense.
type ExpenseInput struct {
	GroupID     string
	Description string
	Amount      int64
	SplitType   models.SplitType
	Notes       string
	Shares      []ShareInput
}

// SettlementInput carries everything needed to record a settlement.
type SettlementInput struct {
	GroupID  string
	ToUserID string
	Amount   int64
	Status   models.SettlementStatus
	Notes    string
}

// GetExpenses returns all expenses where the user is payer or participant,
// newest first.
func (s *ExpenseService) GetExpenses(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.store.ListExpensesByUser(ctx, userID)
}

// ListGroupExpenses returns a group's expenses. The caller must be a member.
func (s *ExpenseService) ListGroupExpenses(ctx context.Context, userID, groupID string) ([]*models.Expense, error) {
	if err := requireMember(ctx, s.store, groupID, userID); err != nil {
		return nil, err
	}
	return s.store.ListExpensesByGroup(ctx, groupID)
}

// GetExpense returns one expense with its shares. For group expenses the
// caller must be a member; for personal expenses, the payer or a participant.
func (s *ExpenseService) GetExpense(ctx context.Context, userID, expenseID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if expense.GroupID != "" {
		if err := requireMember(ctx, s.store, expense.GroupID, userID); err != nil {
			return nil, err
		}
		return expense, nil
	}
	if expense.PaidBy == userID {
		return expense, nil
	}
	for _, p := range expense.Participants {
		if p.UserID == userID {
			return expense, nil
		}
	}
	return nil, fmt.Errorf("%w: not a participant of this expense", ErrForbidden)
}

// CreateExpense records an expense paid by userID, splitting it among the
// given shares. Participant amounts are derived from the split type and by
// construction sum to the expense amount.
func (s *ExpenseService) CreateExpense(ctx context.Context, userID string, input ExpenseInput) (*models.Expense, error) {
	if input.SplitType == "" {
		input.SplitType = models.SplitEqual
	}
	if err := s.validateExpenseInput(input); err != nil {
		return nil, err
	}

	payer, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if payer == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	participants, err := s.buildParticipants(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:      input.GroupID,
		Description:  input.Description,
		Amount:       input.Amount,
		PaidBy:       payer.ID,
		PaidByName:   payer.Name,
		SplitType:    input.SplitType,
		Notes:        input.Notes,
		Participants: participants,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "user_id", userID, "group_id", input.GroupID, "error", err)
		return nil, err
	}

	slog.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"amount", expense.Amount,
		"split_type", expense.SplitType,
		"participants", len(expense.Participants),
	)
	return expense, nil
}

// UpdateExpense replaces an expense's fields and shares and recomputes the
// split. Only the payer may update an expense; the group cannot change.
func (s *ExpenseService) UpdateExpense(ctx context.Context, userID, expenseID string, input ExpenseInput) (*models.Expense, error) {
	existing, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if existing.PaidBy != userID {
		return nil, fmt.Errorf("%w: only the payer can update this expense", ErrForbidden)
	}

	input.GroupID = existing.GroupID
	if input.SplitType == "" {
		input.SplitType = existing.SplitType
	}
	if err := s.validateExpenseInput(input); err != nil {
		return nil, err
	}

	participants, err := s.buildParticipants(ctx, userID, input)
	if err != nil {
		return nil, err
	}

	existing.Description = input.Description
	existing.Amount = input.Amount
	existing.SplitType = input.SplitType
	existing.Notes = input.Notes
	existing.Participants = participants

	if err := s.store.UpdateExpense(ctx, existing); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expenseID, "error", err)
		return nil, mapStoreErr(err)
	}

	slog.Info("Expense updated", "expense_id", expenseID, "amount", existing.Amount)
	return existing, nil
}

// DeleteExpense removes an expense and its shares. Payer only.
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return mapStoreErr(err)
	}
	if expense.PaidBy != userID {
		return fmt.Errorf("%w: only the payer can delete this expense", ErrForbidden)
	}

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expenseID, "error", err)
		return mapStoreErr(err)
	}

	slog.Info("Expense deleted", "expense_id", expenseID, "user_id", userID)
	return nil
}

// ListSettlements returns a group's settlements, newest first.
// The caller must be a member.
func (s *ExpenseService) ListSettlements(ctx context.Context, userID, groupID string) ([]*models.Settlement, error) {
	if err := requireMember(ctx, s.store, groupID, userID); err != nil {
		return nil, err
	}
	return s.store.ListSettlementsByGroup(ctx, groupID)
}

// CreateSettlement records a repayment from userID to the counterparty.
// Both parties must be group members; a completed settlement must not exceed
// the payer's outstanding debt to the counterparty, which also prevents
// replaying the same settlement twice.
func (s *ExpenseService) CreateSettlement(ctx context.Context, userID string, input SettlementInput) (*models.Settlement, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: settlement amount must be positive", ErrInvalid)
	}
	if input.ToUserID == userID {
		return nil, fmt.Errorf("%w: cannot settle with yourself", ErrInvalid)
	}
	if input.Status == "" {
		input.Status = models.SettlementCompleted
	}
	if !input.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown settlement status %q", ErrInvalid, input.Status)
	}

	if err := requireMember(ctx, s.store, input.GroupID, userID); err != nil {
		return nil, err
	}
	counterparty, err := s.store.GetMember(ctx, input.GroupID, input.ToUserID)
	if err != nil {
		return nil, err
	}
	if counterparty == nil {
		return nil, fmt.Errorf("%w: recipient is not a member of this group", ErrForbidden)
	}

	if input.Status == models.SettlementCompleted {
		debt, err := s.outstandingDebt(ctx, input.GroupID, userID, input.ToUserID)
		if err != nil {
			return nil, err
		}
		if input.Amount > debt {
			return nil, fmt.Errorf("%w: settlement exceeds outstanding balance", ErrInvalid)
		}
	}

	settlement := &models.Settlement{
		GroupID:    input.GroupID,
		FromUserID: userID,
		ToUserID:   input.ToUserID,
		Amount:     input.Amount,
		Status:     input.Status,
		Notes:      input.Notes,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("CreateSettlement failed", "group_id", input.GroupID, "error", err)
		return nil, err
	}

	slog.Info("Settlement created",
		"settlement_id", settlement.ID,
		"group_id", settlement.GroupID,
		"from", settlement.FromUserID,
		"to", settlement.ToUserID,
		"amount", settlement.Amount,
		"status", settlement.Status,
	)
	return settlement, nil
}

// DeleteSettlement removes a settlement. Only the payer may delete it.
func (s *ExpenseService) DeleteSettlement(ctx context.Context, userID, settlementID string) error {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return mapStoreErr(err)
	}
	if settlement.FromUserID != userID {
		return fmt.Errorf("%w: only the payer can delete this settlement", ErrForbidden)
	}

	if err := s.store.DeleteSettlement(ctx, settlementID); err != nil {
		slog.Error("DeleteSettlement failed", "settlement_id", settlementID, "error", err)
		return mapStoreErr(err)
	}

	slog.Info("Settlement deleted", "settlement_id", settlementID, "user_id", userID)
	return nil
}

// GetGroupBalances computes every member's balance within a group. If
// targetUserID is non-empty only that user's record is returned (empty slice
// when the user has no record). The caller must be a member.
func (s *ExpenseService) GetGroupBalances(ctx context.Context, userID, groupID, targetUserID string) ([]models.UserBalance, error) {
	if err := requireMember(ctx, s.store, groupID, userID); err != nil {
		return nil, err
	}

	balances, err := s.computeBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if targetUserID == "" {
		return balances, nil
	}
	for _, b := range balances {
		if b.UserID == targetUserID {
			return []models.UserBalance{b}, nil
		}
	}
	return nil, nil
}

// SuggestSettlements proposes the transfers that would zero out a group's
// balances. The caller must be a member.
func (s *ExpenseService) SuggestSettlements(ctx context.Context, userID, groupID string) ([]models.SuggestedTransfer, error) {
	if err := requireMember(ctx, s.store, groupID, userID); err != nil {
		return nil, err
	}
	balances, err := s.computeBalances(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return ledger.SuggestTransfers(balances), nil
}

// GetClassmates returns users in the caller's department and year. Lookup
// failures are logged and reported as an empty list; inviting classmates is
// a best-effort feature and must not fail the caller.
func (s *ExpenseService) GetClassmates(ctx context.Context, userID string) []*models.User {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil || user == nil {
		slog.Warn("GetClassmates: user lookup failed", "user_id", userID, "error", err)
		return []*models.User{}
	}

	classmates, err := s.store.ListClassmates(ctx, user.Department, user.Year, userID)
	if err != nil {
		slog.Warn("GetClassmates: listing failed", "user_id", userID, "error", err)
		return []*models.User{}
	}
	if classmates == nil {
		classmates = []*models.User{}
	}
	return classmates
}

func (s *ExpenseService) validateExpenseInput(input ExpenseInput) error {
	if input.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalid)
	}
	if input.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalid)
	}
	if !input.SplitType.Valid() {
		return fmt.Errorf("%w: unknown split type %q", ErrInvalid, input.SplitType)
	}
	if len(input.Shares) == 0 {
		return fmt.Errorf("%w: at least one share is required", ErrInvalid)
	}
	seen := make(map[string]bool, len(input.Shares))
	for _, share := range input.Shares {
		if share.UserID == "" {
			return fmt.Errorf("%w: share user ID is required", ErrInvalid)
		}
		if seen[share.UserID] {
			return fmt.Errorf("%w: duplicate share for user %s", ErrInvalid, share.UserID)
		}
		seen[share.UserID] = true
	}
	return nil
}

// buildParticipants resolves share users and derives their owed amounts.
// For group expenses the payer and every share user must be group members;
// personal expenses resolve share users directly.
func (s *ExpenseService) buildParticipants(ctx context.Context, payerID string, input ExpenseInput) ([]models.ExpenseParticipant, error) {
	inputs := make([]ledger.ShareInput, len(input.Shares))
	for i, share := range input.Shares {
		inputs[i] = ledger.ShareInput{UserID: share.UserID, Value: share.Value}
	}
	amounts, err := ledger.ComputeShares(input.SplitType, input.Amount, inputs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	participants := make([]models.ExpenseParticipant, len(input.Shares))
	if input.GroupID != "" {
		if err := requireMember(ctx, s.store, input.GroupID, payerID); err != nil {
			return nil, err
		}
		for i, share := range input.Shares {
			member, err := s.store.GetMember(ctx, input.GroupID, share.UserID)
			if err != nil {
				return nil, err
			}
			if member == nil {
				return nil, fmt.Errorf("%w: share user %s is not a member of this group", ErrInvalid, share.UserID)
			}
			participants[i] = models.ExpenseParticipant{
				UserID:     member.UserID,
				UserEmail:  member.UserEmail,
				UserName:   member.UserName,
				AmountOwed: amounts[i],
			}
		}
		return participants, nil
	}

	for i, share := range input.Shares {
		user, err := s.store.GetUserByID(ctx, share.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, fmt.Errorf("share user %s: %w", share.UserID, ErrNotFound)
		}
		participants[i] = models.ExpenseParticipant{
			UserID:     user.ID,
			UserEmail:  user.Email,
			UserName:   user.Name,
			AmountOwed: amounts[i],
		}
	}
	return participants, nil
}

// computeBalances assembles the ledger snapshot for a group and hands it to
// the balance engine.
func (s *ExpenseService) computeBalances(ctx context.Context, groupID string) ([]models.UserBalance, error) {
	memberRows, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	members := make([]ledger.Member, len(memberRows))
	for i, m := range memberRows {
		members[i] = ledger.Member{UserID: m.UserID, UserName: m.UserName}
	}

	expenseRows, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	expenses := make([]models.Expense, len(expenseRows))
	for i, e := range expenseRows {
		expenses[i] = *e
	}

	settlementRows, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	settlements := make([]models.Settlement, len(settlementRows))
	for i, st := range settlementRows {
		settlements[i] = *st
	}

	return ledger.ComputeBalances(members, expenses, settlements), nil
}

// outstandingDebt computes how much `from` still owes `to` within the group.
func (s *ExpenseService) outstandingDebt(ctx context.Context, groupID, from, to string) (int64, error) {
	expenseRows, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return 0, err
	}
	expenses := make([]models.Expense, len(expenseRows))
	for i, e := range expenseRows {
		expenses[i] = *e
	}

	settlementRows, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		return 0, err
	}
	settlements := make([]models.Settlement, len(settlementRows))
	for i, st := range settlementRows {
		settlements[i] = *st
	}

	return ledger.OutstandingDebt(expenses, settlements, from, to), nil
}
