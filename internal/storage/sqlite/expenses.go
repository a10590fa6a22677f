package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eduvision/expenses/internal/models"
	"github.com/eduvision/expenses/internal/storage"
)

const expenseColumns = "id, group_id, description, amount, paid_by, paid_by_name, split_type, notes, created_at, updated_at"

// CreateExpense persists an expense and its participant rows in a single
// transaction, so a failure can never leave an expense without shares.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	expense.UpdatedAt = expense.CreatedAt

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var groupID interface{}
	if expense.GroupID != "" {
		groupID = expense.GroupID
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses ("+expenseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		expense.ID, groupID, expense.Description, expense.Amount,
		expense.PaidBy, expense.PaidByName, string(expense.SplitType), expense.Notes,
		expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertParticipants(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateExpense rewrites the expense row and replaces all of its participant
// rows in one transaction.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses
		 SET description = ?, amount = ?, split_type = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		expense.Description, expense.Amount, string(expense.SplitType), expense.Notes,
		expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_participants WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to delete old participants: %w", err)
	}
	if err := insertParticipants(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertParticipants(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i := range expense.Participants {
		p := &expense.Participants[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		p.ExpenseID = expense.ID
		if p.CreatedAt == 0 {
			p.CreatedAt = expense.UpdatedAt
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expense_participants (id, expense_id, user_id, user_email, user_name, amount_owed, is_settled, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.ExpenseID, p.UserID, p.UserEmail, p.UserName, p.AmountOwed, p.IsSettled, p.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense by ID, including its participants.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var groupID sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?", expenseID,
	).Scan(&expense.ID, &groupID, &expense.Description, &expense.Amount,
		&expense.PaidBy, &expense.PaidByName, &expense.SplitType, &expense.Notes,
		&expense.CreatedAt, &expense.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	expense.GroupID = groupID.String

	if err := s.loadParticipants(ctx, []*models.Expense{expense}); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpensesByGroup retrieves all expenses of a group with their
// participants, newest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE group_id = ? ORDER BY created_at DESC",
		groupID,
	)
}

// ListExpensesByUser retrieves all expenses where the user is the payer or a
// participant, newest first.
func (s *SQLiteStore) ListExpensesByUser(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		`SELECT DISTINCT e.id, e.group_id, e.description, e.amount, e.paid_by, e.paid_by_name, e.split_type, e.notes, e.created_at, e.updated_at
		 FROM expenses e
		 LEFT JOIN expense_participants p ON p.expense_id = e.id
		 WHERE e.paid_by = ? OR p.user_id = ?
		 ORDER BY e.created_at DESC`,
		userID, userID,
	)
}

func (s *SQLiteStore) listExpenses(ctx context.Context, query string, args ...interface{}) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var groupID sql.NullString
		if err := rows.Scan(&expense.ID, &groupID, &expense.Description, &expense.Amount,
			&expense.PaidBy, &expense.PaidByName, &expense.SplitType, &expense.Notes,
			&expense.CreatedAt, &expense.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.GroupID = groupID.String
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if err := s.loadParticipants(ctx, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// loadParticipants populates Participants for each expense.
func (s *SQLiteStore) loadParticipants(ctx context.Context, expenses []*models.Expense) error {
	for _, expense := range expenses {
		rows, err := s.db.QueryContext(ctx,
			`SELECT id, expense_id, user_id, user_email, user_name, amount_owed, is_settled, created_at
			 FROM expense_participants WHERE expense_id = ? ORDER BY created_at, user_id`,
			expense.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to get participants: %w", err)
		}
		for rows.Next() {
			var p models.ExpenseParticipant
			if err := rows.Scan(&p.ID, &p.ExpenseID, &p.UserID, &p.UserEmail, &p.UserName,
				&p.AmountOwed, &p.IsSettled, &p.CreatedAt); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan participant: %w", err)
			}
			expense.Participants = append(expense.Participants, p)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("failed to iterate participants: %w", err)
		}
		rows.Close()
	}
	return nil
}

// DeleteExpense removes an expense; its participants cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}
