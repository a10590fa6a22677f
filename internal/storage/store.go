// Package storage provides abstractions for persistent ledger data.
package storage

import (
	"context"
	"errors"

	"github.com/eduvision/expenses/internal/models"
)

// ErrNotFound is returned (wrapped with context) when a requested row does
// not exist.
var ErrNotFound = errors.New("not found")

// Store defines the ledger persistence operations. The abstraction allows
// swapping storage backends (SQLite, PostgreSQL, etc.) without changing the
// service layer.
//
// Lookup methods that can legitimately miss (GetUserByEmail, GetMember)
// return (nil, nil) when the row is absent; every other Get returns an error
// wrapping ErrNotFound.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	// ListClassmates returns users in the same department and year,
	// excluding the given user.
	ListClassmates(ctx context.Context, department string, year int, excludeUserID string) ([]*models.User, error)

	// Groups. CreateGroup inserts the group and its creator as an admin
	// member in one transaction.
	CreateGroup(ctx context.Context, group *models.Group, creator *models.User) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)
	UpdateGroup(ctx context.Context, group *models.Group) error
	DeleteGroup(ctx context.Context, groupID string) error

	// Members
	ListMembers(ctx context.Context, groupID string) ([]*models.GroupMember, error)
	GetMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error)
	AddMember(ctx context.Context, member *models.GroupMember) error
	SetMemberAdmin(ctx context.Context, groupID, userID string, isAdmin bool) (*models.GroupMember, error)
	RemoveMember(ctx context.Context, groupID, userID string) error
	CountAdmins(ctx context.Context, groupID string) (int, error)

	// Expenses. CreateExpense and UpdateExpense write the expense row and
	// its participant rows in one transaction; update replaces all shares.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)
	// ListExpensesByUser returns expenses where the user is payer or
	// participant, newest first.
	ListExpensesByUser(ctx context.Context, userID string) ([]*models.Expense, error)
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error

	// Settlements
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)
	DeleteSettlement(ctx context.Context, settlementID string) error

	// Close releases any resources held by the store.
	Close() error
}
