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

const memberColumns = "id, group_id, user_id, user_email, user_name, is_admin, created_at"

// ListMembers retrieves all members of a group, admins first.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]*models.GroupMember, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM expense_group_members WHERE group_id = ? ORDER BY is_admin DESC, created_at",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.GroupMember
	for rows.Next() {
		m := &models.GroupMember{}
		if err := rows.Scan(&m.ID, &m.GroupID, &m.UserID, &m.UserEmail, &m.UserName, &m.IsAdmin, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// GetMember retrieves one (group, user) membership.
// Returns (nil, nil) when the user is not a member.
func (s *SQLiteStore) GetMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error) {
	m := &models.GroupMember{}
	err := s.db.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM expense_group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	).Scan(&m.ID, &m.GroupID, &m.UserID, &m.UserEmail, &m.UserName, &m.IsAdmin, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// AddMember inserts one membership row.
func (s *SQLiteStore) AddMember(ctx context.Context, member *models.GroupMember) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO expense_group_members ("+memberColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		member.ID, member.GroupID, member.UserID, member.UserEmail, member.UserName, member.IsAdmin, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// SetMemberAdmin updates a member's admin flag and returns the updated row.
func (s *SQLiteStore) SetMemberAdmin(ctx context.Context, groupID, userID string, isAdmin bool) (*models.GroupMember, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expense_group_members SET is_admin = ? WHERE group_id = ? AND user_id = ?",
		isAdmin, groupID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("member %s in group %s: %w", userID, groupID, storage.ErrNotFound)
	}
	return s.GetMember(ctx, groupID, userID)
}

// RemoveMember deletes one membership row.
func (s *SQLiteStore) RemoveMember(ctx context.Context, groupID, userID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM expense_group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("member %s in group %s: %w", userID, groupID, storage.ErrNotFound)
	}
	return nil
}

// CountAdmins returns the number of admin members in a group.
func (s *SQLiteStore) CountAdmins(ctx context.Context, groupID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM expense_group_members WHERE group_id = ? AND is_admin = 1",
		groupID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}
