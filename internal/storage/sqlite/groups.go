package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eduvision/expenses/internal/models"
	"github.com/eduvision/expenses/internal/storage"
)

const groupColumns = "id, name, description, created_by, is_public, department, target_years, created_at, updated_at"

// CreateGroup persists a new group and its creator as an admin member in a
// single transaction, so no group ever exists without an admin.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group, creator *models.User) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if group.CreatedAt == 0 {
		group.CreatedAt = now
	}
	group.UpdatedAt = group.CreatedAt
	group.CreatedBy = creator.ID

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expense_groups ("+groupColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		group.ID, group.Name, group.Description, group.CreatedBy,
		group.IsPublic, group.Department, joinYears(group.TargetYears),
		group.CreatedAt, group.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	member := models.GroupMember{
		ID:        uuid.New().String(),
		GroupID:   group.ID,
		UserID:    creator.ID,
		UserEmail: creator.Email,
		UserName:  creator.Name,
		IsAdmin:   true,
		CreatedAt: now,
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO expense_group_members (id, group_id, user_id, user_email, user_name, is_admin, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		member.ID, member.GroupID, member.UserID, member.UserEmail, member.UserName, member.IsAdmin, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert creator member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	group.Members = []models.GroupMember{member}
	return nil
}

// GetGroup retrieves a group by ID, including its members.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	var targetYears string
	err := s.db.QueryRowContext(ctx,
		"SELECT "+groupColumns+" FROM expense_groups WHERE id = ?", groupID,
	).Scan(&group.ID, &group.Name, &group.Description, &group.CreatedBy,
		&group.IsPublic, &group.Department, &targetYears, &group.CreatedAt, &group.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	group.TargetYears = splitYears(targetYears)

	members, err := s.ListMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		group.Members = append(group.Members, *m)
	}
	return group, nil
}

// ListGroupsByUser retrieves all groups the user is a member of, newest first.
func (s *SQLiteStore) ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.description, g.created_by, g.is_public, g.department, g.target_years, g.created_at, g.updated_at
		 FROM expense_groups g
		 JOIN expense_group_members m ON m.group_id = g.id
		 WHERE m.user_id = ?
		 ORDER BY g.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups by user: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		var targetYears string
		if err := rows.Scan(&group.ID, &group.Name, &group.Description, &group.CreatedBy,
			&group.IsPublic, &group.Department, &targetYears, &group.CreatedAt, &group.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		group.TargetYears = splitYears(targetYears)
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// UpdateGroup updates a group's mutable fields.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.Group) error {
	group.UpdatedAt = time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		`UPDATE expense_groups
		 SET name = ?, description = ?, is_public = ?, department = ?, target_years = ?, updated_at = ?
		 WHERE id = ?`,
		group.Name, group.Description, group.IsPublic, group.Department,
		joinYears(group.TargetYears), group.UpdatedAt, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("group %s: %w", group.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteGroup removes a group; members, expenses and settlements cascade.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expense_groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	return nil
}

// joinYears encodes target years as a comma-separated string for storage.
func joinYears(years []int) string {
	if len(years) == 0 {
		return ""
	}
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ",")
}

func splitYears(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	years := make([]int, 0, len(parts))
	for _, p := range parts {
		y, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		years = append(years, y)
	}
	return years
}
