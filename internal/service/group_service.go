package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/eduvision/expenses/internal/models"
	"github.com/eduvision/expenses/internal/storage"
)

// GroupService handles group lifecycle and membership management.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// GroupInput carries the mutable group fields.
type GroupInput struct {
	Name        string
	Description string
	IsPublic    bool
	Department  string
	TargetYears []int
}

// CreateGroup creates a group owned by userID, who becomes its admin member.
func (s *GroupService) CreateGroup(ctx context.Context, userID string, input GroupInput) (*models.Group, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrInvalid)
	}

	creator, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if creator == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}

	group := &models.Group{
		Name:        input.Name,
		Description: input.Description,
		IsPublic:    input.IsPublic,
		Department:  input.Department,
		TargetYears: input.TargetYears,
	}
	if err := s.store.CreateGroup(ctx, group, creator); err != nil {
		slog.Error("CreateGroup failed", "user_id", userID, "error", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "created_by", userID)
	return group, nil
}

// GetGroup retrieves a group with its members. The caller must be a member.
func (s *GroupService) GetGroup(ctx context.Context, userID, groupID string) (*models.Group, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.store.GetGroup(ctx, groupID)
}

// ListGroups retrieves all groups the user belongs to.
func (s *GroupService) ListGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListGroupsByUser(ctx, userID)
}

// UpdateGroup applies updates to a group. The caller must be an admin member.
func (s *GroupService) UpdateGroup(ctx context.Context, userID, groupID string, input GroupInput) (*models.Group, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrInvalid)
	}
	if err := s.requireAdmin(ctx, groupID, userID); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	group.Name = input.Name
	group.Description = input.Description
	group.IsPublic = input.IsPublic
	group.Department = input.Department
	group.TargetYears = input.TargetYears

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("UpdateGroup failed", "group_id", groupID, "error", err)
		return nil, mapStoreErr(err)
	}

	slog.Info("Group updated", "group_id", groupID, "user_id", userID)
	return group, nil
}

// DeleteGroup removes a group and everything under it.
// Only the original creator may delete a group.
func (s *GroupService) DeleteGroup(ctx context.Context, userID, groupID string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return mapStoreErr(err)
	}
	if group.CreatedBy != userID {
		return fmt.Errorf("%w: only the group creator can delete the group", ErrForbidden)
	}

	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", groupID, "error", err)
		return mapStoreErr(err)
	}

	slog.Info("Group deleted", "group_id", groupID, "user_id", userID)
	return nil
}

// ListMembers retrieves a group's members. The caller must be a member.
func (s *GroupService) ListMembers(ctx context.Context, userID, groupID string) ([]*models.GroupMember, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.store.ListMembers(ctx, groupID)
}

// AddMember adds a user to a group by email. The caller must be an admin.
func (s *GroupService) AddMember(ctx context.Context, userID, groupID, email string, isAdmin bool) (*models.GroupMember, error) {
	if err := s.requireAdmin(ctx, groupID, userID); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
	}

	existing, err := s.store.GetMember(ctx, groupID, user.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user is already a member of this group", ErrInvalid)
	}

	member := &models.GroupMember{
		GroupID:   groupID,
		UserID:    user.ID,
		UserEmail: user.Email,
		UserName:  user.Name,
		IsAdmin:   isAdmin,
	}
	if err := s.store.AddMember(ctx, member); err != nil {
		slog.Error("AddMember failed", "group_id", groupID, "email", email, "error", err)
		return nil, err
	}

	slog.Info("Member added", "group_id", groupID, "member_id", user.ID, "is_admin", isAdmin)
	return member, nil
}

// RemoveMember removes a member from a group. Admins may remove anyone;
// non-admins may only remove themselves. The last admin can never be removed.
func (s *GroupService) RemoveMember(ctx context.Context, userID, groupID, memberID string) error {
	caller, err := s.store.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	isSelfRemoval := userID == memberID
	if (caller == nil || !caller.IsAdmin) && !isSelfRemoval {
		return fmt.Errorf("%w: not authorized to remove members", ErrForbidden)
	}

	target, err := s.store.GetMember(ctx, groupID, memberID)
	if err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("member %s: %w", memberID, ErrNotFound)
	}
	if target.IsAdmin {
		if err := s.requireAnotherAdmin(ctx, groupID); err != nil {
			return err
		}
	}

	if err := s.store.RemoveMember(ctx, groupID, memberID); err != nil {
		slog.Error("RemoveMember failed", "group_id", groupID, "member_id", memberID, "error", err)
		return mapStoreErr(err)
	}

	slog.Info("Member removed", "group_id", groupID, "member_id", memberID, "by", userID)
	return nil
}

// SetMemberAdmin changes a member's admin flag. The caller must be an admin.
// Demoting the last admin is rejected.
func (s *GroupService) SetMemberAdmin(ctx context.Context, userID, groupID, memberID string, isAdmin bool) (*models.GroupMember, error) {
	if err := s.requireAdmin(ctx, groupID, userID); err != nil {
		return nil, err
	}

	target, err := s.store.GetMember(ctx, groupID, memberID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("member %s: %w", memberID, ErrNotFound)
	}
	if !isAdmin && target.IsAdmin {
		if err := s.requireAnotherAdmin(ctx, groupID); err != nil {
			return nil, err
		}
	}

	member, err := s.store.SetMemberAdmin(ctx, groupID, memberID, isAdmin)
	if err != nil {
		slog.Error("SetMemberAdmin failed", "group_id", groupID, "member_id", memberID, "error", err)
		return nil, mapStoreErr(err)
	}

	slog.Info("Member role updated", "group_id", groupID, "member_id", memberID, "is_admin", isAdmin)
	return member, nil
}

// requireMember returns ErrForbidden unless userID is a member of the group.
func (s *GroupService) requireMember(ctx context.Context, groupID, userID string) error {
	return requireMember(ctx, s.store, groupID, userID)
}

// requireAdmin returns ErrForbidden unless userID is an admin member.
func (s *GroupService) requireAdmin(ctx context.Context, groupID, userID string) error {
	member, err := s.store.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if member == nil || !member.IsAdmin {
		return fmt.Errorf("%w: admin access required", ErrForbidden)
	}
	return nil
}

// requireAnotherAdmin rejects operations that would leave the group without
// any admin.
func (s *GroupService) requireAnotherAdmin(ctx context.Context, groupID string) error {
	count, err := s.store.CountAdmins(ctx, groupID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return fmt.Errorf("%w: cannot remove the last admin of the group", ErrInvalid)
	}
	return nil
}

// requireMember is shared by the group and expense services.
func requireMember(ctx context.Context, store storage.Store, groupID, userID string) error {
	member, err := store.GetMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return fmt.Errorf("%w: not a member of this group", ErrForbidden)
	}
	return nil
}

// mapStoreErr translates storage sentinel errors into the service taxonomy.
func mapStoreErr(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
