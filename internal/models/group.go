package models

// Group represents a named collection of users sharing expenses.
//
// The creator is always inserted as an admin member in the same transaction
// that creates the group, so every group has at least one admin for its
// lifetime. Deleting a group cascades to members, expenses and settlements.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Goa Trip", "Hostel 4 Mess").
	Name string `json:"name"`

	// Description is an optional free-form description.
	Description string `json:"description"`

	// CreatedBy is the user ID of the group's creator.
	// Only the creator may delete the group.
	CreatedBy string `json:"created_by"`

	// IsPublic marks the group as discoverable by non-members.
	IsPublic bool `json:"is_public"`

	// Department optionally scopes the group to one department.
	Department string `json:"department,omitempty"`

	// TargetYears optionally scopes the group to specific years of study.
	TargetYears []int `json:"target_years,omitempty"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp of the last modification.
	UpdatedAt int64 `json:"updated_at"`

	// Members is populated on single-group reads.
	Members []GroupMember `json:"members,omitempty"`
}

// GroupMember is a (group, user) pair with an admin flag.
// A user belongs to a group at most once.
type GroupMember struct {
	ID      string `json:"id"`
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`

	// UserEmail and UserName are denormalized display fields, captured
	// at join time so member lists render without a user join.
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`

	IsAdmin   bool  `json:"is_admin"`
	CreatedAt int64 `json:"created_at"`
}
