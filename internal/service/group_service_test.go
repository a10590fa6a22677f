package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/eduvision/expenses/internal/models"
	"github.com/eduvision/expenses/internal/storage"
	"github.com/eduvision/expenses/internal/storage/sqlite"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedUser(t *testing.T, store storage.Store, email, name string) *models.User {
	t.Helper()
	user := models.NewUser(email, name, "x", "CSE", 3)
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", email, err)
	}
	return user
}

func TestGroupService_CreateAndGet(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	alice := seedUser(t, store, "alice@univ.edu", "Alice")
	mallory := seedUser(t, store, "mallory@univ.edu", "Mallory")

	group, err := svc.CreateGroup(ctx, alice.ID, GroupInput{Name: "Goa Trip"})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if group.CreatedBy != alice.ID {
		t.Errorf("created_by = %s, want %s", group.CreatedBy, alice.ID)
	}

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := svc.CreateGroup(ctx, alice.ID, GroupInput{})
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("expected ErrInvalid, got %v", err)
		}
	})

	t.Run("member can read", func(t *testing.T) {
		got, err := svc.GetGroup(ctx, alice.ID, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != "Goa Trip" {
			t.Errorf("name = %s, want Goa Trip", got.Name)
		}
	})

	t.Run("non-member forbidden", func(t *testing.T) {
		if _, err := svc.GetGroup(ctx, mallory.ID, group.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("unknown group reads as forbidden", func(t *testing.T) {
		if _, err := svc.GetGroup(ctx, alice.ID, "missing"); !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("delete on unknown group not found", func(t *testing.T) {
		if err := svc.DeleteGroup(ctx, alice.ID, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestGroupService_UpdateDelete(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	alice := seedUser(t, store, "alice@univ.edu", "Alice")
	bob := seedUser(t, store, "bob@univ.edu", "Bob")

	group, err := svc.CreateGroup(ctx, alice.ID, GroupInput{Name: "Hostel"})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if _, err := svc.AddMember(ctx, alice.ID, group.ID, bob.Email, true); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	t.Run("admin can update", func(t *testing.T) {
		got, err := svc.UpdateGroup(ctx, bob.ID, group.ID, GroupInput{Name: "Hostel 7"})
		if err != nil {
			t.Fatalf("UpdateGroup failed: %v", err)
		}
		if got.Name != "Hostel 7" {
			t.Errorf("name = %s, want Hostel 7", got.Name)
		}
	})

	t.Run("only creator can delete", func(t *testing.T) {
		if err := svc.DeleteGroup(ctx, bob.ID, group.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("admin but not creator: expected ErrForbidden, got %v", err)
		}
		if err := svc.DeleteGroup(ctx, alice.ID, group.ID); err != nil {
			t.Fatalf("creator delete failed: %v", err)
		}
		if err := svc.DeleteGroup(ctx, alice.ID, group.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestGroupService_Members(t *testing.T) {
	store := newTestStore(t)
	svc := NewGroupService(store)
	ctx := context.Background()

	alice := seedUser(t, store, "alice@univ.edu", "Alice")
	bob := seedUser(t, store, "bob@univ.edu", "Bob")
	carol := seedUser(t, store, "carol@univ.edu", "Carol")

	group, err := svc.CreateGroup(ctx, alice.ID, GroupInput{Name: "Mess Bill"})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("admin adds member by email", func(t *testing.T) {
		member, err := svc.AddMember(ctx, alice.ID, group.ID, bob.Email, false)
		if err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		if member.UserID != bob.ID || member.IsAdmin {
			t.Errorf("unexpected member: %+v", member)
		}
	})

	t.Run("non-admin cannot add", func(t *testing.T) {
		if _, err := svc.AddMember(ctx, bob.ID, group.ID, carol.Email, false); !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("unknown email not found", func(t *testing.T) {
		if _, err := svc.AddMember(ctx, alice.ID, group.ID, "ghost@univ.edu", false); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("duplicate member invalid", func(t *testing.T) {
		if _, err := svc.AddMember(ctx, alice.ID, group.ID, bob.Email, false); !errors.Is(err, ErrInvalid) {
			t.Errorf("expected ErrInvalid, got %v", err)
		}
	})

	t.Run("last admin cannot demote self", func(t *testing.T) {
		if _, err := svc.SetMemberAdmin(ctx, alice.ID, group.ID, alice.ID, false); !errors.Is(err, ErrInvalid) {
			t.Errorf("expected ErrInvalid, got %v", err)
		}
	})

	t.Run("promote then demote", func(t *testing.T) {
		member, err := svc.SetMemberAdmin(ctx, alice.ID, group.ID, bob.ID, true)
		if err != nil {
			t.Fatalf("promote failed: %v", err)
		}
		if !member.IsAdmin {
			t.Error("bob should be admin")
		}
		member, err = svc.SetMemberAdmin(ctx, alice.ID, group.ID, bob.ID, false)
		if err != nil {
			t.Fatalf("demote failed: %v", err)
		}
		if member.IsAdmin {
			t.Error("bob should no longer be admin")
		}
	})

	t.Run("member can leave", func(t *testing.T) {
		if err := svc.RemoveMember(ctx, bob.ID, group.ID, bob.ID); err != nil {
			t.Fatalf("self-removal failed: %v", err)
		}
	})

	t.Run("last admin cannot leave", func(t *testing.T) {
		if err := svc.RemoveMember(ctx, alice.ID, group.ID, alice.ID); !errors.Is(err, ErrInvalid) {
			t.Errorf("expected ErrInvalid, got %v", err)
		}
	})

	t.Run("non-admin cannot remove others", func(t *testing.T) {
		member, err := svc.AddMember(ctx, alice.ID, group.ID, carol.Email, false)
		if err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		bobAgain, err := svc.AddMember(ctx, alice.ID, group.ID, bob.Email, false)
		if err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		if err := svc.RemoveMember(ctx, member.UserID, group.ID, bobAgain.UserID); !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("list shows admins first", func(t *testing.T) {
		members, err := svc.ListMembers(ctx, alice.ID, group.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 3 {
			t.Fatalf("got %d members, want 3", len(members))
		}
		if members[0].UserID != alice.ID {
			t.Errorf("admin should sort first, got %s", members[0].UserName)
		}
	})
}
