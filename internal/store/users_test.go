package store

import (
	"context"
	"testing"
	"time"

	"github.com/tn02103/uniformAdministrationApp-sub001/internal/db"
	"github.com/tn02103/uniformAdministrationApp-sub001/internal/model"
)

func newTestOrganisation(t *testing.T, q db.Querier) *model.Organisation {
	t.Helper()
	org, err := CreateOrganisation(context.Background(), q, "Test Organisation", "TO")
	if err != nil {
		t.Fatalf("CreateOrganisation: %v", err)
	}
	return org
}

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	org := newTestOrganisation(t, database)

	user, err := CreateUser(ctx, database, org.ID, "testuser", "Test User", "hash123", model.RoleUser)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Username != "testuser" {
		t.Errorf("expected username 'testuser', got %q", user.Username)
	}
	if user.Role != model.RoleUser {
		t.Errorf("expected role 'user', got %q", user.Role)
	}
	if user.OrganisationID != org.ID {
		t.Errorf("expected organisation %s, got %s", org.ID, user.OrganisationID)
	}

	got, err := GetUser(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Name != "Test User" {
		t.Errorf("expected name 'Test User', got %q", got.Name)
	}
}

func TestGetUserByUsernameSkipsDeleted(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	org := newTestOrganisation(t, database)

	alice, _ := CreateUser(ctx, database, org.ID, "alice", "Alice", "hash", model.RoleAdmin)

	got, err := GetUserByUsername(ctx, database, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if got == nil || got.ID != alice.ID {
		t.Fatalf("expected alice, got %+v", got)
	}

	if err := DeleteUser(ctx, database, org.ID, alice.ID, time.Now()); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	got, err = GetUserByUsername(ctx, database, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if got != nil {
		t.Error("expected deleted user to be hidden")
	}

	// The username can be reused after soft deletion.
	if _, err := CreateUser(ctx, database, org.ID, "alice", "Alice 2", "hash", model.RoleUser); err != nil {
		t.Fatalf("recreating alice: %v", err)
	}
}

func TestDuplicateUsernameFails(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	org := newTestOrganisation(t, database)

	CreateUser(ctx, database, org.ID, "bob", "Bob", "hash", model.RoleUser)
	_, err := CreateUser(ctx, database, org.ID, "bob", "Bob", "hash", model.RoleUser)
	if err == nil {
		t.Fatal("expected error for duplicate username")
	}
	if !db.IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestUpdateUserRoleAndList(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	org := newTestOrganisation(t, database)

	u, _ := CreateUser(ctx, database, org.ID, "carol", "Carol", "hash", model.RoleUser)
	if err := UpdateUserRole(ctx, database, org.ID, u.ID, model.RoleInspector); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}

	users, err := ListUsers(ctx, database, org.ID)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 1 || users[0].Role != model.RoleInspector {
		t.Errorf("expected one inspector, got %+v", users)
	}
}
