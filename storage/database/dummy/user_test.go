package dummydb

import (
	"context"
	"testing"
	"time"

	"github.com/eduverse/lms/core/user"
)

func newUser(t *testing.T, repo user.Repository, id, first, last, email string, role user.Role, isActive bool, createdAt time.Time) user.User {
	t.Helper()

	usr, err := repo.CreateUser(context.Background(), user.User{
		ID:        id,
		FirstName: first,
		LastName:  last,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: createdAt.UTC(),
	})
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

func TestUserRepository_CheckEmailUniqueness(t *testing.T) {
	db, _ := Open()
	repo := NewUserRepository(db)
	ctx := context.Background()
	now := time.Now()

	taken := newUser(t, repo, "1", "Jane", "Doe", "jane@test.cd", user.RoleTeacher, true, now)

	if err := repo.CheckEmailUniqueness(ctx, "free@test.cd"); err != nil {
		t.Errorf("CheckEmailUniqueness(free) error = %v", err)
	}
	if err := repo.CheckEmailUniqueness(ctx, "jane@test.cd"); err != user.ErrEmailExists {
		t.Errorf("CheckEmailUniqueness(taken) error = %v, want ErrEmailExists", err)
	}
	// the owner can keep their own email
	if err := repo.CheckEmailUniqueness(ctx, "jane@test.cd", taken); err != nil {
		t.Errorf("CheckEmailUniqueness(taken, excluded) error = %v", err)
	}
}

func TestUserRepository_GetUserByEmail(t *testing.T) {
	db, _ := Open()
	repo := NewUserRepository(db)
	ctx := context.Background()

	newUser(t, repo, "1", "Jane", "Doe", "jane@test.cd", user.RoleTeacher, true, time.Now())

	usr, err := repo.GetUserByEmail(ctx, "JANE@test.CD")
	if err != nil {
		t.Fatalf("GetUserByEmail(): %v", err)
	}
	if usr.ID != "1" {
		t.Errorf("ID = %v, want 1", usr.ID)
	}

	if _, err = repo.GetUserByEmail(ctx, "lol@test.cd"); err != user.ErrNotFound {
		t.Errorf("GetUserByEmail(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestUserRepository_FilterUsers(t *testing.T) {
	db, _ := Open()
	repo := NewUserRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	newUser(t, repo, "1", "Jane", "Mwamba", "jane@test.cd", user.RoleTeacher, true, now.Add(-48*time.Hour))
	newUser(t, repo, "2", "John", "Kabila", "john@test.cd", user.RoleStudent, true, now.Add(-24*time.Hour))
	newUser(t, repo, "3", "Grace", "Banda", "grace@test.cd", user.RoleStudent, false, now)

	active := true
	inactive := false

	tests := []struct {
		name    string
		filter  user.QueryFilter
		wantIDs []string
	}{
		{name: "no filter", filter: user.QueryFilter{}, wantIDs: []string{"1", "2", "3"}},
		{name: "search name", filter: user.QueryFilter{Search: "mwamba"}, wantIDs: []string{"1"}},
		{name: "search email", filter: user.QueryFilter{Search: "grace@"}, wantIDs: []string{"3"}},
		{name: "search no match", filter: user.QueryFilter{Search: "lol"}},
		{name: "single role", filter: user.QueryFilter{Roles: []user.Role{user.RoleStudent}}, wantIDs: []string{"2", "3"}},
		{name: "multiple roles", filter: user.QueryFilter{Roles: []user.Role{user.RoleTeacher, user.RoleStudent}}, wantIDs: []string{"1", "2", "3"}},
		{name: "active only", filter: user.QueryFilter{IsActive: &active}, wantIDs: []string{"1", "2"}},
		{name: "inactive only", filter: user.QueryFilter{IsActive: &inactive}, wantIDs: []string{"3"}},
		{name: "created from", filter: user.QueryFilter{CreatedFrom: now.Add(-24 * time.Hour)}, wantIDs: []string{"2", "3"}},
		{name: "created to", filter: user.QueryFilter{CreatedTo: now.Add(-24 * time.Hour)}, wantIDs: []string{"1", "2"}},
		{name: "combined", filter: user.QueryFilter{Search: "test.cd", Roles: []user.Role{user.RoleStudent}, IsActive: &active}, wantIDs: []string{"2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := repo.FilterUsers(ctx, tt.filter)
			if err != nil {
				t.Fatalf("FilterUsers(): %v", err)
			}
			gotIDs := make(map[string]bool, len(users))
			for _, u := range users {
				gotIDs[u.ID] = true
			}
			if len(users) != len(tt.wantIDs) {
				t.Fatalf("FilterUsers() returned %d users, want %d", len(users), len(tt.wantIDs))
			}
			for _, id := range tt.wantIDs {
				if !gotIDs[id] {
					t.Errorf("FilterUsers() missing user %s", id)
				}
			}
		})
	}
}

func TestUserRepository_UpdateUser(t *testing.T) {
	db, _ := Open()
	repo := NewUserRepository(db)
	ctx := context.Background()

	created := newUser(t, repo, "1", "Jane", "Mwamba", "jane@test.cd", user.RoleTeacher, true, time.Now())

	if _, err := repo.UpdateUser(ctx, user.User{ID: "lol"}, nil); err != user.ErrNotFound {
		t.Errorf("UpdateUser(unknown) error = %v, want ErrNotFound", err)
	}

	// only set fields are written
	inactive := false
	updated, err := repo.UpdateUser(ctx, user.User{ID: "1", FirstName: "Janet"}, &inactive)
	if err != nil {
		t.Fatalf("UpdateUser(): %v", err)
	}
	if updated.FirstName != "Janet" {
		t.Errorf("FirstName = %v, want Janet", updated.FirstName)
	}
	if updated.LastName != created.LastName || updated.Email != created.Email || updated.Role != created.Role {
		t.Errorf("unset fields changed: %+v", updated)
	}
	if updated.IsActive {
		t.Error("IsActive should be false")
	}
}

func TestUserRepository_DeleteUsersByID(t *testing.T) {
	db, _ := Open()
	repo := NewUserRepository(db)
	ctx := context.Background()

	newUser(t, repo, "1", "Jane", "Mwamba", "jane@test.cd", user.RoleTeacher, true, time.Now())
	newUser(t, repo, "2", "John", "Kabila", "john@test.cd", user.RoleStudent, true, time.Now())

	if err := repo.DeleteUsersByID(ctx, "1", "lol"); err != nil {
		t.Fatalf("DeleteUsersByID(): %v", err)
	}
	if _, err := repo.GetUserByID(ctx, "1"); err != user.ErrNotFound {
		t.Errorf("GetUserByID(deleted) error = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetUserByID(ctx, "2"); err != nil {
		t.Errorf("GetUserByID(kept) error = %v", err)
	}
}
