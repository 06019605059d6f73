package session

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/eduverse/lms/core/user"
)

type failingBackend struct{}

func (failingBackend) Authenticate(context.Context, string, string) (user.User, error) {
	return user.User{}, user.ErrInvalidCredentials
}

func (failingBackend) Register(context.Context, user.Registration) (user.User, error) {
	return user.User{}, errors.New("backend down")
}

func newNavRecorder() (Navigator, *[]string) {
	var paths []string
	return NavigatorFunc(func(path string) { paths = append(paths, path) }), &paths
}

func TestStore_LoginLogout(t *testing.T) {
	nav, navigated := newNavRecorder()
	storage := NewMemoryStorage()
	store := NewStore(storage, nav, NewMockBackend(), nil)

	if _, ok := store.Current(); ok {
		t.Fatal("fresh store should have no session")
	}

	usr, err := store.Login(context.Background(), "jane@test.cd", "pwd")
	if err != nil {
		t.Fatalf("Login(): %v", err)
	}
	if usr.Role != user.RoleTeacher || usr.Code != "TECH123" {
		t.Errorf("mock login = %+v; want the fixed teacher profile", usr)
	}

	cur, ok := store.Current()
	if !ok || cur.Email != "jane@test.cd" {
		t.Errorf("Current() = %v, %v; want the logged-in user", cur, ok)
	}

	// exactly one navigation per mutation, to the role landing route
	if len(*navigated) != 1 || (*navigated)[0] != "/dashboard/teacher" {
		t.Errorf("navigated = %v; want [/dashboard/teacher]", *navigated)
	}

	// the record is persisted
	if _, err = storage.Load(); err != nil {
		t.Errorf("Load(): %v", err)
	}

	store.Logout()
	if _, ok = store.Current(); ok {
		t.Error("Logout() should clear the session")
	}
	if _, err = storage.Load(); err != ErrNoRecord {
		t.Errorf("Load() after logout error = %v, want ErrNoRecord", err)
	}
	if len(*navigated) != 2 || (*navigated)[1] != "/login" {
		t.Errorf("navigated = %v; want a single /login signal", *navigated)
	}

	// logout with no session is a no-op apart from the navigation
	store.Logout()
	if len(*navigated) != 3 || (*navigated)[2] != "/login" {
		t.Errorf("navigated = %v; want another /login signal", *navigated)
	}
}

func TestStore_LoginFailure(t *testing.T) {
	nav, navigated := newNavRecorder()
	store := NewStore(NewMemoryStorage(), nav, failingBackend{}, nil)

	if _, err := store.Login(context.Background(), "x@test.cd", "nope"); err != user.ErrInvalidCredentials {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
	if _, ok := store.Current(); ok {
		t.Error("failed login must leave the session empty")
	}
	if len(*navigated) != 0 {
		t.Errorf("navigated = %v; want none", *navigated)
	}
}

func TestStore_Register(t *testing.T) {
	nav, navigated := newNavRecorder()
	store := NewStore(NewMemoryStorage(), nav, NewMockBackend(), nil)

	usr, err := store.Register(context.Background(), user.Registration{
		Role:      user.RoleSchool,
		FirstName: "Grace",
		LastName:  "Banda",
		Email:     "grace@test.cd",
	})
	if err != nil {
		t.Fatalf("Register(): %v", err)
	}
	if usr.Role != user.RoleSchool {
		t.Errorf("Role = %v, want school", usr.Role)
	}
	if usr.Code == "" {
		t.Error("school registration should assign a school code")
	}
	if len(*navigated) != 1 || (*navigated)[0] != "/dashboard/school" {
		t.Errorf("navigated = %v; want [/dashboard/school]", *navigated)
	}
}

func TestStore_Hydrate(t *testing.T) {
	valid := func() []byte {
		data, _ := json.Marshal(Record{
			Version:   recordVersion,
			ID:        "usr-1",
			FirstName: "John",
			LastName:  "Doe",
			Email:     "john@test.cd",
			Role:      user.RoleTeacher,
			Code:      "TECH123",
		})
		return data
	}

	tests := []struct {
		name     string
		data     []byte
		wantUser bool
	}{
		{name: "no record"},
		{name: "malformed json", data: []byte("{lol")},
		{name: "unknown version", data: []byte(`{"version":99,"id":"usr-1","role":"teacher"}`)},
		{name: "invalid role", data: []byte(`{"version":1,"id":"usr-1","role":"lol"}`)},
		{name: "valid record", data: valid(), wantUser: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := NewMemoryStorage()
			if tt.data != nil {
				if err := storage.Save(tt.data); err != nil {
					t.Fatalf("Save(): %v", err)
				}
			}

			nav, navigated := newNavRecorder()
			store := NewStore(storage, nav, NewMockBackend(), nil)
			store.Hydrate()

			usr, ok := store.Current()
			if ok != tt.wantUser {
				t.Fatalf("Current() ok = %v, want %v", ok, tt.wantUser)
			}
			if tt.wantUser {
				if usr.ID != "usr-1" || usr.Role != user.RoleTeacher || !usr.IsActive {
					t.Errorf("hydrated user = %+v", usr)
				}
			}
			// hydration never navigates
			if len(*navigated) != 0 {
				t.Errorf("navigated = %v; want none", *navigated)
			}
		})
	}
}

func TestStore_HydrateSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	nav, _ := newNavRecorder()

	store := NewStore(NewFileStorage(path), nav, NewMockBackend(), nil)
	if _, err := store.Login(context.Background(), "jane@test.cd", "pwd"); err != nil {
		t.Fatalf("Login(): %v", err)
	}

	// a fresh store over the same file sees the session
	restarted := NewStore(NewFileStorage(path), nav, NewMockBackend(), nil)
	restarted.Hydrate()
	usr, ok := restarted.Current()
	if !ok || usr.Email != "jane@test.cd" {
		t.Errorf("Current() = %v, %v; want the persisted session", usr, ok)
	}

	restarted.Logout()
	again := NewStore(NewFileStorage(path), nav, NewMockBackend(), nil)
	again.Hydrate()
	if _, ok = again.Current(); ok {
		t.Error("logout should clear the persisted record")
	}
}
