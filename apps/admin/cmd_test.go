package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"testing"

	"github.com/eduverse/lms/core/session"
	"github.com/eduverse/lms/core/user"
	emailsvc "github.com/eduverse/lms/services/email"
	dummydb "github.com/eduverse/lms/storage/database/dummy"
	testutil "github.com/eduverse/lms/tests"
)

var usrRepo user.Repository

func setup(t *testing.T) (*commandLine, *[]string) {
	// set up DB & repos
	db := testutil.PrepareDB(t)
	usrRepo = dummydb.NewUserRepository(db)

	// set up services
	conf := testutil.NewConfig()
	usrSvc := user.NewService(conf, usrRepo, emailsvc.NewConsoleServiceMock(conf))

	var navigated []string
	sessionStore := session.NewStore(
		session.NewMemoryStorage(),
		session.NavigatorFunc(func(path string) { navigated = append(navigated, path) }),
		usrSvc,
		nil,
	)

	sqlDB, err := sql.Open("postgres", "")
	if err != nil {
		t.Fatalf("sql.Open() failed: %v", err)
	}

	// start CLI
	return &commandLine{
		db:      sqlDB,
		usrRepo: usrRepo,
		usrSvc:  usrSvc,
		session: sessionStore,
		out:     io.Discard,
	}, &navigated
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	migrateRunFunc = func(command string, db *sql.DB, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "course", "sql"}},
		{name: "fix", args: []string{"migrate", "fix"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if err != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			}
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, _ := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "Mwale", "awe@test.cd", "mdr", user.RoleStudent, true)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@test.cd"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@test.cd"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", usr.Email}, extra: extra{pwd: "lol"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := usrRepo.GetUserByID(context.Background(), usr.ID)
				if err != nil {
					t.Fatalf("GetUserByID() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli, _ := setup(t)

	existing := testutil.CreateUser(t, usrRepo, "Old", "Hand", "old@test.cd", "mdr", user.RoleStudent, false)

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("S3cret!pwd"), nil }

	t.Run("creates a new account", func(t *testing.T) {
		args := []string{"admin", "adduser", "-email", "new@test.cd", "-first", "New", "-last", "Person", "-role", "teacher"}
		if err := cli.run(args); err != nil {
			t.Fatalf("cli.run() failed: %v", err)
		}

		usr, err := usrRepo.GetUserByEmail(context.Background(), "new@test.cd")
		if err != nil {
			t.Fatalf("GetUserByEmail() failed: %v", err)
		}
		if usr.Role != user.RoleTeacher {
			t.Errorf("Role = %v; want %v", usr.Role, user.RoleTeacher)
		}
		if usr.Code == "" {
			t.Error("expected a teacher join code")
		}
		if !usr.IsActive {
			t.Error("expected an active account")
		}
		if err = usr.CheckPassword("S3cret!pwd"); err != nil {
			t.Error("password not set")
		}
	})

	t.Run("reactivates an existing account", func(t *testing.T) {
		args := []string{"admin", "adduser", "-email", existing.Email, "-role", "admin"}
		if err := cli.run(args); err != nil {
			t.Fatalf("cli.run() failed: %v", err)
		}

		usr, err := usrRepo.GetUserByID(context.Background(), existing.ID)
		if err != nil {
			t.Fatalf("GetUserByID() failed: %v", err)
		}
		if usr.Role != user.RoleAdmin {
			t.Errorf("Role = %v; want %v", usr.Role, user.RoleAdmin)
		}
		if !usr.IsActive {
			t.Error("expected a reactivated account")
		}
	})

	t.Run("invalid role", func(t *testing.T) {
		args := []string{"admin", "adduser", "-email", "x@test.cd", "-role", "lol"}
		if err := cli.run(args); err != errHelp {
			t.Errorf("cli.run() error = %v, wantErr %v", err, errHelp)
		}
	})
}

func Test_commandLine_session(t *testing.T) {
	cli, navigated := setup(t)

	teacher := testutil.CreateUser(t, usrRepo, "John", "Doe", "teacher@test.cd", "S3cret!pwd", user.RoleTeacher, true)

	readPasswordFunc = func(fd int) ([]byte, error) { return []byte("S3cret!pwd"), nil }

	t.Run("whoami without a session", func(t *testing.T) {
		if err := cli.run([]string{"admin", "whoami"}); err != nil {
			t.Fatalf("cli.run() failed: %v", err)
		}
		if _, ok := cli.session.Current(); ok {
			t.Error("expected no session")
		}
	})

	t.Run("login with bad credentials", func(t *testing.T) {
		readPasswordFunc = func(fd int) ([]byte, error) { return []byte("nope"), nil }
		if err := cli.run([]string{"admin", "login", "-email", teacher.Email}); err != user.ErrInvalidCredentials {
			t.Errorf("cli.run() error = %v, wantErr %v", err, user.ErrInvalidCredentials)
		}
		if len(*navigated) != 0 {
			t.Errorf("navigated = %v; want none", *navigated)
		}
	})

	t.Run("login navigates to the landing route", func(t *testing.T) {
		readPasswordFunc = func(fd int) ([]byte, error) { return []byte("S3cret!pwd"), nil }
		if err := cli.run([]string{"admin", "login", "-email", teacher.Email}); err != nil {
			t.Fatalf("cli.run() failed: %v", err)
		}
		usr, ok := cli.session.Current()
		if !ok || usr.ID != teacher.ID {
			t.Errorf("Current() = %v, %v; want the teacher", usr, ok)
		}
		if n := len(*navigated); n != 1 || (*navigated)[0] != "/dashboard/teacher" {
			t.Errorf("navigated = %v; want [/dashboard/teacher]", *navigated)
		}
	})

	t.Run("logout navigates to login", func(t *testing.T) {
		if err := cli.run([]string{"admin", "logout"}); err != nil {
			t.Fatalf("cli.run() failed: %v", err)
		}
		if _, ok := cli.session.Current(); ok {
			t.Error("expected session to be cleared")
		}
		if last := (*navigated)[len(*navigated)-1]; last != "/login" {
			t.Errorf("last navigation = %v; want /login", last)
		}
	})
}
