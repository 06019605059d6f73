package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/eduverse/lms/core"
	"github.com/eduverse/lms/core/user"
	dummydb "github.com/eduverse/lms/storage/database/dummy"
)

// NewConfig returns the fixed test configuration; nothing is read from the
// environment so tests stay hermetic.
func NewConfig() *core.Config {
	return &core.Config{
		Debug:            false,
		TestMode:         true,
		Env:              "TEST",
		Build:            "test",
		AppName:          "EduVerse LMS",
		SecretKey:        "test-secret-key-not-for-production",
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: "noreply@test.local",

		SessionFile:               "",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		GradingDelay:              time.Millisecond,

		Server: core.ServerConfig{
			JWTExpirationDelta:        1 * time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
}

func PrepareDB(t *testing.T) *dummydb.DB {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	first, last, email, pwd string,
	role user.Role,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uuid.New().String(),
		FirstName: first,
		LastName:  last,
		Email:     email,
		Role:      role,
		Code:      user.AccessCodeFor(role),
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
