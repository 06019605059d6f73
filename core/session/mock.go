package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/eduverse/lms/core/user"
)

// mockBackend synthesizes user records without a real backend, preserving
// the behavior of the original mock auth flow: Login always succeeds as a
// teacher with a fixed join code; Register echoes the submitted profile.
type mockBackend struct{}

func NewMockBackend() Backend {
	return mockBackend{}
}

func (mockBackend) Authenticate(_ context.Context, email, _ string) (user.User, error) {
	return user.User{
		ID:        "1",
		FirstName: "John",
		LastName:  "Doe",
		Email:     email,
		Role:      user.RoleTeacher,
		Code:      "TECH123",
		IsActive:  true,
	}, nil
}

func (mockBackend) Register(_ context.Context, reg user.Registration) (user.User, error) {
	return user.User{
		ID:        uuid.New().String(),
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Email:     reg.Email,
		Role:      reg.Role,
		Code:      user.AccessCodeFor(reg.Role),
		IsActive:  true,
	}, nil
}
