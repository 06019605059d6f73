package user

import (
	"testing"
	"time"

	"github.com/eduverse/lms/core"
)

func TestMakeVerifyToken(t *testing.T) {
	conf := &core.Config{
		SecretKey:                 "secret",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
	}

	now := time.Now()
	usr := User{
		ID:        "usr-1",
		FirstName: "T",
		LastName:  "T",
		Email:     "t@test.test",
		Role:      RoleStudent,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
		LastLogin: now,
	}
	_ = usr.SetPassword("pwd")

	validToken, err := MakeToken(conf, usr)
	if err != nil {
		t.Fatalf("MakeToken(): %v", err)
	}

	// generate an expired token
	dayLate := conf.PasswordResetTimeoutDelta + (24 * time.Hour)
	NowFunc = func() time.Time { return time.Now().Add(-dayLate) }
	expiredToken, err := MakeToken(conf, usr)
	if err != nil {
		t.Fatalf("MakeToken(): %v", err)
	}
	NowFunc = time.Now // reset

	// a password change invalidates outstanding tokens
	rotated := usr
	_ = rotated.SetPassword("new-pwd")

	tests := []struct {
		name    string
		usr     User
		token   string
		wantErr error
	}{
		{name: "no token", usr: usr, wantErr: errInvalidToken},
		{name: "invalid parts len", usr: usr, token: "lmaooolol", wantErr: errInvalidToken},
		{name: "invalid base32", usr: usr, token: "hahaha-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid timestamp", usr: usr, token: "NRXWY-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid token", usr: usr, token: "HE4TS-sigsig-sig", wantErr: errInvalidToken},
		{name: "expired token", usr: usr, token: expiredToken, wantErr: errTokenExpired},
		{name: "password changed", usr: rotated, token: validToken, wantErr: errInvalidToken},
		{name: "valid token", usr: usr, token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := verifyToken(conf, tt.usr, tt.token); err != tt.wantErr {
				t.Errorf("verifyToken() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncodeUID(t *testing.T) {
	usr := User{ID: "usr-1"}
	uid := EncodeUID(usr)
	id, err := decodeUID(uid)
	if err != nil {
		t.Fatalf("decodeUID(): %v", err)
	}
	if id != usr.ID {
		t.Errorf("decodeUID() = %v, want %v", id, usr.ID)
	}
}

func TestAccessCodeFor(t *testing.T) {
	tests := []struct {
		role       Role
		wantPrefix string
	}{
		{role: RoleTeacher, wantPrefix: "TECH-"},
		{role: RoleSchool, wantPrefix: "SCH-"},
		{role: RoleAdmin},
		{role: RoleStudent},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			code := AccessCodeFor(tt.role)
			if tt.wantPrefix == "" {
				if code != "" {
					t.Errorf("AccessCodeFor() = %q, want empty", code)
				}
				return
			}
			if len(code) != len(tt.wantPrefix)+6 || code[:len(tt.wantPrefix)] != tt.wantPrefix {
				t.Errorf("AccessCodeFor() = %q, want %q prefix and 6 characters", code, tt.wantPrefix)
			}
		})
	}
}
