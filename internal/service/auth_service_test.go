package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
	"github.com/KeshavDaBoss/smartparkv5/internal/service"
)

func TestSignupAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.Signup(ctx, domain.SignupUserDTO{Username: "alice", Password: "secret", IsElderly: true})
	if err != nil {
		t.Fatal(err)
	}
	if user.ID == "" || user.Password != "" {
		t.Fatalf("signup result = %+v", user)
	}
	if _, err := f.auth.Signup(ctx, domain.SignupUserDTO{Username: "alice", Password: "x"}); !errors.Is(err, service.ErrUserAlreadyExists) {
		t.Fatalf("duplicate signup: %v", err)
	}

	if _, err := f.auth.Login(ctx, domain.LoginUserDTO{Username: "alice", Password: "wrong"}); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, err := f.auth.Login(ctx, domain.LoginUserDTO{Username: "nobody", Password: "secret"}); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("unknown user: %v", err)
	}

	resp, err := f.auth.Login(ctx, domain.LoginUserDTO{Username: "alice", Password: "secret"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.UserID != user.ID || !resp.IsElderly {
		t.Fatalf("login response = %+v", resp)
	}

	_, claims, err := f.auth.ValidateToken(resp.Token)
	if err != nil {
		t.Fatal(err)
	}
	if claims["sub"] != user.ID || claims["username"] != "alice" {
		t.Fatalf("claims = %v", claims)
	}

	if _, _, err := f.auth.ValidateToken(resp.Token + "x"); !errors.Is(err, service.ErrTokenInvalid) {
		t.Fatalf("tampered token: %v", err)
	}
}

func TestSeedUsersKeepFixedIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.auth.Login(ctx, domain.LoginUserDTO{Username: "user2", Password: "password"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.UserID != "user2" || !resp.IsDisabled {
		t.Fatalf("seeded user2 = %+v", resp)
	}
	// Seed lại không lỗi
	if err := f.auth.SeedUser(ctx, "user2", domain.SignupUserDTO{Username: "user2", Password: "password"}); err != nil {
		t.Fatalf("reseed: %v", err)
	}
}
