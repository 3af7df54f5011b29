package service

import (
	"context"
	"errors"
	"testing"

	"github.com/seatwise/seatwise/internal/clock"
	"github.com/seatwise/seatwise/internal/model"
)

func newUserFixture(users ...*model.User) *UserService {
	return NewUserService(newFakeUserStore(users...), clock.NewFixed(testNow))
}

func validSignup() model.SignupRequest {
	return model.SignupRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.com",
		Password:  "correct horse",
	}
}

func TestUserService_Signup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates a member with a hashed password", func(t *testing.T) {
		svc := newUserFixture()

		user, err := svc.Signup(ctx, validSignup())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.Email != "ada@example.com" {
			t.Fatalf("expected lowercased email, got %q", user.Email)
		}
		if user.Role != model.RoleMember {
			t.Fatalf("expected default member role, got %q", user.Role)
		}
		if user.PasswordHash == "" || user.PasswordHash == "correct horse" {
			t.Fatalf("expected password to be hashed, got %q", user.PasswordHash)
		}
		if !user.CreatedAt.Equal(testNow) {
			t.Fatalf("expected created_at %v, got %v", testNow, user.CreatedAt)
		}
	})

	t.Run("explicit admin role is honoured", func(t *testing.T) {
		svc := newUserFixture()
		req := validSignup()
		req.Role = model.RoleAdmin

		user, err := svc.Signup(ctx, req)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !user.IsAdmin() {
			t.Fatalf("expected admin role, got %q", user.Role)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		svc := newUserFixture()
		if _, err := svc.Signup(ctx, validSignup()); err != nil {
			t.Fatalf("first signup failed: %v", err)
		}
		_, err := svc.Signup(ctx, validSignup())
		if !errors.Is(err, model.ErrEmailTaken) {
			t.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("rejects short passwords and bad emails", func(t *testing.T) {
		svc := newUserFixture()

		req := validSignup()
		req.Password = "short"
		if _, err := svc.Signup(ctx, req); err == nil {
			t.Fatalf("expected error for short password")
		}

		req = validSignup()
		req.Email = "not-an-email"
		if _, err := svc.Signup(ctx, req); err == nil {
			t.Fatalf("expected error for invalid email")
		}
	})
}

func TestUserService_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newUserFixture()
	if _, err := svc.Signup(ctx, validSignup()); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Login(ctx, model.LoginRequest{Email: "ada@example.com", Password: "correct horse"})
		if err != nil {
			t.Fatalf("expected login to succeed, got %v", err)
		}
		if user.FirstName != "Ada" {
			t.Fatalf("unexpected user: %+v", user)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, model.LoginRequest{Email: "ada@example.com", Password: "wrong"})
		if !errors.Is(err, model.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		_, err := svc.Login(ctx, model.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
		if !errors.Is(err, model.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestUserService_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newUserFixture()
	user, err := svc.Signup(ctx, validSignup())
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	t.Run("partial update leaves other fields untouched", func(t *testing.T) {
		updated, err := svc.Update(ctx, user.ID, model.UpdateUserRequest{Phone: "555-0100"})
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if updated.Phone != "555-0100" {
			t.Fatalf("expected phone update, got %q", updated.Phone)
		}
		if updated.FirstName != "Ada" || updated.Email != "ada@example.com" {
			t.Fatalf("expected untouched fields, got %+v", updated)
		}
	})

	t.Run("new password is re-hashed", func(t *testing.T) {
		if _, err := svc.Update(ctx, user.ID, model.UpdateUserRequest{Password: "another pass"}); err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if _, err := svc.Login(ctx, model.LoginRequest{Email: "ada@example.com", Password: "another pass"}); err != nil {
			t.Fatalf("expected login with new password, got %v", err)
		}
		if _, err := svc.Login(ctx, model.LoginRequest{Email: "ada@example.com", Password: "correct horse"}); !errors.Is(err, model.ErrInvalidCredentials) {
			t.Fatalf("expected old password rejected, got %v", err)
		}
	})

	t.Run("unknown user fails", func(t *testing.T) {
		_, err := svc.Update(ctx, "missing", model.UpdateUserRequest{Phone: "555"})
		if !errors.Is(err, model.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}
