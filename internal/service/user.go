package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/seatwise/seatwise/internal/clock"
	"github.com/seatwise/seatwise/internal/model"
)

// UserStore is the persistence contract for user accounts.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
}

// UserService orchestrates account management.
type UserService struct {
	users UserStore
	clock clock.Clock
}

// NewUserService constructs a UserService.
func NewUserService(users UserStore, clk clock.Clock) *UserService {
	return &UserService{users: users, clock: clk}
}

// Signup validates the request, hashes the password, and creates the account.
// The role defaults to member unless the request explicitly asks for admin.
func (s *UserService) Signup(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.FirstName == "" {
		return nil, fmt.Errorf("first name is required")
	}
	if req.LastName == "" {
		return nil, fmt.Errorf("last name is required")
	}
	if !isValidEmail(req.Email) {
		return nil, fmt.Errorf("email is not a valid email address")
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters long")
	}

	role := model.RoleMember
	if req.Role == model.RoleAdmin {
		role = model.RoleAdmin
	}

	user := &model.User{
		ID:           uuid.New().String(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hashPassword(req.Password),
		Phone:        strings.TrimSpace(req.Phone),
		Address:      strings.TrimSpace(req.Address),
		Role:         role,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and returns the account.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}
	if !checkPassword(user, req.Password) {
		return nil, model.ErrInvalidCredentials
	}
	return user, nil
}

// GetByID returns a single user.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, model.ErrUserNotFound
	}
	return s.users.GetByID(ctx, id)
}

// GetByEmail returns a single user by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// Update applies a partial update; only non-empty fields change. A new
// password is re-hashed before storage.
func (s *UserService) Update(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(req.FirstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(req.LastName); v != "" {
		user.LastName = v
	}
	if v := strings.TrimSpace(strings.ToLower(req.Email)); v != "" {
		if !isValidEmail(v) {
			return nil, fmt.Errorf("email is not a valid email address")
		}
		user.Email = v
	}
	if req.Password != "" {
		if len(req.Password) < 8 {
			return nil, fmt.Errorf("password must be at least 8 characters long")
		}
		user.PasswordHash = hashPassword(req.Password)
	}
	if v := strings.TrimSpace(req.Phone); v != "" {
		user.Phone = v
	}
	if v := strings.TrimSpace(req.Address); v != "" {
		user.Address = v
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

func hashPassword(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func checkPassword(user *model.User, raw string) bool {
	if user == nil || raw == "" {
		return false
	}
	return hashPassword(raw) == user.PasswordHash
}

// isValidEmail does a basic structural check (no external deps).
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
