// Package model defines the core domain types for the event registration system.
package model

import (
	"strings"
	"time"
)

// Role is an explicit role attribute resolved at signup/authentication time.
// Authorization decisions dispatch on this field, never on name or email content.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Status is the lifecycle state of a registration.
type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	// StatusPending is a reachable state in the model but no current rule
	// produces it; reserved for a future approval workflow.
	StatusPending Status = "PENDING"
)

// User is an account that can organize and register for events.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// FullName joins first and last name for display snapshots.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Event represents a bookable event created by an organizer.
type Event struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	EventDate     time.Time `json:"event_date"`
	Location      string    `json:"location"`
	Capacity      int       `json:"capacity"`
	OrganizerID   string    `json:"organizer_id"`
	OrganizerName string    `json:"organizer_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// Registration is one user's claim on a seat for an event. The user/event
// display fields are snapshots taken at registration time and are never
// refreshed, so historical rows keep the names they were created with.
type Registration struct {
	ID               string    `json:"id"`
	EventID          string    `json:"event_id"`
	UserID           string    `json:"user_id"`
	Status           Status    `json:"status"`
	RegistrationDate time.Time `json:"registration_date"`
	UserName         string    `json:"user_name"`
	UserEmail        string    `json:"user_email"`
	EventTitle       string    `json:"event_title"`
}

// SignupRequest is the payload for creating a new user.
type SignupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Role      Role   `json:"role"`
}

// LoginRequest is the payload for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest is a partial update; empty fields are left unchanged.
type UpdateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// EventRequest is the payload for creating or updating an event.
type EventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`
	Location    string    `json:"location"`
	Capacity    int       `json:"capacity"`
	OrganizerID string    `json:"organizer_id"`
}

// RegistrationRequest identifies the (event, user) pair for register/cancel.
type RegistrationRequest struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
}

// RegistrationCheck summarises a user's standing for an event.
type RegistrationCheck struct {
	IsRegistered      bool `json:"is_registered"`
	RegistrationCount int  `json:"registration_count"`
	RemainingCapacity int  `json:"remaining_capacity"`
}

// RegistrationStats is the per-event seat summary.
type RegistrationStats struct {
	TotalRegistrations int `json:"total_registrations"`
	RemainingCapacity  int `json:"remaining_capacity"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
