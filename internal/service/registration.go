// Package service implements business logic and orchestration between HTTP
// handlers and the repository layer. RegistrationService is the admission
// core: it decides, under concurrent requests, whether a user may claim one
// of a finite number of seats for an event.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/seatwise/seatwise/internal/clock"
	"github.com/seatwise/seatwise/internal/model"
)

// Ledger is the durable store of registrations. WithTx runs the admission
// decision atomically; GetEventForUpdate must serialise concurrent decisions
// for the same event (row lock or equivalent).
type Ledger interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEventForUpdate(ctx context.Context, eventID string) (*model.Event, error)
	FindLatest(ctx context.Context, eventID, userID string) (*model.Registration, error)
	HasConfirmed(ctx context.Context, eventID, userID string) (bool, error)
	CountConfirmed(ctx context.Context, eventID string) (int, error)
	Insert(ctx context.Context, reg *model.Registration) error
	MarkCancelled(ctx context.Context, id string) error
	ListByEvent(ctx context.Context, eventID string) ([]model.Registration, error)
	ListByUser(ctx context.Context, userID string) ([]model.Registration, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]model.Registration, error)
}

// EventGetter looks up event records (read-only directory view).
type EventGetter interface {
	GetByID(ctx context.Context, id string) (*model.Event, error)
}

// UserGetter looks up user records (read-only directory view).
type UserGetter interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// RegistrationService enforces the admission rules: capacity, uniqueness,
// temporal, and self-registration.
type RegistrationService struct {
	ledger Ledger
	events EventGetter
	users  UserGetter
	clock  clock.Clock
}

// NewRegistrationService constructs a RegistrationService with its dependencies.
func NewRegistrationService(ledger Ledger, events EventGetter, users UserGetter, clk clock.Clock) *RegistrationService {
	return &RegistrationService{ledger: ledger, events: events, users: users, clock: clk}
}

// Register admits a user to an event or rejects with a domain error.
// The whole decision runs inside one ledger transaction holding the event
// row lock, so the capacity check and the insert are a single atomic unit:
// count(CONFIRMED) can never exceed capacity, even under concurrent calls.
//
// Preconditions, in order, each a distinct rejection:
//  1. event exists
//  2. user exists
//  3. event date is strictly in the future
//  4. no CONFIRMED row for the pair (a CANCELLED one does not block)
//  5. the user is not the event's organizer
//  6. confirmed count is strictly below capacity
func (s *RegistrationService) Register(ctx context.Context, eventID, userID string) (*model.Registration, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event id is required")
	}
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	var created *model.Registration
	err := s.ledger.WithTx(ctx, func(ctx context.Context) error {
		event, err := s.ledger.GetEventForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if !event.EventDate.After(s.clock.Now()) {
			return model.ErrEventInPast
		}
		registered, err := s.ledger.HasConfirmed(ctx, eventID, userID)
		if err != nil {
			return err
		}
		if registered {
			return model.ErrAlreadyRegistered
		}
		if event.OrganizerID == userID {
			return model.ErrOrganizerSelfRegister
		}
		count, err := s.ledger.CountConfirmed(ctx, eventID)
		if err != nil {
			return err
		}
		if count >= event.Capacity {
			return model.ErrEventFull
		}

		// Display fields are snapshots of the current records; they are
		// never refreshed after this point.
		created = &model.Registration{
			ID:               uuid.New().String(),
			EventID:          eventID,
			UserID:           userID,
			Status:           model.StatusConfirmed,
			RegistrationDate: s.clock.Now(),
			UserName:         user.FullName(),
			UserEmail:        user.Email,
			EventTitle:       event.Title,
		}
		return s.ledger.Insert(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Cancel flips the registration for the pair to CANCELLED, freeing the seat
// for future Register calls. Re-cancelling an already cancelled registration
// fails the same way as cancelling one that never existed. Seats for past
// events are frozen; if the event row itself is gone, cancellation proceeds.
func (s *RegistrationService) Cancel(ctx context.Context, eventID, userID string) error {
	return s.ledger.WithTx(ctx, func(ctx context.Context) error {
		// Take the event lock first so cancel and register on the same
		// event serialize on the same row.
		event, err := s.ledger.GetEventForUpdate(ctx, eventID)
		if err != nil && !errors.Is(err, model.ErrEventNotFound) {
			return err
		}

		reg, err := s.ledger.FindLatest(ctx, eventID, userID)
		if err != nil {
			return err
		}
		if reg == nil || reg.Status == model.StatusCancelled {
			return model.ErrRegistrationNotFound
		}
		if event != nil && !event.EventDate.After(s.clock.Now()) {
			return model.ErrEventInPast
		}
		return s.ledger.MarkCancelled(ctx, reg.ID)
	})
}

// IsRegistered reports whether a CONFIRMED registration exists for the pair.
func (s *RegistrationService) IsRegistered(ctx context.Context, eventID, userID string) (bool, error) {
	return s.ledger.HasConfirmed(ctx, eventID, userID)
}

// RegistrationCount returns the number of CONFIRMED registrations for the event.
func (s *RegistrationService) RegistrationCount(ctx context.Context, eventID string) (int, error) {
	return s.ledger.CountConfirmed(ctx, eventID)
}

// RemainingCapacity returns the number of free seats, clamped at zero.
// A missing event yields 0 rather than an error.
func (s *RegistrationService) RemainingCapacity(ctx context.Context, eventID string) (int, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, model.ErrEventNotFound) {
			return 0, nil
		}
		return 0, err
	}
	count, err := s.ledger.CountConfirmed(ctx, eventID)
	if err != nil {
		return 0, err
	}
	remaining := event.Capacity - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Check bundles the per-pair and per-event read projections consumed by the
// registration check endpoint.
func (s *RegistrationService) Check(ctx context.Context, eventID, userID string) (*model.RegistrationCheck, error) {
	registered, err := s.IsRegistered(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.RegistrationCount(ctx, eventID)
	if err != nil {
		return nil, err
	}
	remaining, err := s.RemainingCapacity(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return &model.RegistrationCheck{
		IsRegistered:      registered,
		RegistrationCount: count,
		RemainingCapacity: remaining,
	}, nil
}

// ListByEvent returns all registrations for an event.
func (s *RegistrationService) ListByEvent(ctx context.Context, eventID string) ([]model.Registration, error) {
	return s.ledger.ListByEvent(ctx, eventID)
}

// ListByUser returns all registrations made by a user.
func (s *RegistrationService) ListByUser(ctx context.Context, userID string) ([]model.Registration, error) {
	return s.ledger.ListByUser(ctx, userID)
}

// ListByOrganizer returns registrations for every event the user organizes.
func (s *RegistrationService) ListByOrganizer(ctx context.Context, organizerID string) ([]model.Registration, error) {
	return s.ledger.ListByOrganizer(ctx, organizerID)
}
