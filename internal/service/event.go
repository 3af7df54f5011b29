package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/seatwise/seatwise/internal/clock"
	"github.com/seatwise/seatwise/internal/model"
)

const maxEventCapacity = 10_000

// EventStore is the persistence contract for events.
type EventStore interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]model.Event, error)
	SearchByTitle(ctx context.Context, title string) ([]model.Event, error)
	SearchByLocation(ctx context.Context, location string) ([]model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id string) error
}

// AdminPredicate decides whether a user may mutate events. Resolved from the
// explicit role attribute; injected so the gate stays a pure boolean check.
type AdminPredicate func(*model.User) bool

// EventService orchestrates event management. Mutations pass through the
// admin gate; reads are open.
type EventService struct {
	events  EventStore
	users   UserGetter
	clock   clock.Clock
	isAdmin AdminPredicate
}

// NewEventService constructs an EventService. A nil predicate falls back to
// the role attribute on the user record.
func NewEventService(events EventStore, users UserGetter, clk clock.Clock, isAdmin AdminPredicate) *EventService {
	if isAdmin == nil {
		isAdmin = (*model.User).IsAdmin
	}
	return &EventService{events: events, users: users, clock: clk, isAdmin: isAdmin}
}

// Create validates the request and creates an event on behalf of actorID.
// Only admins may create events; the organizer's display name is
// snapshotted onto the event row.
func (s *EventService) Create(ctx context.Context, actorID string, req model.EventRequest) (*model.Event, error) {
	if err := s.authorize(ctx, actorID); err != nil {
		return nil, err
	}
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	organizer, err := s.users.GetByID(ctx, req.OrganizerID)
	if err != nil {
		return nil, err
	}

	event := &model.Event{
		ID:            uuid.New().String(),
		Title:         req.Title,
		Description:   req.Description,
		EventDate:     req.EventDate,
		Location:      req.Location,
		Capacity:      req.Capacity,
		OrganizerID:   organizer.ID,
		OrganizerName: organizer.FullName(),
		CreatedAt:     s.clock.Now(),
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetByID returns a single event.
func (s *EventService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, model.ErrEventNotFound
	}
	return s.events.GetByID(ctx, id)
}

// List returns all events.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	return s.events.List(ctx)
}

// ListByOrganizer returns the events owned by one organizer.
func (s *EventService) ListByOrganizer(ctx context.Context, organizerID string) ([]model.Event, error) {
	return s.events.ListByOrganizer(ctx, organizerID)
}

// SearchByTitle returns events matching a title fragment.
func (s *EventService) SearchByTitle(ctx context.Context, title string) ([]model.Event, error) {
	return s.events.SearchByTitle(ctx, title)
}

// SearchByLocation returns events matching a location fragment.
func (s *EventService) SearchByLocation(ctx context.Context, location string) ([]model.Event, error) {
	return s.events.SearchByLocation(ctx, location)
}

// Update rewrites an event's mutable fields. Admin only.
func (s *EventService) Update(ctx context.Context, actorID, id string, req model.EventRequest) (*model.Event, error) {
	if err := s.authorize(ctx, actorID); err != nil {
		return nil, err
	}
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	event.Title = req.Title
	event.Description = req.Description
	event.EventDate = req.EventDate
	event.Location = req.Location
	event.Capacity = req.Capacity
	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes an event. Admin only.
func (s *EventService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.authorize(ctx, actorID); err != nil {
		return err
	}
	return s.events.Delete(ctx, id)
}

func (s *EventService) authorize(ctx context.Context, actorID string) error {
	if actorID == "" {
		return model.ErrNotAdmin
	}
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !s.isAdmin(actor) {
		return model.ErrNotAdmin
	}
	return nil
}

func (s *EventService) validate(req *model.EventRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Location = strings.TrimSpace(req.Location)
	req.Description = strings.TrimSpace(req.Description)

	if req.Title == "" {
		return fmt.Errorf("event title is required")
	}
	if req.Location == "" {
		return fmt.Errorf("event location is required")
	}
	now := s.clock.Now()
	if !req.EventDate.After(now) {
		return fmt.Errorf("event date and time must be in the future")
	}
	if req.EventDate.After(now.AddDate(2, 0, 0)) {
		return fmt.Errorf("event date cannot be more than 2 years in the future")
	}
	if req.Capacity <= 0 {
		return fmt.Errorf("event capacity must be a positive number")
	}
	if req.Capacity > maxEventCapacity {
		return fmt.Errorf("event capacity cannot exceed %d participants", maxEventCapacity)
	}
	return nil
}
