package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seatwise/seatwise/internal/model"
)

const eventColumns = `id, title, description, event_date, location, capacity, organizer_id, organizer_name, created_at`

// EventRepository handles persistence for events.
type EventRepository struct {
	q querier
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{q: querier{pool: db}}
}

// Create inserts a new event.
func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	_, err := r.q.exec(ctx,
		`INSERT INTO events (`+eventColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		event.ID, event.Title, event.Description, event.EventDate, event.Location,
		event.Capacity, event.OrganizerID, event.OrganizerName, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// GetByID returns a single event or model.ErrEventNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	row := r.q.queryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	return scanEvent(row)
}

// List returns all events ordered by event date ascending.
func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	return r.listWhere(ctx, ``)
}

// ListByOrganizer returns all events owned by one organizer.
func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]model.Event, error) {
	return r.listWhere(ctx, `WHERE organizer_id = $1`, organizerID)
}

// SearchByTitle returns events whose title contains the fragment, case-insensitively.
func (r *EventRepository) SearchByTitle(ctx context.Context, title string) ([]model.Event, error) {
	return r.listWhere(ctx, `WHERE title ILIKE '%' || $1 || '%'`, title)
}

// SearchByLocation returns events whose location contains the fragment, case-insensitively.
func (r *EventRepository) SearchByLocation(ctx context.Context, location string) ([]model.Event, error) {
	return r.listWhere(ctx, `WHERE location ILIKE '%' || $1 || '%'`, location)
}

// Update rewrites the mutable fields of an existing event. Capacity is
// immutable once registrations exist in spirit, but the original system
// allowed raising it; the admission check always reads the current value.
func (r *EventRepository) Update(ctx context.Context, event *model.Event) error {
	tag, err := r.q.exec(ctx,
		`UPDATE events
		 SET title = $2, description = $3, event_date = $4, location = $5, capacity = $6
		 WHERE id = $1`,
		event.ID, event.Title, event.Description, event.EventDate, event.Location, event.Capacity,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrEventNotFound
	}
	return nil
}

// Delete removes an event row.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.q.exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) listWhere(ctx context.Context, where string, args ...any) ([]model.Event, error) {
	rows, err := r.q.query(ctx,
		`SELECT `+eventColumns+` FROM events `+where+` ORDER BY event_date ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.EventDate, &e.Location,
			&e.Capacity, &e.OrganizerID, &e.OrganizerName, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.EventDate, &e.Location,
		&e.Capacity, &e.OrganizerID, &e.OrganizerName, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}
