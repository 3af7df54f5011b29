package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seatwise/seatwise/internal/model"
)

const registrationColumns = `id, event_id, user_id, status, registration_date, user_name, user_email, event_title`

// RegistrationRepository is the durable ledger of registrations.
//
// Admission decisions are a check-then-act sequence (count confirmed seats,
// then insert). Two concurrent registrations for the same event could both
// read a stale count and overshoot capacity, so the decision runs inside a
// transaction that first takes SELECT ... FOR UPDATE on the event row:
// the row-level lock blocks any other admission for that event until the
// first transaction commits or rolls back, strictly ordering concurrent
// attempts. Registrations for different events lock different rows and stay
// fully independent. As a backstop, the partial unique index on
// (event_id, user_id) WHERE status <> 'CANCELLED' turns a lost duplicate
// race into model.ErrAlreadyRegistered instead of a phantom row.
type RegistrationRepository struct {
	pool *pgxpool.Pool
	q    querier
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{pool: db, q: querier{pool: db}}
}

// WithTx runs fn inside a single transaction; all repository calls made with
// the returned context join it.
func (r *RegistrationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// GetEventForUpdate loads the event row and takes an exclusive row-level
// lock on it, serialising concurrent admissions for the same event. Must be
// called inside WithTx.
func (r *RegistrationRepository) GetEventForUpdate(ctx context.Context, eventID string) (*model.Event, error) {
	row := r.q.queryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, eventID)
	return scanEvent(row)
}

// FindLatest returns the most recent registration row for the pair, or nil
// when none exists.
func (r *RegistrationRepository) FindLatest(ctx context.Context, eventID, userID string) (*model.Registration, error) {
	row := r.q.queryRow(ctx,
		`SELECT `+registrationColumns+`
		 FROM registrations
		 WHERE event_id = $1 AND user_id = $2
		 ORDER BY registration_date DESC
		 LIMIT 1`,
		eventID, userID,
	)
	reg, err := scanRegistration(row)
	if err != nil {
		if errors.Is(err, model.ErrRegistrationNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return reg, nil
}

// HasConfirmed reports whether a CONFIRMED row exists for the pair.
func (r *RegistrationRepository) HasConfirmed(ctx context.Context, eventID, userID string) (bool, error) {
	var exists bool
	err := r.q.queryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM registrations
		     WHERE event_id = $1 AND user_id = $2 AND status = $3
		 )`,
		eventID, userID, model.StatusConfirmed,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return exists, nil
}

// CountConfirmed returns the number of CONFIRMED rows for the event.
func (r *RegistrationRepository) CountConfirmed(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.q.queryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = $2`,
		eventID, model.StatusConfirmed,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return count, nil
}

// Insert writes a new registration row. A unique violation means another
// active row for the pair won the race and surfaces as ErrAlreadyRegistered.
func (r *RegistrationRepository) Insert(ctx context.Context, reg *model.Registration) error {
	_, err := r.q.exec(ctx,
		`INSERT INTO registrations (`+registrationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		reg.ID, reg.EventID, reg.UserID, reg.Status, reg.RegistrationDate,
		reg.UserName, reg.UserEmail, reg.EventTitle,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrAlreadyRegistered
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

// MarkCancelled flips a registration's status to CANCELLED. The row is kept
// as history; only the status changes.
func (r *RegistrationRepository) MarkCancelled(ctx context.Context, id string) error {
	tag, err := r.q.exec(ctx,
		`UPDATE registrations SET status = $2 WHERE id = $1`,
		id, model.StatusCancelled,
	)
	if err != nil {
		return fmt.Errorf("cancel registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRegistrationNotFound
	}
	return nil
}

// ListByEvent returns all registrations for a given event.
func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]model.Registration, error) {
	return r.list(ctx, `WHERE event_id = $1`, eventID)
}

// ListByUser returns all registrations made by a given user.
func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string) ([]model.Registration, error) {
	return r.list(ctx, `WHERE user_id = $1`, userID)
}

// ListByOrganizer returns registrations for every event organized by the
// given user.
func (r *RegistrationRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]model.Registration, error) {
	return r.list(ctx,
		`WHERE event_id IN (SELECT id FROM events WHERE organizer_id = $1)`, organizerID)
}

func (r *RegistrationRepository) list(ctx context.Context, where string, args ...any) ([]model.Registration, error) {
	rows, err := r.q.query(ctx,
		`SELECT `+registrationColumns+` FROM registrations `+where+` ORDER BY registration_date ASC`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		var reg model.Registration
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.RegistrationDate,
			&reg.UserName, &reg.UserEmail, &reg.EventTitle); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func scanRegistration(row pgx.Row) (*model.Registration, error) {
	var reg model.Registration
	err := row.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.RegistrationDate,
		&reg.UserName, &reg.UserEmail, &reg.EventTitle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return &reg, nil
}
