package postgres

import (
	"context"
	"fmt"

	"github.com/Fasilurahman/Event-Management-System/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventRepository owns the attendee count invariant. Catalog content
// management lives elsewhere; this repository only reads pricing and
// capacity and performs the atomic seat reservation.
type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *EventRepository) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	const query = `SELECT id, name, price, attendees, max_attendees FROM events WHERE id = $1`

	var e domain.Event
	err := r.queryRow(ctx, query, eventID).
		Scan(&e.ID, &e.Name, &e.Price, &e.Attendees, &e.MaxAttendees)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// ReserveSeat increments the attendee count if and only if capacity
// remains, in one conditional statement evaluated by Postgres. Two
// concurrent reservations for the last seat cannot both succeed.
func (r *EventRepository) ReserveSeat(ctx context.Context, eventID string) (int, error) {
	const stmt = `
UPDATE events
SET attendees = attendees + 1
WHERE id = $1 AND attendees < max_attendees
RETURNING attendees`

	var attendees int
	err := r.queryRow(ctx, stmt, eventID).Scan(&attendees)
	if err == nil {
		return attendees, nil
	}
	if isInvalidUUID(err) {
		return 0, domain.ErrInvalidID
	}
	if err != pgx.ErrNoRows {
		return 0, fmt.Errorf("reserve seat: %w", err)
	}

	// No row matched: either the event does not exist or it is full.
	var exists bool
	if err := r.queryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("reserve seat existence check: %w", err)
	}
	if !exists {
		return 0, domain.ErrEventNotFound
	}
	return 0, domain.ErrSoldOut
}

// CreateEvent seeds a catalog row. The booking core never calls this in
// request handling; it exists for startup seeding and tests.
func (r *EventRepository) CreateEvent(ctx context.Context, e domain.Event) (string, error) {
	const stmt = `
INSERT INTO events (name, price, attendees, max_attendees)
VALUES ($1, $2, $3, $4)
RETURNING id`

	var id string
	if err := r.queryRow(ctx, stmt, e.Name, e.Price, e.Attendees, e.MaxAttendees).Scan(&id); err != nil {
		return "", fmt.Errorf("create event: %w", err)
	}
	return id, nil
}

func (r *EventRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
