package postgres

import (
	"context"
	"fmt"

	"github.com/Fasilurahman/Event-Management-System/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ticketColumns = `id, ticket_id, event_id, buyer_id, status, purchase_date, qr_code`

type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

func (r *TicketRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

// MarkProcessed records a provider webhook event id. It returns false
// without error when the id was already recorded, which is how
// redelivered webhooks are detected.
func (r *TicketRepository) MarkProcessed(ctx context.Context, providerID string) (bool, error) {
	const stmt = `
INSERT INTO payment_events (provider_id)
VALUES ($1)
ON CONFLICT (provider_id) DO NOTHING`

	tag, err := r.exec(ctx, stmt, providerID)
	if err != nil {
		return false, fmt.Errorf("mark payment event processed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *TicketRepository) CreateTicket(ctx context.Context, t domain.Ticket) error {
	const stmt = `
INSERT INTO tickets (id, ticket_id, event_id, buyer_id, status, purchase_date, qr_code)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.exec(ctx, stmt,
		t.ID,
		t.TicketID,
		t.EventID,
		t.BuyerID,
		t.Status,
		t.PurchaseDate,
		t.QRCode,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTicket
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create ticket: %w", err)
	}
	return nil
}

// FindByTicketID looks a ticket up by its public identifier. Returns
// nil when no such ticket exists.
func (r *TicketRepository) FindByTicketID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_id = $1`

	t, err := r.scanTicket(r.queryRow(ctx, query, ticketID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	return &t, nil
}

func (r *TicketRepository) FindByBuyer(ctx context.Context, buyerID string) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE buyer_id = $1 ORDER BY purchase_date DESC`
	return r.queryTickets(ctx, query, buyerID)
}

func (r *TicketRepository) FindByEvent(ctx context.Context, eventID string) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE event_id = $1 ORDER BY purchase_date DESC`
	return r.queryTickets(ctx, query, eventID)
}

func (r *TicketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets ORDER BY purchase_date DESC`
	return r.queryTickets(ctx, query)
}

// LatestByBuyer returns the buyer's most recent ticket, or nil.
func (r *TicketRepository) LatestByBuyer(ctx context.Context, buyerID string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE buyer_id = $1 ORDER BY purchase_date DESC LIMIT 1`

	t, err := r.scanTicket(r.queryRow(ctx, query, buyerID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("latest ticket: %w", err)
	}
	return &t, nil
}

func (r *TicketRepository) queryTickets(ctx context.Context, sql string, args ...any) ([]domain.Ticket, error) {
	var rows pgx.Rows
	var err error
	if tx := txFromContext(ctx); tx != nil {
		rows, err = tx.Query(ctx, sql, args...)
	} else {
		rows, err = r.pool.Query(ctx, sql, args...)
	}
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		t, err := r.scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	return tickets, nil
}

func (r *TicketRepository) scanTicket(row pgx.Row) (domain.Ticket, error) {
	var t domain.Ticket
	var status string
	err := row.Scan(&t.ID, &t.TicketID, &t.EventID, &t.BuyerID, &status, &t.PurchaseDate, &t.QRCode)
	if err != nil {
		return domain.Ticket{}, err
	}
	t.Status = domain.TicketStatus(status)
	return t, nil
}

func (r *TicketRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *TicketRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
