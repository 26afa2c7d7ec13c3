package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Fasilurahman/Event-Management-System/internal/domain"
	"github.com/Fasilurahman/Event-Management-System/internal/testutil"
	"github.com/google/uuid"
)

func newTicket(eventID, buyerID string, purchased time.Time) domain.Ticket {
	return domain.Ticket{
		ID:           uuid.New().String(),
		TicketID:     uuid.New().String(),
		EventID:      eventID,
		BuyerID:      buyerID,
		Status:       domain.TicketStatusBooked,
		PurchaseDate: purchased,
		// Unique per ticket: the column carries a UNIQUE constraint.
		QRCode: []byte(uuid.New().String()),
	}
}

func TestTicketRepository_CreateTicket(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewTicketRepository(pool)
	eventID := testutil.InsertEvent(t, ctx, pool, "Jazz Evening", 3000, 0, 50)

	ticket := newTicket(eventID, uuid.New().String(), time.Now().UTC())

	if err := repo.CreateTicket(ctx, ticket); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("round trips through lookup", func(t *testing.T) {
		got, err := repo.FindByTicketID(ctx, ticket.TicketID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil {
			t.Fatal("expected a ticket, got nil")
		}
		if got.EventID != eventID || got.BuyerID != ticket.BuyerID || got.Status != domain.TicketStatusBooked {
			t.Fatalf("unexpected ticket: %+v", got)
		}
		if string(got.QRCode) != string(ticket.QRCode) {
			t.Fatal("qr code did not survive the round trip")
		}
	})

	t.Run("rejects duplicate ticket id", func(t *testing.T) {
		dup := newTicket(eventID, uuid.New().String(), time.Now().UTC())
		dup.TicketID = ticket.TicketID

		if err := repo.CreateTicket(ctx, dup); !errors.Is(err, domain.ErrDuplicateTicket) {
			t.Fatalf("expected ErrDuplicateTicket, got %v", err)
		}
	})

	t.Run("rejects unknown event", func(t *testing.T) {
		orphan := newTicket(uuid.New().String(), uuid.New().String(), time.Now().UTC())
		if err := repo.CreateTicket(ctx, orphan); err == nil {
			t.Fatal("expected a foreign key error for unknown event")
		}
	})
}

func TestTicketRepository_Lookups(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewTicketRepository(pool)

	eventA := testutil.InsertEvent(t, ctx, pool, "Event A", 1000, 0, 10)
	eventB := testutil.InsertEvent(t, ctx, pool, "Event B", 2000, 0, 10)
	buyer := uuid.New().String()
	otherBuyer := uuid.New().String()

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	older := newTicket(eventA, buyer, base)
	newer := newTicket(eventB, buyer, base.Add(time.Hour))
	foreign := newTicket(eventA, otherBuyer, base.Add(30*time.Minute))

	testutil.InsertTicket(t, ctx, pool, older)
	testutil.InsertTicket(t, ctx, pool, newer)
	testutil.InsertTicket(t, ctx, pool, foreign)

	t.Run("finds by buyer newest first", func(t *testing.T) {
		got, err := repo.FindByBuyer(ctx, buyer)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 tickets, got %d", len(got))
		}
		if got[0].TicketID != newer.TicketID || got[1].TicketID != older.TicketID {
			t.Fatalf("expected newest first, got %s then %s", got[0].TicketID, got[1].TicketID)
		}
	})

	t.Run("finds by event", func(t *testing.T) {
		got, err := repo.FindByEvent(ctx, eventA)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 tickets for event A, got %d", len(got))
		}
	})

	t.Run("lists all", func(t *testing.T) {
		got, err := repo.ListAll(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 tickets, got %d", len(got))
		}
	})

	t.Run("latest by buyer", func(t *testing.T) {
		got, err := repo.LatestByBuyer(ctx, buyer)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || got.TicketID != newer.TicketID {
			t.Fatalf("expected the newest ticket, got %+v", got)
		}
	})

	t.Run("latest for buyer without tickets is nil", func(t *testing.T) {
		got, err := repo.LatestByBuyer(ctx, uuid.New().String())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil, got %+v", got)
		}
	})

	t.Run("unknown ticket id is nil", func(t *testing.T) {
		got, err := repo.FindByTicketID(ctx, uuid.New().String())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil, got %+v", got)
		}
	})
}

func TestTicketRepository_MarkProcessed(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewTicketRepository(pool)

	fresh, err := repo.MarkProcessed(ctx, "evt_123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fresh {
		t.Fatal("first insert must be fresh")
	}

	fresh, err = repo.MarkProcessed(ctx, "evt_123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh {
		t.Fatal("second insert of the same provider id must not be fresh")
	}

	fresh, err = repo.MarkProcessed(ctx, "evt_456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fresh {
		t.Fatal("a different provider id must be fresh")
	}
}

// A rolled back transaction must forget the dedup marker, so the
// provider's retry of a failed delivery is processed as fresh.
func TestTicketRepository_MarkProcessed_RollbackForgets(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)

	repo := NewTicketRepository(pool)

	wantErr := errors.New("boom")
	err := repo.WithTx(ctx, func(txCtx context.Context) error {
		fresh, err := repo.MarkProcessed(txCtx, "evt_retry")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !fresh {
			t.Fatal("expected fresh inside the transaction")
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}

	fresh, err := repo.MarkProcessed(ctx, "evt_retry")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fresh {
		t.Fatal("rolled back marker must not survive")
	}
}
