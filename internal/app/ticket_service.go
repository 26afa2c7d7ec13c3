package app

import (
	"context"

	"github.com/Fasilurahman/Event-Management-System/internal/domain"
)

// TicketReader is the lookup side of the ticket store. Results are
// immutable snapshots; nothing here mutates state.
type TicketReader interface {
	FindByTicketID(ctx context.Context, ticketID string) (*domain.Ticket, error)
	FindByBuyer(ctx context.Context, buyerID string) ([]domain.Ticket, error)
	FindByEvent(ctx context.Context, eventID string) ([]domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	LatestByBuyer(ctx context.Context, buyerID string) (*domain.Ticket, error)
}

type TicketService struct {
	tickets TicketReader
}

func NewTicketService(tickets TicketReader) *TicketService {
	return &TicketService{tickets: tickets}
}

// Verify resolves a scanned ticket id. It reads only; transitioning a
// ticket to used is not implemented.
func (s *TicketService) Verify(ctx context.Context, ticketID string) (domain.Ticket, error) {
	t, err := s.tickets.FindByTicketID(ctx, ticketID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if t == nil {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	return *t, nil
}

func (s *TicketService) ForBuyer(ctx context.Context, buyerID string) ([]domain.Ticket, error) {
	if buyerID == "" {
		return nil, domain.ErrBuyerRequired
	}
	return s.tickets.FindByBuyer(ctx, buyerID)
}

func (s *TicketService) ForEvent(ctx context.Context, eventID string) ([]domain.Ticket, error) {
	return s.tickets.FindByEvent(ctx, eventID)
}

func (s *TicketService) All(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.ListAll(ctx)
}

func (s *TicketService) Latest(ctx context.Context, buyerID string) (domain.Ticket, error) {
	if buyerID == "" {
		return domain.Ticket{}, domain.ErrBuyerRequired
	}
	t, err := s.tickets.LatestByBuyer(ctx, buyerID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if t == nil {
		return domain.Ticket{}, domain.ErrTicketNotFound
	}
	return *t, nil
}
