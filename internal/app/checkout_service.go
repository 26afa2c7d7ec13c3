package app

import (
	"context"

	"github.com/Fasilurahman/Event-Management-System/internal/domain"
)

// EventCatalog is the slice of the catalog the checkout flow needs:
// a price/name read. Capacity is deliberately not checked here — it is
// enforced at fulfillment time, when the seat is actually taken.
type EventCatalog interface {
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
}

// SessionCreator abstracts the payment provider's checkout API.
type SessionCreator interface {
	CreateSession(ctx context.Context, ev domain.Event, buyerID string) (string, error)
}

type CheckoutService struct {
	events   EventCatalog
	provider SessionCreator
}

func NewCheckoutService(events EventCatalog, provider SessionCreator) *CheckoutService {
	return &CheckoutService{
		events:   events,
		provider: provider,
	}
}

// CreateSession starts a provider-hosted checkout for one seat at one
// event. Nothing is persisted locally; the returned id is opaque.
func (s *CheckoutService) CreateSession(ctx context.Context, eventID, buyerID string) (string, error) {
	if buyerID == "" {
		return "", domain.ErrBuyerRequired
	}

	ev, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return "", err
	}
	return s.provider.CreateSession(ctx, ev, buyerID)
}
