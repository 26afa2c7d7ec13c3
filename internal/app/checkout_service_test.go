package app

import (
	"context"
	"errors"
	"testing"

	"github.com/Fasilurahman/Event-Management-System/internal/domain"
)

func TestCheckoutService_CreateSession(t *testing.T) {
	t.Parallel()

	event := domain.Event{
		ID:           testEventID,
		Name:         "Go Conference",
		Price:        4500,
		Attendees:    10,
		MaxAttendees: 100,
	}

	t.Run("returns the provider session id", func(t *testing.T) {
		catalog := fakeCatalog{events: map[string]domain.Event{event.ID: event}}
		provider := &fakeSessionCreator{sessionID: "cs_test_123"}
		svc := NewCheckoutService(catalog, provider)

		id, err := svc.CreateSession(context.Background(), event.ID, testBuyerID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if id != "cs_test_123" {
			t.Fatalf("expected session id cs_test_123, got %s", id)
		}
		if provider.gotEvent.ID != event.ID || provider.gotEvent.Price != event.Price {
			t.Fatalf("provider saw wrong event: %+v", provider.gotEvent)
		}
		if provider.gotBuyer != testBuyerID {
			t.Fatalf("provider saw wrong buyer: %s", provider.gotBuyer)
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		catalog := fakeCatalog{events: map[string]domain.Event{}}
		svc := NewCheckoutService(catalog, &fakeSessionCreator{})

		_, err := svc.CreateSession(context.Background(), testEventID, testBuyerID)
		if err != domain.ErrEventNotFound {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
	})

	t.Run("missing buyer", func(t *testing.T) {
		catalog := fakeCatalog{events: map[string]domain.Event{event.ID: event}}
		svc := NewCheckoutService(catalog, &fakeSessionCreator{})

		_, err := svc.CreateSession(context.Background(), event.ID, "")
		if err != domain.ErrBuyerRequired {
			t.Fatalf("expected ErrBuyerRequired, got %v", err)
		}
	})

	t.Run("provider failure propagates", func(t *testing.T) {
		catalog := fakeCatalog{events: map[string]domain.Event{event.ID: event}}
		provider := &fakeSessionCreator{err: errors.New("provider down")}
		svc := NewCheckoutService(catalog, provider)

		if _, err := svc.CreateSession(context.Background(), event.ID, testBuyerID); err == nil {
			t.Fatalf("expected error")
		}
	})
}

type fakeCatalog struct {
	events map[string]domain.Event
}

func (f fakeCatalog) GetEvent(_ context.Context, eventID string) (domain.Event, error) {
	ev, ok := f.events[eventID]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return ev, nil
}

type fakeSessionCreator struct {
	sessionID string
	err       error
	gotEvent  domain.Event
	gotBuyer  string
}

func (f *fakeSessionCreator) CreateSession(_ context.Context, ev domain.Event, buyerID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.gotEvent = ev
	f.gotBuyer = buyerID
	return f.sessionID, nil
}
