package app

import (
	"context"
	"log"

	"github.com/Fasilurahman/Event-Management-System/internal/clock"
	"github.com/Fasilurahman/Event-Management-System/internal/domain"
	"github.com/google/uuid"
)

// TicketWriter persists tickets and the processed-webhook ledger. Both
// live behind one WithTx so fulfillment commits or rolls back as a unit.
type TicketWriter interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	MarkProcessed(ctx context.Context, providerID string) (bool, error)
	CreateTicket(ctx context.Context, t domain.Ticket) error
}

// CapacityLedger reserves exactly one seat atomically.
type CapacityLedger interface {
	ReserveSeat(ctx context.Context, eventID string) (int, error)
}

// QREncoder renders the ticket identity triple into a scannable code.
type QREncoder interface {
	Encode(ticketID, eventID, buyerID string) ([]byte, error)
}

// Notifier delivers the booking confirmation. May be nil.
type Notifier interface {
	TicketIssued(ctx context.Context, recipient, ticketID string) error
}

type FulfillOutcome string

const (
	// OutcomeFulfilled: seat reserved, ticket minted and stored.
	OutcomeFulfilled FulfillOutcome = "fulfilled"
	// OutcomeIgnored: event kind or metadata gave nothing to act on.
	OutcomeIgnored FulfillOutcome = "ignored"
	// OutcomeFailed: payment captured but no seat/ticket; needs
	// out-of-band reconciliation.
	OutcomeFailed FulfillOutcome = "failed"
	// OutcomeAlreadyProcessed: redelivery of an event already handled.
	OutcomeAlreadyProcessed FulfillOutcome = "already_processed"
)

type FulfillResult struct {
	Outcome FulfillOutcome
	Ticket  domain.Ticket
	// Reason carries the business error behind OutcomeFailed.
	Reason error
}

// FulfillmentService turns a verified payment-completed event into an
// issued ticket. It is idempotent per provider event id: webhook
// delivery is at-least-once and a redelivery must not book a second
// seat or mint a second ticket.
type FulfillmentService struct {
	tickets  TicketWriter
	ledger   CapacityLedger
	encoder  QREncoder
	clock    clock.Clock
	notifier Notifier
	logger   *log.Logger
}

func NewFulfillmentService(tickets TicketWriter, ledger CapacityLedger, encoder QREncoder, clk clock.Clock, opts ...FulfillmentOption) *FulfillmentService {
	svc := &FulfillmentService{
		tickets: tickets,
		ledger:  ledger,
		encoder: encoder,
		clock:   clk,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type FulfillmentOption func(*FulfillmentService)

// WithNotifier enables the confirmation email on fulfilled bookings.
func WithNotifier(n Notifier) FulfillmentOption {
	return func(s *FulfillmentService) {
		s.notifier = n
	}
}

// WithLogger overrides the default logger.
func WithLogger(l *log.Logger) FulfillmentOption {
	return func(s *FulfillmentService) {
		if l != nil {
			s.logger = l
		}
	}
}

// Fulfill applies the only locally implemented transition of the
// checkout state machine: out of awaiting-payment, into fulfilled,
// ignored or failed. A non-nil error means infrastructure trouble; the
// webhook endpoint answers 5xx so the provider redelivers. Business
// failures (sold out, unknown event) come back as OutcomeFailed with a
// nil error: the charge already happened provider-side and a retry
// could never succeed, so the delivery must be acknowledged.
func (s *FulfillmentService) Fulfill(ctx context.Context, evt domain.PaymentEvent) (FulfillResult, error) {
	if evt.Kind != domain.KindCheckoutCompleted {
		s.logger.Printf("fulfillment ignored kind=%s provider_event=%s", evt.Kind, evt.ProviderID)
		return FulfillResult{Outcome: OutcomeIgnored}, nil
	}
	// The provider contract guarantees the metadata for this kind; a
	// malformed event is dropped, not errored, matching that contract.
	if evt.EventID == "" || evt.BuyerID == "" {
		s.logger.Printf("fulfillment ignored: missing correlation metadata provider_event=%s", evt.ProviderID)
		return FulfillResult{Outcome: OutcomeIgnored}, nil
	}
	if _, err := uuid.Parse(evt.EventID); err != nil {
		s.logger.Printf("fulfillment ignored: malformed event id provider_event=%s", evt.ProviderID)
		return FulfillResult{Outcome: OutcomeIgnored}, nil
	}
	if _, err := uuid.Parse(evt.BuyerID); err != nil {
		s.logger.Printf("fulfillment ignored: malformed buyer id provider_event=%s", evt.ProviderID)
		return FulfillResult{Outcome: OutcomeIgnored}, nil
	}

	now := s.clock.Now()
	var result FulfillResult

	err := s.tickets.WithTx(ctx, func(txCtx context.Context) error {
		fresh, err := s.tickets.MarkProcessed(txCtx, evt.ProviderID)
		if err != nil {
			return err
		}
		if !fresh {
			result = FulfillResult{Outcome: OutcomeAlreadyProcessed}
			return nil
		}

		if _, err := s.ledger.ReserveSeat(txCtx, evt.EventID); err != nil {
			switch err {
			case domain.ErrSoldOut, domain.ErrEventNotFound:
				// Commit the dedup marker anyway: redelivering this
				// event cannot turn the failure into a success.
				s.logger.Printf("fulfillment failed event=%s provider_event=%s reason=%v", evt.EventID, evt.ProviderID, err)
				result = FulfillResult{Outcome: OutcomeFailed, Reason: err}
				return nil
			default:
				return err
			}
		}

		ticketID := uuid.New().String()
		qr, err := s.encoder.Encode(ticketID, evt.EventID, evt.BuyerID)
		if err != nil {
			return err
		}

		ticket := domain.Ticket{
			ID:           uuid.New().String(),
			TicketID:     ticketID,
			EventID:      evt.EventID,
			BuyerID:      evt.BuyerID,
			Status:       domain.TicketStatusBooked,
			PurchaseDate: now,
			QRCode:       qr,
		}
		if err := s.tickets.CreateTicket(txCtx, ticket); err != nil {
			return err
		}

		result = FulfillResult{Outcome: OutcomeFulfilled, Ticket: ticket}
		return nil
	})
	if err != nil {
		return FulfillResult{}, err
	}

	if result.Outcome == OutcomeFulfilled {
		s.logger.Printf("ticket issued ticket=%s event=%s buyer=%s", result.Ticket.TicketID, evt.EventID, evt.BuyerID)
		if s.notifier != nil && evt.BuyerEmail != "" {
			if err := s.notifier.TicketIssued(ctx, evt.BuyerEmail, result.Ticket.TicketID); err != nil {
				s.logger.Printf("WARN: confirmation email failed ticket=%s: %v", result.Ticket.TicketID, err)
			}
		}
	}
	return result, nil
}
