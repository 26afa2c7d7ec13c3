package payment

import (
	"context"
	"fmt"

	"github.com/Fasilurahman/Event-Management-System/internal/domain"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go"
	"github.com/stripe/stripe-go/checkout/session"
)

// CheckoutClient creates provider-hosted checkout sessions. Nothing is
// persisted locally: the session's metadata is the only link back to
// the event and buyer, echoed verbatim by the completion webhook.
type CheckoutClient struct {
	successURL string
	cancelURL  string
}

func NewCheckoutClient(apiKey, successURL, cancelURL string) *CheckoutClient {
	stripe.Key = apiKey
	return &CheckoutClient{
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// CreateSession builds a single-line-item session at the event's price
// (smallest currency unit, quantity 1) and returns the opaque session id.
func (c *CheckoutClient) CreateSession(ctx context.Context, ev domain.Event, buyerID string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Name:     stripe.String(ev.Name),
				Amount:   stripe.Int64(ev.Price),
				Currency: stripe.String(string(stripe.CurrencyUSD)),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(c.successURL),
		CancelURL:  stripe.String(c.cancelURL),
	}
	params.AddMetadata("eventId", ev.ID)
	params.AddMetadata("userId", buyerID)
	// Stripe-side idempotency for network retries of this call.
	params.SetIdempotencyKey(uuid.New().String())

	s, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return s.ID, nil
}
