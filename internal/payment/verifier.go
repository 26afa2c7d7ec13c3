package payment

import (
	"encoding/json"
	"fmt"

	"github.com/Fasilurahman/Event-Management-System/internal/domain"
	"github.com/stripe/stripe-go"
	"github.com/stripe/stripe-go/webhook"
)

// Verifier authenticates inbound webhook calls. Verification runs over
// the exact raw bytes received; a re-serialized body would not match
// the provider's signature.
type Verifier struct {
	secret string
}

func NewVerifier(signingSecret string) *Verifier {
	return &Verifier{secret: signingSecret}
}

// Verify checks the signature header against the payload and returns a
// typed event. Kinds other than checkout completion come back with the
// correlation fields empty; callers treat them as no-ops, not errors.
func (v *Verifier) Verify(payload []byte, sigHeader string) (domain.PaymentEvent, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, v.secret)
	if err != nil {
		return domain.PaymentEvent{}, fmt.Errorf("%w: %v", domain.ErrSignatureInvalid, err)
	}

	pe := domain.PaymentEvent{
		ProviderID: event.ID,
		Kind:       string(event.Type),
	}
	if pe.Kind != domain.KindCheckoutCompleted {
		return pe, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return domain.PaymentEvent{}, fmt.Errorf("decode checkout session: %w", err)
	}
	pe.EventID = sess.Metadata["eventId"]
	pe.BuyerID = sess.Metadata["userId"]
	pe.BuyerEmail = sess.CustomerEmail
	return pe, nil
}
