package domain

// KindCheckoutCompleted is the only provider event kind that triggers
// fulfillment; every other kind is accepted and ignored.
const KindCheckoutCompleted = "checkout.session.completed"

// PaymentEvent is a verified notification from the payment provider.
// EventID and BuyerID come from the correlation metadata the provider
// echoes back; they are empty for kinds other than checkout completion.
type PaymentEvent struct {
	// ProviderID is the provider's own event id. Webhook delivery is
	// at-least-once, so fulfillment dedupes on it.
	ProviderID string
	Kind       string
	EventID    string
	BuyerID    string
	// BuyerEmail is set when the provider knows the payer's address;
	// used only for the confirmation email.
	BuyerEmail string
}
