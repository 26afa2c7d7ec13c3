package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/mailersend/mailersend-go"
)

const sendTimeout = 5 * time.Second

// Mailer sends the booking confirmation mail after a fulfilled
// payment. Delivery is best-effort; the caller logs failures and never
// fails the booking over them.
type Mailer struct {
	client    *mailersend.Mailersend
	fromName  string
	fromEmail string
}

func NewMailer(apiKey, fromName, fromEmail string) *Mailer {
	return &Mailer{
		client:    mailersend.NewMailersend(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (m *Mailer) TicketIssued(ctx context.Context, recipient, ticketID string) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	message := m.client.Email.NewMessage()
	message.SetFrom(mailersend.From{Name: m.fromName, Email: m.fromEmail})
	message.SetRecipients([]mailersend.Recipient{{Email: recipient}})
	message.SetSubject("Your ticket is booked")
	message.SetText(fmt.Sprintf(
		"Your booking is confirmed.\n\nTicket ID: %s\n\nShow the QR code from your profile at the entrance.",
		ticketID,
	))

	if _, err := m.client.Email.Send(ctx, message); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	return nil
}
