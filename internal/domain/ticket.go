package domain

import "time"

type TicketStatus string

const (
	TicketStatusBooked TicketStatus = "booked"
	TicketStatusUsed   TicketStatus = "used"
)

// Ticket is an issued admission. TicketID is the public identifier
// embedded in the QR code; ID is the storage row id.
type Ticket struct {
	ID           string
	TicketID     string
	EventID      string
	BuyerID      string
	Status       TicketStatus
	PurchaseDate time.Time
	// QRCode is the rendered scannable image (PNG bytes).
	QRCode []byte
}
