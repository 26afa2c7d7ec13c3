package ticketqr

import (
	"encoding/json"
	"fmt"

	"github.com/Fasilurahman/Event-Management-System/internal/domain"
	qrcode "github.com/skip2/go-qrcode"
)

const imageSize = 256

// payload is what a scanner reads back. Field names match what the
// verification endpoint expects.
type payload struct {
	TicketID string `json:"ticketId"`
	EventID  string `json:"eventId"`
	UserID   string `json:"userId"`
}

// Encoder renders ticket identity triples into scannable PNG codes.
// Encoding is deterministic: the same triple always produces a code
// that decodes to the same payload.
type Encoder struct{}

func New() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Encode(ticketID, eventID, buyerID string) ([]byte, error) {
	data, err := json.Marshal(payload{
		TicketID: ticketID,
		EventID:  eventID,
		UserID:   buyerID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal qr payload: %w", err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, imageSize)
	if err != nil {
		// The only encode failure mode is content exceeding QR capacity.
		return nil, fmt.Errorf("%w: %v", domain.ErrPayloadTooLarge, err)
	}
	return png, nil
}
