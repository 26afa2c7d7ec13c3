package ticketpdf

import (
	"bytes"
	"fmt"

	"github.com/Fasilurahman/Event-Management-System/internal/domain"
	"github.com/jung-kurt/gofpdf"
)

// Renderer produces a printable single-page ticket with the QR code
// embedded, suitable for download next to the in-app QR view.
type Renderer struct {
	title string
}

func NewRenderer(title string) *Renderer {
	if title == "" {
		title = "Event Ticket"
	}
	return &Renderer{title: title}
}

func (r *Renderer) Render(t domain.Ticket, eventName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	pdf.SetAutoPageBreak(false, 0)

	pdf.SetFont("Helvetica", "B", 22)
	pdf.Cell(0, 15, r.title)
	pdf.Ln(18)

	pdf.SetFont("Helvetica", "", 12)
	if eventName != "" {
		pdf.Cell(0, 8, "Event: "+eventName)
		pdf.Ln(8)
	}
	pdf.Cell(0, 8, "Ticket: "+t.TicketID)
	pdf.Ln(8)
	pdf.Cell(0, 8, "Purchased: "+t.PurchaseDate.Format("2 Jan 2006 15:04 MST"))
	pdf.Ln(8)
	pdf.Cell(0, 8, "Status: "+string(t.Status))
	pdf.Ln(14)

	if len(t.QRCode) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("qr-"+t.TicketID, opts, bytes.NewReader(t.QRCode))
		pdf.ImageOptions("qr-"+t.TicketID, 15, pdf.GetY(), 60, 60, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render ticket pdf: %w", err)
	}
	return buf.Bytes(), nil
}
