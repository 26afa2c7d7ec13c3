package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Fasilurahman/Event-Management-System/internal/domain"
)

// TicketQueries is the read surface of the ticket store used by the
// HTTP layer.
type TicketQueries interface {
	Verify(ctx context.Context, ticketID string) (domain.Ticket, error)
	ForBuyer(ctx context.Context, buyerID string) ([]domain.Ticket, error)
	ForEvent(ctx context.Context, eventID string) ([]domain.Ticket, error)
	All(ctx context.Context) ([]domain.Ticket, error)
	Latest(ctx context.Context, buyerID string) (domain.Ticket, error)
}

// TicketRenderer produces the downloadable PDF form of a ticket.
type TicketRenderer interface {
	Render(t domain.Ticket, eventName string) ([]byte, error)
}

// EventNamer resolves an event's display name for the PDF. Lookup
// failures degrade to a nameless ticket, never to an error.
type EventNamer interface {
	GetEvent(ctx context.Context, eventID string) (domain.Event, error)
}

// HandleListTickets returns the handler for GET /tickets.
func HandleListTickets(svc TicketQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}
		tickets, err := svc.All(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, ticketListResponse(tickets))
	}
}

// HandleTickets serves the /tickets/ subtree: mine, latest,
// verify/{ticketId} and {ticketId}/pdf.
func HandleTickets(svc TicketQueries, identity IdentityProvider, renderer TicketRenderer, events EventNamer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) < 2 || parts[0] != "tickets" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch {
		case len(parts) == 2 && parts[1] == "mine":
			serveBuyerTickets(w, r, svc, identity)
		case len(parts) == 2 && parts[1] == "latest":
			serveLatestTicket(w, r, svc, identity)
		case len(parts) == 3 && parts[1] == "verify" && parts[2] != "":
			serveVerifyTicket(w, r, svc, parts[2])
		case len(parts) == 3 && parts[2] == "pdf" && parts[1] != "":
			serveTicketPDF(w, r, svc, renderer, events, parts[1])
		default:
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		}
	}
}

// HandleEventTickets serves GET /events/{eventId}/tickets.
func HandleEventTickets(svc TicketQueries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) != 3 || parts[0] != "events" || parts[1] == "" || parts[2] != "tickets" {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		tickets, err := svc.ForEvent(r.Context(), parts[1])
		if err != nil {
			if err == domain.ErrInvalidID {
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, ticketListResponse(tickets))
	}
}

func serveBuyerTickets(w http.ResponseWriter, r *http.Request, svc TicketQueries, identity IdentityProvider) {
	buyerID, err := identity.BuyerID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing or invalid credentials")
		return
	}
	tickets, err := svc.ForBuyer(r.Context(), buyerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, ticketListResponse(tickets))
}

func serveLatestTicket(w http.ResponseWriter, r *http.Request, svc TicketQueries, identity IdentityProvider) {
	buyerID, err := identity.BuyerID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing or invalid credentials")
		return
	}
	ticket, err := svc.Latest(r.Context(), buyerID)
	if err != nil {
		if err == domain.ErrTicketNotFound {
			writeError(w, http.StatusNotFound, codeTicketNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toTicketResponse(ticket))
}

func serveVerifyTicket(w http.ResponseWriter, r *http.Request, svc TicketQueries, ticketID string) {
	ticket, err := svc.Verify(r.Context(), ticketID)
	if err != nil {
		switch err {
		case domain.ErrTicketNotFound:
			writeError(w, http.StatusNotFound, codeTicketNotFound, err.Error())
		case domain.ErrInvalidID:
			writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, toTicketResponse(ticket))
}

func serveTicketPDF(w http.ResponseWriter, r *http.Request, svc TicketQueries, renderer TicketRenderer, events EventNamer, ticketID string) {
	ticket, err := svc.Verify(r.Context(), ticketID)
	if err != nil {
		switch err {
		case domain.ErrTicketNotFound:
			writeError(w, http.StatusNotFound, codeTicketNotFound, err.Error())
		case domain.ErrInvalidID:
			writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		}
		return
	}

	eventName := ""
	if events != nil {
		if ev, err := events.GetEvent(r.Context(), ticket.EventID); err == nil {
			eventName = ev.Name
		}
	}

	pdf, err := renderer.Render(ticket, eventName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="ticket-`+ticket.TicketID+`.pdf"`)
	_, _ = w.Write(pdf)
}

type ticketResponse struct {
	TicketID     string    `json:"ticket_id"`
	EventID      string    `json:"event_id"`
	BuyerID      string    `json:"buyer_id"`
	Status       string    `json:"status"`
	PurchaseDate time.Time `json:"purchase_date"`
	// QRCode is base64 PNG, ready for a data URL on the client.
	QRCode []byte `json:"qr_code"`
}

func toTicketResponse(t domain.Ticket) ticketResponse {
	return ticketResponse{
		TicketID:     t.TicketID,
		EventID:      t.EventID,
		BuyerID:      t.BuyerID,
		Status:       string(t.Status),
		PurchaseDate: t.PurchaseDate,
		QRCode:       t.QRCode,
	}
}

func ticketListResponse(tickets []domain.Ticket) []ticketResponse {
	out := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketResponse(t))
	}
	return out
}
