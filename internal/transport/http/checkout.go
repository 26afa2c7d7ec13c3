package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Fasilurahman/Event-Management-System/internal/domain"
)

// CheckoutStarter is the minimal interface needed to start a checkout.
type CheckoutStarter interface {
	CreateSession(ctx context.Context, eventID, buyerID string) (string, error)
}

// HandleCreateCheckout returns the handler for POST /checkout-sessions.
// The buyer id comes from the authenticated identity, never the body.
func HandleCreateCheckout(svc CheckoutStarter, identity IdentityProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		buyerID, err := identity.BuyerID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing or invalid credentials")
			return
		}

		var req createCheckoutRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.EventID == "" {
			writeError(w, http.StatusBadRequest, codeEventRequired, "event_id is required")
			return
		}

		sessionID, err := svc.CreateSession(r.Context(), req.EventID, buyerID)
		if err != nil {
			switch err {
			case domain.ErrEventNotFound:
				writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
			case domain.ErrInvalidID:
				writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
			case domain.ErrBuyerRequired:
				writeError(w, http.StatusUnauthorized, codeUnauthorized, err.Error())
			default:
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, createCheckoutResponse{SessionID: sessionID})
	}
}

type createCheckoutRequest struct {
	EventID string `json:"event_id"`
}

type createCheckoutResponse struct {
	SessionID string `json:"session_id"`
}
