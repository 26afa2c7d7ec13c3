package http

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/Fasilurahman/Event-Management-System/internal/app"
	"github.com/Fasilurahman/Event-Management-System/internal/domain"
)

// Webhook bodies are small; anything larger is not the provider.
const maxWebhookBody = int64(65536)

const signatureHeader = "Stripe-Signature"

// EventVerifier authenticates a raw webhook payload.
type EventVerifier interface {
	Verify(payload []byte, sigHeader string) (domain.PaymentEvent, error)
}

// Fulfiller applies a verified payment event.
type Fulfiller interface {
	Fulfill(ctx context.Context, evt domain.PaymentEvent) (app.FulfillResult, error)
}

// HandleWebhook returns the handler for POST /payment-webhook. The body
// is consumed raw: signature verification must see the exact bytes the
// provider signed, so no JSON middleware may touch this route.
//
// Response contract: 4xx only on signature failure; business outcomes
// (ignored, failed, already processed) answer 200 so the provider stops
// redelivering a request whose payment is already captured; 5xx only on
// infrastructure trouble, where provider retry is the recovery path.
func HandleWebhook(verifier EventVerifier, fulfiller Fulfiller, logger *log.Logger) http.HandlerFunc {
	if logger == nil {
		logger = log.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBody)
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "unreadable body")
			return
		}

		evt, err := verifier.Verify(payload, r.Header.Get(signatureHeader))
		if err != nil {
			if errors.Is(err, domain.ErrSignatureInvalid) {
				logger.Printf("webhook rejected: signature verification failed remote=%s", r.RemoteAddr)
				writeError(w, http.StatusBadRequest, codeSignatureInvalid, "signature verification failed")
				return
			}
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "malformed event payload")
			return
		}

		res, err := fulfiller.Fulfill(r.Context(), evt)
		if err != nil {
			logger.Printf("webhook fulfillment error provider_event=%s: %v", evt.ProviderID, err)
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, webhookResponse{Received: true, Outcome: string(res.Outcome)})
	}
}

type webhookResponse struct {
	Received bool   `json:"received"`
	Outcome  string `json:"outcome"`
}
