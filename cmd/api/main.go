package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Fasilurahman/Event-Management-System/internal/app"
	"github.com/Fasilurahman/Event-Management-System/internal/clock"
	"github.com/Fasilurahman/Event-Management-System/internal/config"
	"github.com/Fasilurahman/Event-Management-System/internal/notify"
	"github.com/Fasilurahman/Event-Management-System/internal/payment"
	"github.com/Fasilurahman/Event-Management-System/internal/storage/postgres"
	"github.com/Fasilurahman/Event-Management-System/internal/ticketpdf"
	"github.com/Fasilurahman/Event-Management-System/internal/ticketqr"
	transporthttp "github.com/Fasilurahman/Event-Management-System/internal/transport/http"
	"github.com/Fasilurahman/Event-Management-System/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()
	cfg := config.Load(logger)

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	eventRepo := postgres.NewEventRepository(pool)
	ticketRepo := postgres.NewTicketRepository(pool)

	checkoutClient := payment.NewCheckoutClient(cfg.StripeSecretKey, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL)
	verifier := payment.NewVerifier(cfg.StripeWebhookSecret)
	encoder := ticketqr.New()
	renderer := ticketpdf.NewRenderer("Eventure Ticket")
	identity := transporthttp.NewJWTIdentity(cfg.JWTSecret)

	checkoutSvc := app.NewCheckoutService(eventRepo, checkoutClient)
	ticketSvc := app.NewTicketService(ticketRepo)

	fulfillOpts := []app.FulfillmentOption{app.WithLogger(logger)}
	if cfg.MailerSendAPIKey != "" {
		mailer := notify.NewMailer(cfg.MailerSendAPIKey, cfg.MailFromName, cfg.MailFromEmail)
		fulfillOpts = append(fulfillOpts, app.WithNotifier(mailer))
	} else {
		logger.Printf("WARN: MAILERSEND_API_KEY not set, confirmation emails disabled")
	}
	fulfillSvc := app.NewFulfillmentService(ticketRepo, eventRepo, encoder, clock.NewSystem(), fulfillOpts...)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/checkout-sessions", transporthttp.HandleCreateCheckout(checkoutSvc, identity))
	mux.Handle("/payment-webhook", transporthttp.HandleWebhook(verifier, fulfillSvc, logger))
	mux.Handle("/tickets", transporthttp.HandleListTickets(ticketSvc))
	mux.Handle("/tickets/", transporthttp.HandleTickets(ticketSvc, identity, renderer, eventRepo))
	mux.Handle("/events/", transporthttp.HandleEventTickets(ticketSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	log.Printf("api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}
