/**
 * @description
 * This file sets up the HTTP router for the remittance service. It defines the
 * API endpoints, associates them with their corresponding handlers, and applies
 * middleware for logging, panic recovery, CORS, and authentication.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 * - github.com/go-chi/cors: CORS middleware for chi.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/inyo-global/remittance-sample/internal/auth"
)

// NewRouter creates and returns the router for the remittance service.
func NewRouter(h *Handlers, tokens *auth.TokenIssuer) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	r.Route("/api", func(r chi.Router) {
		// Public endpoints.
		r.Post("/register", h.RegisterHandler)
		r.Post("/login", h.LoginHandler)
		r.Get("/beneficiaries/schema/{countryCode}", h.GetRecipientSchemaHandler)
		r.Get("/beneficiaries/account-schema/{countryCode}", h.GetRecipientAccountSchemaHandler)

		// Group routes that require authentication.
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(tokens))

			r.Get("/profile", h.GetProfileHandler)
			r.Post("/complete-profile", h.CompleteProfileHandler)
			r.Get("/limits", h.GetLimitsHandler)
			r.Get("/compliance", h.GetComplianceHandler)
			r.Get("/destinations", h.GetDestinationsHandler)
			r.Get("/banks/{countryCode}", h.GetBanksHandler)

			r.Post("/quotes", h.CreateQuoteHandler)

			r.Post("/payment-methods/cards", h.AddCardHandler)
			r.Post("/payment-methods/ach", h.AddACHHandler)
			r.Get("/payment-methods", h.ListPaymentMethodsHandler)
			r.Get("/payment-methods/{id}/sync", h.SyncPaymentMethodHandler)

			r.Get("/beneficiaries", h.ListBeneficiariesHandler)
			r.Post("/beneficiaries", h.CreateBeneficiaryHandler)
			r.Get("/beneficiaries/{id}/accounts", h.ListBeneficiaryAccountsHandler)
			r.Post("/beneficiaries/account", h.CreateBeneficiaryAccountHandler)

			r.Post("/transactions", h.CreateTransactionHandler)
			r.Get("/transactions", h.ListTransactionsHandler)
			r.Get("/transactions/{id}/sync", h.SyncTransactionHandler)
		})
	})

	return r
}
