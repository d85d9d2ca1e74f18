/**
 * @description
 * HTTP handlers for funding instruments: card and ACH registration, listing,
 * and on-demand status sync against the provider.
 */

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/inyo-global/remittance-sample/internal/domain"
)

// AddCardHandler registers a tokenized card as a funding account. A provider
// decline leaves no local row; a 3-D Secure challenge returns the redirect URL.
func (h *Handlers) AddCardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}

	var req domain.AddCardRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Token.Token == "" || req.Token.LastFourDigits == "" {
		writeError(w, http.StatusBadRequest, "card token is required")
		return
	}

	result, err := h.service.AddCard(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	payload := map[string]interface{}{
		"paymentMethod": result.Method,
		"status":        result.Status,
	}
	if result.RedirectAcsURL != "" {
		payload["redirectAcsUrl"] = result.RedirectAcsURL
	}
	writeJSON(w, http.StatusCreated, payload)
}

// AddACHHandler registers a US bank-debit funding account.
func (h *Handlers) AddACHHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}

	var req domain.AddACHRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.BankData.RoutingNumber == "" || req.BankData.AccountNumber == "" {
		writeError(w, http.StatusBadRequest, "routingNumber and accountNumber are required")
		return
	}

	method, err := h.service.AddACH(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"paymentMethod": method})
}

// ListPaymentMethodsHandler returns the user's usable funding instruments.
// Instruments stalled in ActionRequired or Challenge states are filtered out.
func (h *Handlers) ListPaymentMethodsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}

	methods, err := h.service.ListPaymentMethods(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"paymentMethods": methods})
}

// SyncPaymentMethodHandler refetches a funding account's status from the
// provider, typically after a 3-D Secure challenge completes.
func (h *Handlers) SyncPaymentMethodHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}

	methodID, ok := parseUUIDParam(w, "payment method id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	result, err := h.service.SyncPaymentMethod(r.Context(), userID, methodID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": result.Status,
		"data":   result.Raw,
	})
}
