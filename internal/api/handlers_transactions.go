/**
 * @description
 * HTTP handlers for transaction submission, history, and status reconciliation.
 * Submission validates the full ownership chain in the service layer before any
 * provider call is made.
 */

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/inyo-global/remittance-sample/internal/domain"
)

// CreateTransactionHandler submits a remittance built from previously created
// references (beneficiary, payout account, funding instrument, quote).
func (h *Handlers) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}

	var req domain.CreateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.BeneficiaryID == uuid.Nil || req.AccountID == uuid.Nil ||
		req.PaymentMethodID == uuid.Nil || req.QuoteID == "" {
		writeError(w, http.StatusBadRequest, "beneficiaryId, accountId, paymentMethodId and quoteId are required")
		return
	}

	tx, err := h.service.CreateTransaction(r.Context(), userID, req, clientIP(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"transaction": tx})
}

// ListTransactionsHandler returns the user's transaction history, newest first.
func (h *Handlers) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}

	transactions, err := h.service.ListTransactions(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"transactions": transactions})
}

// SyncTransactionHandler refetches a transaction from the provider and
// refreshes the local status. Used to reconcile after timeouts or webhook gaps.
func (h *Handlers) SyncTransactionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}

	transactionID, ok := parseUUIDParam(w, "transaction id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	tx, err := h.service.SyncTransaction(r.Context(), userID, transactionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"transaction": tx})
}
