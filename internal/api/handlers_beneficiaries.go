/**
 * @description
 * HTTP handlers for beneficiaries and their payout accounts. Account routes
 * enforce the ownership chain (user owns beneficiary owns account) inside the
 * service layer; a foreign resource looks identical to a missing one.
 */

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/inyo-global/remittance-sample/internal/domain"
)

// ListBeneficiariesHandler returns the user's saved recipients.
func (h *Handlers) ListBeneficiariesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}

	beneficiaries, err := h.service.ListBeneficiaries(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"beneficiaries": beneficiaries})
}

// CreateBeneficiaryHandler registers a recipient with the provider and saves it
// locally.
func (h *Handlers) CreateBeneficiaryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}

	var req domain.CreateBeneficiaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.FormData) == 0 {
		writeError(w, http.StatusBadRequest, "formData is required")
		return
	}

	beneficiary, err := h.service.CreateBeneficiary(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"beneficiary": beneficiary})
}

// ListBeneficiaryAccountsHandler returns the payout accounts saved under one of
// the user's beneficiaries.
func (h *Handlers) ListBeneficiaryAccountsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}

	beneficiaryID, ok := parseUUIDParam(w, "beneficiary id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	accounts, err := h.service.ListBeneficiaryAccounts(r.Context(), userID, beneficiaryID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"accounts": accounts})
}

// CreateBeneficiaryAccountHandler attaches a payout account to one of the
// user's beneficiaries via the provider gateway.
func (h *Handlers) CreateBeneficiaryAccountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}

	var req domain.CreateBeneficiaryAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.BeneficiaryID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "beneficiaryId is required")
		return
	}
	if len(req.FormData) == 0 {
		writeError(w, http.StatusBadRequest, "formData is required")
		return
	}

	account, err := h.service.CreateBeneficiaryAccount(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"account": account})
}
