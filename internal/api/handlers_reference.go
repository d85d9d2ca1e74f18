/**
 * @description
 * HTTP handlers for reference data: participant limits, compliance levels,
 * payout destinations, bank lists, recipient schemas, and FX quotes. Most of
 * these forward the provider's raw JSON payload untouched.
 */

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/inyo-global/remittance-sample/internal/domain"
)

// GetLimitsHandler returns the user's transaction limits. The service degrades
// to a zero-value payload when the provider is unreachable.
func (h *Handlers) GetLimitsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}

	limits, err := h.service.GetLimits(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, limits)
}

// GetComplianceHandler returns the provider's compliance levels, always fresh.
func (h *Handlers) GetComplianceHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}

	levels, err := h.service.GetCompliance(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, levels)
}

// GetDestinationsHandler returns the cached payout destination list.
func (h *Handlers) GetDestinationsHandler(w http.ResponseWriter, r *http.Request) {
	destinations, err := h.service.GetDestinations(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, destinations)
}

// GetBanksHandler returns the cached bank list for a destination country.
func (h *Handlers) GetBanksHandler(w http.ResponseWriter, r *http.Request) {
	countryCode := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "countryCode")))
	if countryCode == "" {
		writeError(w, http.StatusBadRequest, "countryCode is required")
		return
	}

	banks, err := h.service.GetBanks(r.Context(), countryCode)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, banks)
}

// GetRecipientSchemaHandler returns the provider's dynamic recipient form
// schema for a destination country.
func (h *Handlers) GetRecipientSchemaHandler(w http.ResponseWriter, r *http.Request) {
	countryCode := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "countryCode")))
	if countryCode == "" {
		writeError(w, http.StatusBadRequest, "countryCode is required")
		return
	}

	schema, err := h.service.GetRecipientSchema(r.Context(), countryCode)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, schema)
}

// GetRecipientAccountSchemaHandler returns the payout-account form schema for a
// destination country.
func (h *Handlers) GetRecipientAccountSchemaHandler(w http.ResponseWriter, r *http.Request) {
	countryCode := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "countryCode")))
	if countryCode == "" {
		writeError(w, http.StatusBadRequest, "countryCode is required")
		return
	}

	schema, err := h.service.GetRecipientAccountSchema(r.Context(), countryCode)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, schema)
}

// CreateQuoteHandler requests an FX quote from the provider and persists each
// returned option locally.
func (h *Handlers) CreateQuoteHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}

	var req domain.CreateQuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.FromCurrency == "" || req.ToCurrency == "" || req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "fromCurrency, toCurrency and a positive amount are required")
		return
	}

	quote, err := h.service.CreateQuote(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, quote)
}
