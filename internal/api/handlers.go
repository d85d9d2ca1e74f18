/**
 * @description
 * This file contains the core HTTP handlers for the remittance API plus the
 * shared response and error-mapping helpers. Handlers parse incoming requests,
 * call the application service, and write JSON responses. They act as the bridge
 * between the web layer and the business logic layer.
 *
 * @dependencies
 * - encoding/json, errors, log, net/http: Standard Go libraries.
 * - internal/app, internal/domain, internal/store: Service logic, models, custom errors.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/inyo-global/remittance-sample/internal/app"
	"github.com/inyo-global/remittance-sample/internal/store"
)

// Handlers holds the application service that handlers will use.
type Handlers struct {
	service *app.Service
}

// NewHandlers creates a new instance of Handlers.
func NewHandlers(service *app.Service) *Handlers {
	return &Handlers{service: service}
}

// writeJSON is a helper for writing JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError is a helper for writing JSON error responses.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeRaw forwards an already-encoded JSON payload from the provider.
func writeRaw(w http.ResponseWriter, status int, raw json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if len(raw) > 0 {
		w.Write(raw)
	} else {
		w.Write([]byte("{}"))
	}
}

// writeServiceError maps application-layer errors onto HTTP statuses. Not-found
// and not-owned resources share the same 404 shape so ownership probes learn
// nothing.
func writeServiceError(w http.ResponseWriter, err error) {
	var missing *app.MissingReferencesError
	if errors.As(err, &missing) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "Missing required references",
			"missing": missing.Missing,
		})
		return
	}

	var remote *app.RemoteError
	if errors.As(err, &remote) {
		payload := map[string]interface{}{"error": "Provider request failed"}
		if len(remote.Body) > 0 {
			payload["details"] = json.RawMessage(remote.Body)
		} else if remote.Message != "" {
			payload["details"] = remote.Message
		}
		if remote.Rejected {
			writeJSON(w, http.StatusBadRequest, payload)
		} else {
			writeJSON(w, http.StatusBadGateway, payload)
		}
		return
	}

	var persist *app.PersistFailureError
	if errors.As(err, &persist) {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error":     "Saved remotely but failed to record locally; contact support",
			"entity":    persist.Entity,
			"remote_id": persist.RemoteID,
		})
		return
	}

	switch {
	case errors.Is(err, app.ErrProfileIncomplete):
		writeError(w, http.StatusBadRequest, "Complete your profile before using this feature")
	case errors.Is(err, store.ErrEmailTaken):
		writeError(w, http.StatusConflict, "An account with this email already exists")
	case errors.Is(err, store.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, store.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "Profile not found")
	case errors.Is(err, store.ErrBeneficiaryNotFound):
		writeError(w, http.StatusNotFound, "Beneficiary not found")
	case errors.Is(err, store.ErrBeneficiaryAccountNotFound):
		writeError(w, http.StatusNotFound, "Beneficiary account not found")
	case errors.Is(err, store.ErrPaymentMethodNotFound):
		writeError(w, http.StatusNotFound, "Payment method not found")
	case errors.Is(err, store.ErrQuoteNotFound):
		writeError(w, http.StatusNotFound, "Quote not found")
	case errors.Is(err, store.ErrTransactionNotFound):
		writeError(w, http.StatusNotFound, "Transaction not found")
	default:
		log.Printf("level=error component=api msg=\"unhandled service error\" err=%v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// sessionUser pulls the authenticated user ID out of the context, writing a 500
// if the middleware contract was broken.
func sessionUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := GetSessionUserID(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not get user ID from context")
	}
	return userID, ok
}

// decodeJSON decodes a request body, writing a 400 on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// parseUUIDParam parses a UUID path or body value, writing a 400 on failure.
func parseUUIDParam(w http.ResponseWriter, name, value string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// clientIP extracts the caller's address, preferring proxy-set headers.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return strings.TrimSpace(real)
	}
	host := r.RemoteAddr
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		host = host[:idx]
	}
	return host
}
