/**
 * @description
 * HTTP handlers for account registration, login, and the identity profile
 * endpoints (read and provider sync).
 */

package api

import (
	"net/http"
	"strings"

	"github.com/inyo-global/remittance-sample/internal/domain"
)

// RegisterHandler creates a local account and issues a session immediately so
// the client can proceed without a second login round trip.
func (h *Handlers) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		writeError(w, http.StatusBadRequest, "email, password, firstName and lastName are required")
		return
	}

	user, token, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// LoginHandler verifies credentials and issues a session token. A wrong
// password and an unknown email answer identically.
func (h *Handlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, token, err := h.service.Login(r.Context(), req)
	if err != nil {
		// Do not reveal whether the email exists.
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// GetProfileHandler returns the local user row plus the identity profile, which
// may be absent for users who have not completed onboarding.
func (h *Handlers) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}

	user, profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"profile": profile,
	})
}

// CompleteProfileHandler accepts KYC details and syncs them to the provider,
// creating or updating the remote participant.
func (h *Handlers) CompleteProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}

	var req domain.CompleteProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.DocType == "" || req.DocNumber == "" {
		writeError(w, http.StatusBadRequest, "docType and docNumber are required")
		return
	}

	participantID, err := h.service.CompleteProfile(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Profile completed successfully",
		"participantId": participantID,
	})
}
