/**
 * @description
 * This file defines the account-holder domain models for the remittance service.
 * A User is the locally owned account record; a Profile carries the KYC attributes
 * that are mirrored to the remote FX provider as a "participant". The provider-issued
 * participant id is stored on the Profile and is the handle for every subsequent
 * provider call made on the user's behalf.
 *
 * @notes
 * - `Profile.ExternalID` is set exactly once, on the first successful provider sync.
 *   Later syncs PATCH the same remote participant and never replace the id.
 * - Provider response fields the service does not model natively are kept verbatim
 *   in the `Data` JSON blob.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account holder. Maps to the `users` table.
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Password    string    `json:"-"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth string    `json:"date_of_birth"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Zipcode     string    `json:"zipcode"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// Profile holds the KYC attributes synced to the remote provider. Maps to the
// `profiles` table, one row per user.
type Profile struct {
	UserID         uuid.UUID `json:"user_id"`
	Gender         string    `json:"gender"`
	Occupation     string    `json:"occupation"`
	DocType        string    `json:"doc_type"`
	DocNumber      string    `json:"doc_number"`
	IssuingCountry string    `json:"issuing_country"`
	ExpirationDate string    `json:"expiration_date"`
	// ExternalID is the provider-issued participant id. Empty until the first
	// successful sync, immutable afterwards.
	ExternalID string `json:"external_id"`
	// Data is the JSON snapshot of fields the service does not model natively.
	Data []byte `json:"data,omitempty"`
}

// Synced reports whether the profile has been linked to a remote participant.
func (p *Profile) Synced() bool {
	return p != nil && p.ExternalID != ""
}

// RegisterRequest is the DTO for account registration.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zipcode     string `json:"zipcode"`
}

// LoginRequest is the DTO for session issuance.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CompleteProfileRequest is the DTO for the profile-sync endpoint. Name and state
// overrides are optional; missing values fall back to the stored user row.
type CompleteProfileRequest struct {
	Gender         string `json:"gender"`
	Occupation     string `json:"occupation"`
	DocType        string `json:"docType"`
	DocNumber      string `json:"docNumber"`
	IssuingCountry string `json:"issuingCountry"`
	ExpirationDate string `json:"expirationDate"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	State          string `json:"state"`
	PhoneNumber    string `json:"phoneNumber"`
}
