/**
 * @description
 * Domain models for payout recipients. A Beneficiary belongs to exactly one User
 * and mirrors a remote "recipient" participant; a BeneficiaryAccount belongs to
 * exactly one Beneficiary and mirrors a remote recipient payout account. Ownership
 * is transitive: User -> Beneficiary -> BeneficiaryAccount, and accounts are only
 * reachable through their owning beneficiary.
 */

package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Beneficiary is a payout recipient registered with the remote provider.
// Maps to the `beneficiaries` table.
type Beneficiary struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Nickname string    `json:"nickname"`
	// ExternalID is the provider-issued recipient participant id.
	ExternalID string `json:"external_id"`
	// Data is the raw provider registration payload.
	Data []byte `json:"data,omitempty"`
}

// BeneficiaryAccount is a payout destination (bank account, wallet, cash pickup)
// owned by a beneficiary. Maps to the `beneficiary_accounts` table.
type BeneficiaryAccount struct {
	ID            uuid.UUID `json:"id"`
	BeneficiaryID uuid.UUID `json:"beneficiary_id"`
	ExternalID    string    `json:"external_id"`
	Data          []byte    `json:"data,omitempty"`
}

// CreateBeneficiaryRequest carries the country-specific recipient form the
// front end collected against the provider's recipient schema. FormData is
// forwarded to the provider untouched apart from the externalId linkage field.
type CreateBeneficiaryRequest struct {
	Nickname    string          `json:"nickname"`
	CountryCode string          `json:"countryCode"`
	FormData    json.RawMessage `json:"formData"`
}

// CreateBeneficiaryAccountRequest carries the payout-account form for an
// existing beneficiary. ExternalPersonID is the remote recipient id the account
// is attached under.
type CreateBeneficiaryAccountRequest struct {
	BeneficiaryID    uuid.UUID       `json:"beneficiaryId"`
	ExternalPersonID string          `json:"externalPersonId"`
	FormData         json.RawMessage `json:"formData"`
}
