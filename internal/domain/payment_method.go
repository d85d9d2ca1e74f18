/**
 * @description
 * Domain models for funding instruments (cards and ACH bank debits). An instrument
 * is tokenized client-side by the provider's tokenizer script; this service only
 * ever sees the token reference, never raw card or account numbers (ACH numbers are
 * masked before persistence). The provider-issued funding account id and its raw
 * onboarding payload are stored beside the local row.
 */

package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Funding instrument types.
const (
	PaymentMethodTypeCard = "CARD"
	PaymentMethodTypeACH  = "ACH"
)

// Provider onboarding statuses the service branches on. Anything else is passed
// through untouched.
const (
	FundingStatusApproved       = "Approved"
	FundingStatusDeclined       = "Declined"
	FundingStatusActionRequired = "ActionRequired"
	FundingStatusChallenge      = "Challenge"
)

// PaymentMethod is a funding instrument owned by a user. Maps to the
// `payment_methods` table.
type PaymentMethod struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	// Token is the tokenizer output (JSON for cards, masked bank data for ACH).
	Token []byte `json:"token,omitempty"`
	// Data holds the billing address plus the latest raw provider response,
	// including the onboarding status.
	Data       []byte `json:"data,omitempty"`
	Type       string `json:"type"`
	ExternalID string `json:"external_id"`
}

// Status extracts the provider onboarding status from the stored raw payload.
// Returns an empty string when the payload carries none.
func (pm *PaymentMethod) Status() string {
	if len(pm.Data) == 0 {
		return ""
	}
	var envelope struct {
		APIResponse struct {
			Status string `json:"status"`
		} `json:"apiResponse"`
	}
	if err := json.Unmarshal(pm.Data, &envelope); err != nil {
		return ""
	}
	return envelope.APIResponse.Status
}

// Usable reports whether the instrument may fund a transaction. Instruments in a
// pending-challenge state stay hidden until a status sync moves them to a
// terminal state.
func (pm *PaymentMethod) Usable() bool {
	switch pm.Status() {
	case FundingStatusActionRequired, FundingStatusChallenge:
		return false
	}
	return true
}

// CardToken is the object the client-side tokenizer returns for a card.
type CardToken struct {
	Token          string `json:"token"`
	Bin            string `json:"bin"`
	SchemeID       string `json:"schemeId"`
	CardNetwork    string `json:"cardNetwork"`
	LastFourDigits string `json:"lastFourDigits"`
	DtCreated      string `json:"dtCreated"`
	DtExpiration   string `json:"dtExpiration"`
}

// BillingAddress is the US billing address collected with an instrument.
type BillingAddress struct {
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zipcode  string `json:"zipcode"`
}

// AddCardRequest is the DTO for registering a tokenized card.
type AddCardRequest struct {
	Token          CardToken      `json:"token"`
	BillingAddress BillingAddress `json:"billingAddress"`
}

// BankData carries the ACH details for a bank-debit instrument.
type BankData struct {
	Nickname      string `json:"nickname"`
	BankName      string `json:"bankName"`
	RoutingNumber string `json:"routingNumber"`
	AccountNumber string `json:"accountNumber"`
	AccountType   string `json:"accountType"` // CHECKING or SAVINGS
}

// AddACHRequest is the DTO for registering a bank-debit instrument.
type AddACHRequest struct {
	BankData       BankData       `json:"bankData"`
	BillingAddress BillingAddress `json:"billingAddress"`
}
