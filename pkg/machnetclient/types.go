/**
 * @description
 * Wire types for the Machnet FX/payout API. Only the fields the service relies on
 * are modeled; every result carries the raw response body so callers can persist
 * the provider payload verbatim.
 */
package machnetclient

import "encoding/json"

// Address is the provider's postal address shape.
type Address struct {
	CountryCode string `json:"countryCode"`
	StateCode   string `json:"stateCode,omitempty"`
	City        string `json:"city,omitempty"`
	Line1       string `json:"line1,omitempty"`
	Line2       string `json:"line2,omitempty"`
	Zipcode     string `json:"zipcode,omitempty"`
}

// Document is an identity document attached to a participant.
type Document struct {
	Type        string `json:"type"`
	Document    string `json:"document"`
	CountryCode string `json:"countryCode"`
	ExpireDate  string `json:"expireDate,omitempty"`
	Issuer      string `json:"issuer,omitempty"`
}

// ParticipantRequest is the payload for creating or updating a participant
// (sender profile). ExternalID carries the local identifier so the linkage is
// visible on the provider side too.
type ParticipantRequest struct {
	FirstName   string     `json:"firstName,omitempty"`
	LastName    string     `json:"lastName,omitempty"`
	Email       string     `json:"email,omitempty"`
	BirthDate   string     `json:"birthDate,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Address     *Address   `json:"address,omitempty"`
	Documents   []Document `json:"documents,omitempty"`
	Occupation  string     `json:"occupation,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	ExternalID  string     `json:"externalId,omitempty"`
}

// ParticipantResult is the normalized response for participant and recipient
// creation/update calls.
type ParticipantResult struct {
	ID  string `json:"id"`
	Raw json.RawMessage
}

// Fee is a fixed fee attached to a quote request.
type Fee struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// QuoteRequest is the payload for requesting FX quotes.
type QuoteRequest struct {
	FromCurrency string  `json:"fromCurrency"`
	ToCurrency   string  `json:"toCurrency"`
	Amount       float64 `json:"amount"`
	Fee          Fee     `json:"fee"`
	AmountType   string  `json:"amountType,omitempty"`
}

// QuoteOption is one quote alternative returned by the provider.
type QuoteOption struct {
	ID  string `json:"id"`
	Raw json.RawMessage
}

// QuoteResult is the normalized quote response. The provider either returns a
// `quotes` array or a single quote object; both are folded into Options.
type QuoteResult struct {
	Options []QuoteOption
	Raw     json.RawMessage
}

// CardPaymentMethod carries a tokenized card for funding account creation.
type CardPaymentMethod struct {
	Type                    string   `json:"type"`
	IPAddress               string   `json:"ipAddress"`
	Token                   string   `json:"token"`
	Bin                     string   `json:"bin"`
	SchemeID                string   `json:"schemeId"`
	LastFourDigits          string   `json:"lastFourDigits"`
	FirstUseTokenExpiration string   `json:"firstUseTokenExpiration"`
	CardCreatedAt           string   `json:"cardCreatedAt"`
	BillingAddress          *Address `json:"billingAddress,omitempty"`
}

// ACHPaymentMethod carries US bank-debit details for funding account creation.
type ACHPaymentMethod struct {
	Type          string `json:"type"`
	CountryCode   string `json:"countryCode"`
	BankCode      string `json:"bankCode"`
	RoutingNumber string `json:"routingNumber"`
	AccountNumber string `json:"accountNumber"`
	AccountType   string `json:"accountType"`
}

// FundingAccountRequest is the payload for creating a funding account.
// PaymentMethod is either a CardPaymentMethod or an ACHPaymentMethod.
type FundingAccountRequest struct {
	ExternalID    string      `json:"externalId"`
	Asset         string      `json:"asset"`
	Nickname      string      `json:"nickname"`
	PaymentMethod interface{} `json:"paymentMethod"`
}

// FundingAccountResult is the normalized funding-account response, including the
// onboarding status the decline and challenge flows branch on.
type FundingAccountResult struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	StatusMessage  string `json:"statusMessage"`
	RedirectAcsURL string `json:"redirectAcsUrl"`
	Raw            json.RawMessage
}

// DeviceData carries fraud-screening context for a transaction submission.
type DeviceData struct {
	UserIPAddress string `json:"userIpAddress"`
}

// TransactionRequest is the payload for submitting an FX transaction. All five
// identifiers are provider-issued ids resolved from the local ownership chain.
type TransactionRequest struct {
	ExternalID         string                 `json:"externalId"`
	SenderID           string                 `json:"senderId"`
	RecipientID        string                 `json:"recipientId"`
	FundingAccountID   string                 `json:"fundingAccountId"`
	RecipientAccountID string                 `json:"recipientAccountId"`
	QuoteID            string                 `json:"quoteId"`
	AdditionalData     map[string]interface{} `json:"additionalData,omitempty"`
	DeviceData         *DeviceData            `json:"deviceData,omitempty"`
}

// TransactionResult is the normalized transaction response.
type TransactionResult struct {
	ID     string `json:"id"`
	Status struct {
		PayoutStatus string `json:"payoutStatus"`
	} `json:"status"`
	TotalAmount struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	} `json:"totalAmount"`
	Recipient struct {
		Name string `json:"name"`
	} `json:"recipient"`
	Raw json.RawMessage
}
