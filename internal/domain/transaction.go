/**
 * @description
 * Domain model for cross-border transactions, the terminal record of the transfer
 * flow. A Transaction row is only written after the ownership chain across the
 * profile, beneficiary, beneficiary account, payment method, and quote has been
 * validated and the remote provider has accepted the submission. Rows are
 * immutable after creation except for status refresh via the sync endpoint.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is a submitted cross-border transfer. Maps to the `transactions` table.
type Transaction struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	// ExternalID is the provider-issued transaction id.
	ExternalID    string    `json:"external_id"`
	Status        string    `json:"status"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	RecipientName string    `json:"recipient_name"`
	CreatedAt     time.Time `json:"created_at"`
	// Data is the full raw provider response.
	Data []byte `json:"data,omitempty"`
}

// CreateTransactionRequest is the DTO for submitting a transfer. QuoteID accepts
// either the local quote row id or the provider quote identifier.
type CreateTransactionRequest struct {
	BeneficiaryID   uuid.UUID `json:"beneficiaryId"`
	AccountID       uuid.UUID `json:"accountId"`
	PaymentMethodID uuid.UUID `json:"paymentMethodId"`
	QuoteID         string    `json:"quoteId"`
}
