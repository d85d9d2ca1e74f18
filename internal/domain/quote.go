/**
 * @description
 * Domain model for FX quotes. Quotes are immutable once stored: rates are
 * time-sensitive, so a fresh quote request always inserts new rows and never
 * updates existing ones. The provider may return several quote options for one
 * request (one per payout rail); each is persisted as its own row.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Quote is a persisted FX quote option. Maps to the `quotes` table.
type Quote struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	// QuoteID is the provider-issued quote identifier referenced when a
	// transaction is created against this quote.
	QuoteID      string    `json:"quote_id"`
	FromCurrency string    `json:"from_currency"`
	ToCurrency   string    `json:"to_currency"`
	Amount       float64   `json:"amount"`
	Data         []byte    `json:"data,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateQuoteRequest is the DTO for requesting an FX quote.
// AmountType selects the calculation strategy: NET treats the amount as the
// value to convert (fees added on top), GROSS treats it as the total budget
// (fees subtracted before conversion). The provider defaults to NET.
type CreateQuoteRequest struct {
	FromCurrency string  `json:"fromCurrency"`
	ToCurrency   string  `json:"toCurrency"`
	Amount       float64 `json:"amount"`
	AmountType   string  `json:"amountType,omitempty"`
}
