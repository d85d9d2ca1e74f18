/**
 * @description
 * FX quote handling. Rates are time-sensitive, so every quote request creates
 * fresh local rows — one per quote option the provider returns — and nothing is
 * ever updated in place. The raw provider response is returned to the caller
 * untouched so the front end can display every option.
 */

package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/inyo-global/remittance-sample/internal/domain"
	"github.com/inyo-global/remittance-sample/pkg/machnetclient"
)

// CreateQuote requests FX quotes from the provider and persists each returned
// option as its own immutable row.
func (s *Service) CreateQuote(ctx context.Context, userID uuid.UUID, req domain.CreateQuoteRequest) (json.RawMessage, error) {
	payload := machnetclient.QuoteRequest{
		FromCurrency: req.FromCurrency,
		ToCurrency:   req.ToCurrency,
		Amount:       req.Amount,
		Fee:          machnetclient.Fee{Amount: s.quoteFee, Currency: "USD"},
		AmountType:   req.AmountType,
	}

	result, err := s.provider.CreateQuote(ctx, payload)
	if err != nil {
		return nil, remoteError(err)
	}

	for _, option := range result.Options {
		if option.ID == "" {
			continue
		}
		quote := &domain.Quote{
			ID:           uuid.New(),
			UserID:       userID,
			QuoteID:      option.ID,
			FromCurrency: req.FromCurrency,
			ToCurrency:   req.ToCurrency,
			Amount:       req.Amount,
			Data:         option.Raw,
			CreatedAt:    s.now(),
		}
		if err := s.repo.CreateQuote(ctx, quote); err != nil {
			return nil, fmt.Errorf("failed to persist quote %s: %w", option.ID, err)
		}
	}

	return result.Raw, nil
}
