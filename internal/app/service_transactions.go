/**
 * @description
 * Transaction orchestration, the terminal step of the transfer flow and the only
 * operation that touches more than one entity type per call.
 *
 * The ownership chain across profile -> beneficiary -> beneficiary account ->
 * payment method -> quote is validated locally before any remote call, and every
 * missing or foreign reference is aggregated into one MissingReferencesError so
 * the caller learns all remediation steps at once. A reference owned by another
 * account is indistinguishable from a nonexistent one. Remote submissions are
 * never retried automatically; a local persist failure after remote acceptance
 * is logged as an inconsistency requiring reconciliation.
 */

package app

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/inyo-global/remittance-sample/internal/cache"
	"github.com/inyo-global/remittance-sample/internal/domain"
	"github.com/inyo-global/remittance-sample/internal/store"
	"github.com/inyo-global/remittance-sample/pkg/machnetclient"
	"github.com/inyo-global/remittance-sample/pkg/rabbitmq"
)

// Reference labels reported in MissingReferencesError, in resolution order.
const (
	refProfile            = "Profile"
	refBeneficiary        = "Beneficiary"
	refBeneficiaryAccount = "Beneficiary Account"
	refPaymentMethod      = "Payment Method"
	refQuote              = "Quote"
)

// transactionRefs holds the resolved ownership chain for one submission.
type transactionRefs struct {
	profile       *domain.Profile
	beneficiary   *domain.Beneficiary
	account       *domain.BeneficiaryAccount
	paymentMethod *domain.PaymentMethod
	quote         *domain.Quote
}

// resolveTransactionRefs validates the whole ownership chain, collecting every
// missing piece instead of failing at the first. Store errors other than
// not-found abort immediately.
func (s *Service) resolveTransactionRefs(ctx context.Context, userID uuid.UUID, req domain.CreateTransactionRequest) (*transactionRefs, error) {
	refs := &transactionRefs{}
	var missing []string

	profile, err := s.repo.FindProfileByUserID(ctx, userID)
	switch {
	case err == nil && profile.Synced():
		refs.profile = profile
	case err == nil || errors.Is(err, store.ErrProfileNotFound):
		missing = append(missing, refProfile)
	default:
		return nil, err
	}

	beneficiary, err := s.repo.FindBeneficiaryByID(ctx, req.BeneficiaryID, userID)
	switch {
	case err == nil:
		refs.beneficiary = beneficiary
	case errors.Is(err, store.ErrBeneficiaryNotFound):
		missing = append(missing, refBeneficiary)
	default:
		return nil, err
	}

	// The payout account must hang off the resolved beneficiary; without a
	// beneficiary it cannot be resolved at all.
	if refs.beneficiary != nil {
		account, err := s.repo.FindBeneficiaryAccountByID(ctx, req.AccountID, refs.beneficiary.ID)
		switch {
		case err == nil:
			refs.account = account
		case errors.Is(err, store.ErrBeneficiaryAccountNotFound):
			missing = append(missing, refBeneficiaryAccount)
		default:
			return nil, err
		}
	} else {
		missing = append(missing, refBeneficiaryAccount)
	}

	paymentMethod, err := s.repo.FindPaymentMethodByID(ctx, req.PaymentMethodID, userID)
	switch {
	case err == nil:
		refs.paymentMethod = paymentMethod
	case errors.Is(err, store.ErrPaymentMethodNotFound):
		missing = append(missing, refPaymentMethod)
	default:
		return nil, err
	}

	quote, err := s.repo.FindQuoteByReference(ctx, req.QuoteID, userID)
	switch {
	case err == nil:
		refs.quote = quote
	case errors.Is(err, store.ErrQuoteNotFound):
		missing = append(missing, refQuote)
	default:
		return nil, err
	}

	if len(missing) > 0 {
		return nil, &MissingReferencesError{Missing: missing}
	}
	return refs, nil
}

// CreateTransaction validates the ownership chain, submits the transfer to the
// provider, persists the resulting transaction row, and invalidates the user's
// usage-limits cache entry.
func (s *Service) CreateTransaction(ctx context.Context, userID uuid.UUID, req domain.CreateTransactionRequest, clientIP string) (*domain.Transaction, error) {
	refs, err := s.resolveTransactionRefs(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	transactionID := uuid.New()
	payload := machnetclient.TransactionRequest{
		ExternalID:         transactionID.String(),
		SenderID:           refs.profile.ExternalID,
		RecipientID:        refs.beneficiary.ExternalID,
		FundingAccountID:   refs.paymentMethod.ExternalID,
		RecipientAccountID: refs.account.ExternalID,
		QuoteID:            refs.quote.QuoteID,
		DeviceData:         &machnetclient.DeviceData{UserIPAddress: firstNonEmpty(clientIP, "127.0.0.1")},
	}

	log.Printf("level=info component=service msg=\"submitting transaction\" user_id=%s transaction_id=%s quote_id=%s", userID, transactionID, refs.quote.QuoteID)

	result, err := s.provider.CreateTransaction(ctx, payload)
	if err != nil {
		// Financial submissions are never retried automatically; surface the
		// provider's error payload verbatim.
		return nil, remoteError(err)
	}

	tx := &domain.Transaction{
		ID:            transactionID,
		UserID:        userID,
		ExternalID:    result.ID,
		Status:        result.Status.PayoutStatus,
		Amount:        result.TotalAmount.Amount,
		Currency:      result.TotalAmount.Currency,
		RecipientName: result.Recipient.Name,
		CreatedAt:     s.now(),
		Data:          result.Raw,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		persistErr := &PersistFailureError{Entity: "transaction", RemoteID: result.ID, Err: err}
		log.Printf("level=error component=service msg=\"CRITICAL: transaction accepted remotely but not persisted locally; requires reconciliation\" user_id=%s remote_transaction_id=%s err=%v", userID, result.ID, err)
		return nil, persistErr
	}

	// Write-through invalidation: the provider's usage counters moved, so the
	// cached limits document is stale regardless of its TTL.
	if err := s.cache.Invalidate(ctx, cache.LimitsKey(userID.String())); err != nil {
		log.Printf("level=warn component=service msg=\"limits cache invalidation failed\" user_id=%s err=%v", userID, err)
	}

	s.publish(ctx, rabbitmq.RoutingKeyTransactionCreated, rabbitmq.TransactionCreatedEvent{
		UserID:        userID,
		TransactionID: tx.ID,
		RemoteID:      tx.ExternalID,
		Status:        tx.Status,
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		Timestamp:     tx.CreatedAt,
	})

	return tx, nil
}

// ListTransactions returns the user's transactions, newest first.
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	return s.repo.FindTransactionsByUserID(ctx, userID)
}

// SyncTransaction refetches a submitted transaction from the provider and
// refreshes the locally stored status and raw payload. This is the
// reconciliation path for submissions whose outcome was unknown (timeouts,
// provisional 202 acceptance).
func (s *Service) SyncTransaction(ctx context.Context, userID, transactionID uuid.UUID) (*domain.Transaction, error) {
	tx, err := s.repo.FindTransactionByID(ctx, transactionID, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.provider.GetTransaction(ctx, tx.ExternalID)
	if err != nil {
		return nil, remoteError(err)
	}

	if err := s.repo.UpdateTransactionStatus(ctx, tx.ID, result.Status.PayoutStatus, result.Raw); err != nil {
		return nil, err
	}
	tx.Status = result.Status.PayoutStatus
	tx.Data = result.Raw
	return tx, nil
}
