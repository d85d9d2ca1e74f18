/**
 * @description
 * Beneficiary (payout recipient) management. A beneficiary is always created
 * remotely — recipients have no update path in this design — and the local row
 * stores the provider-issued recipient id plus the raw registration payload.
 * Payout accounts hang off a beneficiary and are reachable only through it;
 * every account operation first proves the caller owns the beneficiary.
 */

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/inyo-global/remittance-sample/internal/domain"
)

// ListBeneficiaries returns the user's beneficiaries.
func (s *Service) ListBeneficiaries(ctx context.Context, userID uuid.UUID) ([]domain.Beneficiary, error) {
	return s.repo.FindBeneficiariesByUserID(ctx, userID)
}

// CreateBeneficiary registers a payout recipient with the provider and persists
// the linkage. The country-specific form is forwarded as-is, with the local id
// injected as the provider-side externalId.
func (s *Service) CreateBeneficiary(ctx context.Context, userID uuid.UUID, req domain.CreateBeneficiaryRequest) (*domain.Beneficiary, error) {
	beneficiaryID := uuid.New()

	var form map[string]interface{}
	if err := json.Unmarshal(req.FormData, &form); err != nil {
		return nil, fmt.Errorf("invalid beneficiary form data: %w", err)
	}
	form["externalId"] = beneficiaryID.String()
	payload, err := json.Marshal(form)
	if err != nil {
		return nil, err
	}

	result, err := s.provider.CreateRecipient(ctx, payload)
	if err != nil {
		return nil, remoteError(err)
	}

	beneficiary := &domain.Beneficiary{
		ID:         beneficiaryID,
		UserID:     userID,
		Nickname:   req.Nickname,
		ExternalID: result.ID,
		Data:       result.Raw,
	}
	if err := s.repo.CreateBeneficiary(ctx, beneficiary); err != nil {
		persistErr := &PersistFailureError{Entity: "beneficiary", RemoteID: result.ID, Err: err}
		log.Printf("level=error component=service msg=\"CRITICAL: recipient created remotely but not locally; requires reconciliation\" user_id=%s recipient_id=%s err=%v", userID, result.ID, err)
		return nil, persistErr
	}
	return beneficiary, nil
}

// ListBeneficiaryAccounts returns the payout accounts of a beneficiary the
// caller owns. A beneficiary owned by someone else reads as not found.
func (s *Service) ListBeneficiaryAccounts(ctx context.Context, userID, beneficiaryID uuid.UUID) ([]domain.BeneficiaryAccount, error) {
	if _, err := s.repo.FindBeneficiaryByID(ctx, beneficiaryID, userID); err != nil {
		return nil, err
	}
	return s.repo.FindBeneficiaryAccountsByBeneficiaryID(ctx, beneficiaryID)
}

// CreateBeneficiaryAccount registers a payout account under an owned
// beneficiary's remote recipient and persists the linkage.
func (s *Service) CreateBeneficiaryAccount(ctx context.Context, userID uuid.UUID, req domain.CreateBeneficiaryAccountRequest) (*domain.BeneficiaryAccount, error) {
	beneficiary, err := s.repo.FindBeneficiaryByID(ctx, req.BeneficiaryID, userID)
	if err != nil {
		return nil, err
	}

	// The caller may name the remote recipient explicitly (gateway flows do);
	// default to the linked recipient id.
	externalPersonID := firstNonEmpty(req.ExternalPersonID, beneficiary.ExternalID)

	result, err := s.provider.CreateRecipientAccount(ctx, externalPersonID, req.FormData)
	if err != nil {
		return nil, remoteError(err)
	}

	account := &domain.BeneficiaryAccount{
		ID:            uuid.New(),
		BeneficiaryID: beneficiary.ID,
		ExternalID:    result.ID,
		Data:          result.Raw,
	}
	if err := s.repo.CreateBeneficiaryAccount(ctx, account); err != nil {
		persistErr := &PersistFailureError{Entity: "beneficiary account", RemoteID: result.ID, Err: err}
		log.Printf("level=error component=service msg=\"CRITICAL: recipient account created remotely but not locally; requires reconciliation\" user_id=%s recipient_account_id=%s err=%v", userID, result.ID, err)
		return nil, persistErr
	}
	return account, nil
}
