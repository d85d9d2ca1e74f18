/**
 * @description
 * Funding instrument management. Cards arrive as tokenizer output; ACH arrives
 * as bank details that are masked before persistence. Both paths create a remote
 * funding account first and persist locally only on provider acceptance: a
 * declined instrument short-circuits with no local row (the policy is uniform
 * across card and ACH). Instruments in a pending-challenge state are persisted
 * but hidden from the usable list until a status sync moves them to a terminal
 * state.
 */

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/inyo-global/remittance-sample/internal/domain"
	"github.com/inyo-global/remittance-sample/pkg/machnetclient"
)

// AddCardResult carries the persisted instrument plus the 3-D Secure redirect
// the front end must follow when the provider demands a challenge.
type AddCardResult struct {
	Method         *domain.PaymentMethod
	Status         string
	RedirectAcsURL string
}

// isoTimestamp normalizes tokenizer timestamps ("2025-12-31 21:51:51") to the
// ISO8601 shape the provider expects. An empty input falls back to now.
func (s *Service) isoTimestamp(value string) string {
	if value == "" {
		return s.now().UTC().Format("2006-01-02T15:04:05.000Z")
	}
	iso := strings.Replace(value, " ", "T", 1)
	if !strings.Contains(iso, ".") {
		iso += ".000"
	}
	if !strings.HasSuffix(iso, "Z") {
		iso += "Z"
	}
	return iso
}

// storedInstrumentData builds the persisted raw payload: the billing address
// plus the latest provider response.
func storedInstrumentData(billing domain.BillingAddress, apiResponse json.RawMessage) ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"billingAddress": billing,
		"apiResponse":    apiResponse,
	})
}

// AddCard registers a tokenized card as a funding account with the provider and
// persists it locally. Requires a synced profile.
func (s *Service) AddCard(ctx context.Context, userID uuid.UUID, req domain.AddCardRequest) (*AddCardResult, error) {
	profile, err := s.syncedProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	methodID := uuid.New()
	nickname := fmt.Sprintf("My %s Card", firstNonEmpty(req.Token.CardNetwork, "USD"))
	payload := machnetclient.FundingAccountRequest{
		ExternalID: methodID.String(),
		Asset:      "USD",
		Nickname:   nickname,
		PaymentMethod: machnetclient.CardPaymentMethod{
			Type:                    domain.PaymentMethodTypeCard,
			IPAddress:               "127.0.0.1",
			Token:                   req.Token.Token,
			Bin:                     req.Token.Bin,
			SchemeID:                req.Token.SchemeID,
			LastFourDigits:          req.Token.LastFourDigits,
			FirstUseTokenExpiration: s.isoTimestamp(req.Token.DtExpiration),
			CardCreatedAt:           s.isoTimestamp(req.Token.DtCreated),
			BillingAddress: &machnetclient.Address{
				CountryCode: "US",
				StateCode:   req.BillingAddress.State,
				City:        req.BillingAddress.City,
				Line1:       req.BillingAddress.Address1,
				Line2:       req.BillingAddress.Address2,
				Zipcode:     req.BillingAddress.Zipcode,
			},
		},
	}

	result, err := s.provider.CreateFundingAccount(ctx, profile.ExternalID, payload)
	if err != nil {
		return nil, remoteError(err)
	}
	if result.Status == domain.FundingStatusDeclined {
		return nil, rejectedError(0, result.Raw, firstNonEmpty(result.StatusMessage, "card was declined"))
	}

	token, err := json.Marshal(req.Token)
	if err != nil {
		return nil, err
	}
	data, err := storedInstrumentData(req.BillingAddress, result.Raw)
	if err != nil {
		return nil, err
	}

	method := &domain.PaymentMethod{
		ID:         methodID,
		UserID:     userID,
		Token:      token,
		Data:       data,
		Type:       domain.PaymentMethodTypeCard,
		ExternalID: result.ID,
	}
	if err := s.repo.CreatePaymentMethod(ctx, method); err != nil {
		persistErr := &PersistFailureError{Entity: "payment method", RemoteID: result.ID, Err: err}
		log.Printf("level=error component=service msg=\"CRITICAL: funding account created remotely but not locally; requires reconciliation\" user_id=%s funding_account_id=%s err=%v", userID, result.ID, err)
		return nil, persistErr
	}

	return &AddCardResult{Method: method, Status: result.Status, RedirectAcsURL: result.RedirectAcsURL}, nil
}

// AddACH registers a US bank-debit funding account with the provider and
// persists it locally with the account number masked.
func (s *Service) AddACH(ctx context.Context, userID uuid.UUID, req domain.AddACHRequest) (*domain.PaymentMethod, error) {
	profile, err := s.syncedProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	methodID := uuid.New()
	nickname := req.BankData.Nickname
	if nickname == "" {
		nickname = fmt.Sprintf("My %s Account", firstNonEmpty(req.BankData.BankName, "Bank"))
	}
	payload := machnetclient.FundingAccountRequest{
		ExternalID: methodID.String(),
		Asset:      "USD",
		Nickname:   nickname,
		PaymentMethod: machnetclient.ACHPaymentMethod{
			Type:          domain.PaymentMethodTypeACH,
			CountryCode:   "US",
			BankCode:      "US_ACH",
			RoutingNumber: req.BankData.RoutingNumber,
			AccountNumber: req.BankData.AccountNumber,
			AccountType:   req.BankData.AccountType,
		},
	}

	result, err := s.provider.CreateFundingAccount(ctx, profile.ExternalID, payload)
	if err != nil {
		return nil, remoteError(err)
	}
	if result.Status == domain.FundingStatusDeclined {
		return nil, rejectedError(0, result.Raw, firstNonEmpty(result.StatusMessage, "bank account was declined"))
	}

	masked := req.BankData
	if n := len(masked.AccountNumber); n > 4 {
		masked.AccountNumber = "****" + masked.AccountNumber[n-4:]
	}
	token, err := json.Marshal(masked)
	if err != nil {
		return nil, err
	}
	data, err := storedInstrumentData(req.BillingAddress, result.Raw)
	if err != nil {
		return nil, err
	}

	method := &domain.PaymentMethod{
		ID:         methodID,
		UserID:     userID,
		Token:      token,
		Data:       data,
		Type:       domain.PaymentMethodTypeACH,
		ExternalID: result.ID,
	}
	if err := s.repo.CreatePaymentMethod(ctx, method); err != nil {
		persistErr := &PersistFailureError{Entity: "payment method", RemoteID: result.ID, Err: err}
		log.Printf("level=error component=service msg=\"CRITICAL: funding account created remotely but not locally; requires reconciliation\" user_id=%s funding_account_id=%s err=%v", userID, result.ID, err)
		return nil, persistErr
	}
	return method, nil
}

// ListPaymentMethods returns the user's usable funding instruments. Rows in
// pending-challenge states are filtered out until resynced to a terminal status.
func (s *Service) ListPaymentMethods(ctx context.Context, userID uuid.UUID) ([]domain.PaymentMethod, error) {
	methods, err := s.repo.FindPaymentMethodsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	usable := make([]domain.PaymentMethod, 0, len(methods))
	for _, m := range methods {
		if m.Usable() {
			usable = append(usable, m)
		}
	}
	return usable, nil
}

// SyncPaymentMethodResult carries the refreshed status and raw provider payload.
type SyncPaymentMethodResult struct {
	Status string
	Raw    json.RawMessage
}

// SyncPaymentMethod refetches a single funding account from the provider and
// merges the fresh payload into the stored raw data.
func (s *Service) SyncPaymentMethod(ctx context.Context, userID, methodID uuid.UUID) (*SyncPaymentMethodResult, error) {
	method, err := s.repo.FindPaymentMethodByID(ctx, methodID, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.provider.GetFundingAccount(ctx, method.ExternalID)
	if err != nil {
		return nil, remoteError(err)
	}

	// Merge: keep whatever else lives in the stored blob (billing address,
	// client annotations) and replace only the provider response.
	current := map[string]json.RawMessage{}
	if len(method.Data) > 0 {
		if err := json.Unmarshal(method.Data, &current); err != nil {
			current = map[string]json.RawMessage{}
		}
	}
	current["apiResponse"] = result.Raw
	merged, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePaymentMethodData(ctx, methodID, merged); err != nil {
		return nil, err
	}

	return &SyncPaymentMethodResult{Status: result.Status, Raw: result.Raw}, nil
}
