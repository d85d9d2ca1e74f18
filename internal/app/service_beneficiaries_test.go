package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inyo-global/remittance-sample/internal/domain"
	"github.com/inyo-global/remittance-sample/internal/store"
	"github.com/inyo-global/remittance-sample/pkg/machnetclient"
)

func TestCreateBeneficiaryInjectsLocalIDIntoForm(t *testing.T) {
	svc, repo, provider, _ := newTestService(t)
	user := seedUser(t, repo, "sender@example.com")

	var captured map[string]interface{}
	provider.createRecipientFn = func(form json.RawMessage) (*machnetclient.ParticipantResult, error) {
		if err := json.Unmarshal(form, &captured); err != nil {
			t.Fatalf("provider received invalid form: %v", err)
		}
		return &machnetclient.ParticipantResult{ID: "rcp-1", Raw: json.RawMessage(`{"id":"rcp-1"}`)}, nil
	}

	beneficiary, err := svc.CreateBeneficiary(context.Background(), user.ID, domain.CreateBeneficiaryRequest{
		Nickname:    "Mom",
		CountryCode: "NP",
		FormData:    json.RawMessage(`{"firstName":"Sita","lastName":"Gurung"}`),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if captured["externalId"] != beneficiary.ID.String() {
		t.Fatalf("expected the local row id injected as externalId, got %v", captured["externalId"])
	}
	if captured["firstName"] != "Sita" {
		t.Fatal("expected the caller's form fields to pass through")
	}
	if beneficiary.ExternalID != "rcp-1" {
		t.Fatalf("expected the remote recipient id persisted, got %q", beneficiary.ExternalID)
	}
}

func TestCreateBeneficiaryRejectsMalformedForm(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	user := seedUser(t, repo, "sender@example.com")

	_, err := svc.CreateBeneficiary(context.Background(), user.ID, domain.CreateBeneficiaryRequest{
		FormData: json.RawMessage(`not json`),
	})
	if err == nil {
		t.Fatal("expected an error for malformed form data")
	}
	if len(repo.beneficiaries) != 0 {
		t.Fatal("malformed input must leave no local row")
	}
}

func TestListBeneficiaryAccountsEnforcesOwnership(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	owner := seedUser(t, repo, "owner@example.com")
	intruder := seedUser(t, repo, "intruder@example.com")

	beneficiary := &domain.Beneficiary{ID: uuid.New(), UserID: owner.ID, ExternalID: "rcp-1"}
	if err := repo.CreateBeneficiary(context.Background(), beneficiary); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	account := &domain.BeneficiaryAccount{ID: uuid.New(), BeneficiaryID: beneficiary.ID, ExternalID: "rca-1"}
	if err := repo.CreateBeneficiaryAccount(context.Background(), account); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	accounts, err := svc.ListBeneficiaryAccounts(context.Background(), owner.ID, beneficiary.ID)
	if err != nil {
		t.Fatalf("owner listing failed: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected one account for the owner, got %d", len(accounts))
	}

	// A foreign beneficiary reads as not found, never as forbidden.
	if _, err := svc.ListBeneficiaryAccounts(context.Background(), intruder.ID, beneficiary.ID); !errors.Is(err, store.ErrBeneficiaryNotFound) {
		t.Fatalf("expected not-found for a foreign beneficiary, got %v", err)
	}
}

func TestCreateBeneficiaryAccountDefaultsToLinkedRecipient(t *testing.T) {
	svc, repo, provider, _ := newTestService(t)
	user := seedUser(t, repo, "sender@example.com")

	beneficiary := &domain.Beneficiary{ID: uuid.New(), UserID: user.ID, ExternalID: "rcp-7"}
	if err := repo.CreateBeneficiary(context.Background(), beneficiary); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	var capturedPerson string
	provider.createRecipientAcctFn = func(externalPersonID string, _ json.RawMessage) (*machnetclient.ParticipantResult, error) {
		capturedPerson = externalPersonID
		return &machnetclient.ParticipantResult{ID: "rca-1", Raw: json.RawMessage(`{"id":"rca-1"}`)}, nil
	}

	account, err := svc.CreateBeneficiaryAccount(context.Background(), user.ID, domain.CreateBeneficiaryAccountRequest{
		BeneficiaryID: beneficiary.ID,
		FormData:      json.RawMessage(`{"accountNumber":"0012345"}`),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if capturedPerson != "rcp-7" {
		t.Fatalf("expected the linked recipient id by default, got %q", capturedPerson)
	}
	if account.BeneficiaryID != beneficiary.ID || account.ExternalID != "rca-1" {
		t.Fatalf("unexpected persisted account: %+v", account)
	}
}

func TestCreateQuotePersistsEachOption(t *testing.T) {
	svc, repo, provider, _ := newTestService(t)
	user := seedUser(t, repo, "sender@example.com")

	provider.createQuoteFn = func(req machnetclient.QuoteRequest) (*machnetclient.QuoteResult, error) {
		if req.Fee.Amount != 4 || req.Fee.Currency != "USD" {
			t.Fatalf("expected the configured fee on the request, got %+v", req.Fee)
		}
		return &machnetclient.QuoteResult{
			Options: []machnetclient.QuoteOption{
				{ID: "qte-a", Raw: json.RawMessage(`{"quoteId":"qte-a"}`)},
				{ID: "qte-b", Raw: json.RawMessage(`{"quoteId":"qte-b"}`)},
			},
			Raw: json.RawMessage(`{"quotes":[{"quoteId":"qte-a"},{"quoteId":"qte-b"}]}`),
		}, nil
	}

	raw, err := svc.CreateQuote(context.Background(), user.ID, domain.CreateQuoteRequest{
		FromCurrency: "USD",
		ToCurrency:   "NPR",
		Amount:       100,
	})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("expected the raw provider payload to be returned")
	}
	if len(repo.quotes) != 2 {
		t.Fatalf("expected one row per option, got %d", len(repo.quotes))
	}
	for _, q := range repo.quotes {
		if !q.CreatedAt.Equal(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)) {
			t.Fatalf("expected the service clock on the stored quote, got %v", q.CreatedAt)
		}
	}

	// Quoting twice never updates in place: rates are immutable rows.
	if _, err := svc.CreateQuote(context.Background(), user.ID, domain.CreateQuoteRequest{
		FromCurrency: "USD",
		ToCurrency:   "NPR",
		Amount:       100,
	}); err != nil {
		t.Fatalf("second quote failed: %v", err)
	}
	if len(repo.quotes) != 4 {
		t.Fatalf("expected fresh rows for the second quote, got %d", len(repo.quotes))
	}
}
