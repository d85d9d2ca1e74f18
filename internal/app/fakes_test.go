package app

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/inyo-global/remittance-sample/internal/domain"
	"github.com/inyo-global/remittance-sample/internal/store"
	"github.com/inyo-global/remittance-sample/pkg/machnetclient"
)

// fakeRepo is an in-memory store.Repository mirroring the ownership semantics
// of the Postgres implementation: rows owned by someone else read as not found.
type fakeRepo struct {
	users         map[uuid.UUID]*domain.User
	profiles      map[uuid.UUID]*domain.Profile
	beneficiaries map[uuid.UUID]*domain.Beneficiary
	accounts      map[uuid.UUID]*domain.BeneficiaryAccount
	methods       map[uuid.UUID]*domain.PaymentMethod
	quotes        []*domain.Quote
	transactions  map[uuid.UUID]*domain.Transaction

	createPaymentMethodErr error
	createTransactionErr   error
	upsertProfileErr       error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:         make(map[uuid.UUID]*domain.User),
		profiles:      make(map[uuid.UUID]*domain.Profile),
		beneficiaries: make(map[uuid.UUID]*domain.Beneficiary),
		accounts:      make(map[uuid.UUID]*domain.BeneficiaryAccount),
		methods:       make(map[uuid.UUID]*domain.PaymentMethod),
		transactions:  make(map[uuid.UUID]*domain.Transaction),
	}
}

func (r *fakeRepo) CreateUser(_ context.Context, user *domain.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return store.ErrEmailTaken
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeRepo) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (r *fakeRepo) FindUserByID(_ context.Context, userID uuid.UUID) (*domain.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeRepo) UpdateUserPassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	user, ok := r.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	user.Password = passwordHash
	return nil
}

func (r *fakeRepo) UpdateUserPhoneNumber(_ context.Context, userID uuid.UUID, phoneNumber string) error {
	user, ok := r.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	user.PhoneNumber = phoneNumber
	return nil
}

func (r *fakeRepo) FindProfileByUserID(_ context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

func (r *fakeRepo) UpsertProfile(_ context.Context, profile *domain.Profile) error {
	if r.upsertProfileErr != nil {
		return r.upsertProfileErr
	}
	copied := *profile
	// The external id is set exactly once; later syncs never replace it.
	if existing, ok := r.profiles[profile.UserID]; ok && existing.ExternalID != "" {
		copied.ExternalID = existing.ExternalID
	}
	r.profiles[profile.UserID] = &copied
	return nil
}

func (r *fakeRepo) CreateBeneficiary(_ context.Context, beneficiary *domain.Beneficiary) error {
	copied := *beneficiary
	r.beneficiaries[beneficiary.ID] = &copied
	return nil
}

func (r *fakeRepo) FindBeneficiariesByUserID(_ context.Context, userID uuid.UUID) ([]domain.Beneficiary, error) {
	var out []domain.Beneficiary
	for _, b := range r.beneficiaries {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) FindBeneficiaryByID(_ context.Context, beneficiaryID, userID uuid.UUID) (*domain.Beneficiary, error) {
	b, ok := r.beneficiaries[beneficiaryID]
	if !ok || b.UserID != userID {
		return nil, store.ErrBeneficiaryNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeRepo) CreateBeneficiaryAccount(_ context.Context, account *domain.BeneficiaryAccount) error {
	copied := *account
	r.accounts[account.ID] = &copied
	return nil
}

func (r *fakeRepo) FindBeneficiaryAccountsByBeneficiaryID(_ context.Context, beneficiaryID uuid.UUID) ([]domain.BeneficiaryAccount, error) {
	var out []domain.BeneficiaryAccount
	for _, a := range r.accounts {
		if a.BeneficiaryID == beneficiaryID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeRepo) FindBeneficiaryAccountByID(_ context.Context, accountID, beneficiaryID uuid.UUID) (*domain.BeneficiaryAccount, error) {
	a, ok := r.accounts[accountID]
	if !ok || a.BeneficiaryID != beneficiaryID {
		return nil, store.ErrBeneficiaryAccountNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeRepo) CreatePaymentMethod(_ context.Context, method *domain.PaymentMethod) error {
	if r.createPaymentMethodErr != nil {
		return r.createPaymentMethodErr
	}
	copied := *method
	r.methods[method.ID] = &copied
	return nil
}

func (r *fakeRepo) FindPaymentMethodsByUserID(_ context.Context, userID uuid.UUID) ([]domain.PaymentMethod, error) {
	var out []domain.PaymentMethod
	for _, m := range r.methods {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeRepo) FindPaymentMethodByID(_ context.Context, methodID, userID uuid.UUID) (*domain.PaymentMethod, error) {
	m, ok := r.methods[methodID]
	if !ok || m.UserID != userID {
		return nil, store.ErrPaymentMethodNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeRepo) UpdatePaymentMethodData(_ context.Context, methodID uuid.UUID, data []byte) error {
	m, ok := r.methods[methodID]
	if !ok {
		return store.ErrPaymentMethodNotFound
	}
	m.Data = data
	return nil
}

func (r *fakeRepo) CreateQuote(_ context.Context, quote *domain.Quote) error {
	copied := *quote
	r.quotes = append(r.quotes, &copied)
	return nil
}

func (r *fakeRepo) FindQuoteByReference(_ context.Context, reference string, userID uuid.UUID) (*domain.Quote, error) {
	for _, q := range r.quotes {
		if q.UserID == userID && (q.QuoteID == reference || q.ID.String() == reference) {
			copied := *q
			return &copied, nil
		}
	}
	return nil, store.ErrQuoteNotFound
}

func (r *fakeRepo) CreateTransaction(_ context.Context, tx *domain.Transaction) error {
	if r.createTransactionErr != nil {
		return r.createTransactionErr
	}
	copied := *tx
	r.transactions[tx.ID] = &copied
	return nil
}

func (r *fakeRepo) FindTransactionsByUserID(_ context.Context, userID uuid.UUID) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, tx := range r.transactions {
		if tx.UserID == userID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (r *fakeRepo) FindTransactionByID(_ context.Context, transactionID, userID uuid.UUID) (*domain.Transaction, error) {
	tx, ok := r.transactions[transactionID]
	if !ok || tx.UserID != userID {
		return nil, store.ErrTransactionNotFound
	}
	copied := *tx
	return &copied, nil
}

func (r *fakeRepo) UpdateTransactionStatus(_ context.Context, transactionID uuid.UUID, status string, data []byte) error {
	tx, ok := r.transactions[transactionID]
	if !ok {
		return store.ErrTransactionNotFound
	}
	tx.Status = status
	tx.Data = data
	return nil
}

// fakeProvider is a Provider whose behavior can be overridden per test. Every
// method counts its calls so caching behavior can be asserted.
type fakeProvider struct {
	createParticipantCalls int
	updateParticipantCalls int
	limitsCalls            int
	destinationsCalls      int
	banksCalls             int
	fundingAccountCalls    int
	transactionCalls       int

	createParticipantFn    func(req machnetclient.ParticipantRequest) (*machnetclient.ParticipantResult, error)
	updateParticipantFn    func(participantID string, req machnetclient.ParticipantRequest) (*machnetclient.ParticipantResult, error)
	createRecipientFn      func(form json.RawMessage) (*machnetclient.ParticipantResult, error)
	limitsFn               func(participantID string) (json.RawMessage, error)
	destinationsFn         func() (json.RawMessage, error)
	banksFn                func(countryCode string) (json.RawMessage, error)
	createQuoteFn          func(req machnetclient.QuoteRequest) (*machnetclient.QuoteResult, error)
	createFundingAccountFn func(participantID string, req machnetclient.FundingAccountRequest) (*machnetclient.FundingAccountResult, error)
	getFundingAccountFn    func(fundingAccountID string) (*machnetclient.FundingAccountResult, error)
	createRecipientAcctFn  func(externalPersonID string, form json.RawMessage) (*machnetclient.ParticipantResult, error)
	createTransactionFn    func(req machnetclient.TransactionRequest) (*machnetclient.TransactionResult, error)
	getTransactionFn       func(transactionID string) (*machnetclient.TransactionResult, error)
}

func (p *fakeProvider) CreateParticipant(_ context.Context, req machnetclient.ParticipantRequest) (*machnetclient.ParticipantResult, error) {
	p.createParticipantCalls++
	if p.createParticipantFn != nil {
		return p.createParticipantFn(req)
	}
	return &machnetclient.ParticipantResult{ID: "prt-1", Raw: json.RawMessage(`{"id":"prt-1"}`)}, nil
}

func (p *fakeProvider) UpdateParticipant(_ context.Context, participantID string, req machnetclient.ParticipantRequest) (*machnetclient.ParticipantResult, error) {
	p.updateParticipantCalls++
	if p.updateParticipantFn != nil {
		return p.updateParticipantFn(participantID, req)
	}
	return &machnetclient.ParticipantResult{ID: participantID, Raw: json.RawMessage(`{}`)}, nil
}

func (p *fakeProvider) CreateRecipient(_ context.Context, form json.RawMessage) (*machnetclient.ParticipantResult, error) {
	if p.createRecipientFn != nil {
		return p.createRecipientFn(form)
	}
	return &machnetclient.ParticipantResult{ID: "rcp-1", Raw: json.RawMessage(`{"id":"rcp-1"}`)}, nil
}

func (p *fakeProvider) GetComplianceLevels(_ context.Context, _ string) (json.RawMessage, error) {
	return json.RawMessage(`{"levels":[]}`), nil
}

func (p *fakeProvider) GetParticipantLimits(_ context.Context, participantID string) (json.RawMessage, error) {
	p.limitsCalls++
	if p.limitsFn != nil {
		return p.limitsFn(participantID)
	}
	return json.RawMessage(`{"oneDayLimit":{"limit":2999,"used":0}}`), nil
}

func (p *fakeProvider) ListDestinations(_ context.Context) (json.RawMessage, error) {
	p.destinationsCalls++
	if p.destinationsFn != nil {
		return p.destinationsFn()
	}
	return json.RawMessage(`[{"countryCode":"NP"}]`), nil
}

func (p *fakeProvider) ListBanks(_ context.Context, countryCode string) (json.RawMessage, error) {
	p.banksCalls++
	if p.banksFn != nil {
		return p.banksFn(countryCode)
	}
	return json.RawMessage(`{"banks":[]}`), nil
}

func (p *fakeProvider) GetRecipientSchema(_ context.Context, _ string) (json.RawMessage, error) {
	return json.RawMessage(`{"fields":[]}`), nil
}

func (p *fakeProvider) GetRecipientAccountSchema(_ context.Context, _ string) (json.RawMessage, error) {
	return json.RawMessage(`{"fields":[]}`), nil
}

func (p *fakeProvider) CreateQuote(_ context.Context, req machnetclient.QuoteRequest) (*machnetclient.QuoteResult, error) {
	if p.createQuoteFn != nil {
		return p.createQuoteFn(req)
	}
	return &machnetclient.QuoteResult{
		Options: []machnetclient.QuoteOption{{ID: "qte-1", Raw: json.RawMessage(`{"quoteId":"qte-1"}`)}},
		Raw:     json.RawMessage(`{"quotes":[{"quoteId":"qte-1"}]}`),
	}, nil
}

func (p *fakeProvider) CreateFundingAccount(_ context.Context, participantID string, req machnetclient.FundingAccountRequest) (*machnetclient.FundingAccountResult, error) {
	p.fundingAccountCalls++
	if p.createFundingAccountFn != nil {
		return p.createFundingAccountFn(participantID, req)
	}
	return &machnetclient.FundingAccountResult{
		ID:     "fnd-1",
		Status: domain.FundingStatusApproved,
		Raw:    json.RawMessage(`{"id":"fnd-1","status":"Approved"}`),
	}, nil
}

func (p *fakeProvider) GetFundingAccount(_ context.Context, fundingAccountID string) (*machnetclient.FundingAccountResult, error) {
	if p.getFundingAccountFn != nil {
		return p.getFundingAccountFn(fundingAccountID)
	}
	return &machnetclient.FundingAccountResult{
		ID:     fundingAccountID,
		Status: domain.FundingStatusApproved,
		Raw:    json.RawMessage(`{"status":"Approved"}`),
	}, nil
}

func (p *fakeProvider) CreateRecipientAccount(_ context.Context, externalPersonID string, form json.RawMessage) (*machnetclient.ParticipantResult, error) {
	if p.createRecipientAcctFn != nil {
		return p.createRecipientAcctFn(externalPersonID, form)
	}
	return &machnetclient.ParticipantResult{ID: "rca-1", Raw: json.RawMessage(`{"id":"rca-1"}`)}, nil
}

func (p *fakeProvider) CreateTransaction(_ context.Context, req machnetclient.TransactionRequest) (*machnetclient.TransactionResult, error) {
	p.transactionCalls++
	if p.createTransactionFn != nil {
		return p.createTransactionFn(req)
	}
	result := &machnetclient.TransactionResult{
		ID:  "txn-1",
		Raw: json.RawMessage(`{"id":"txn-1"}`),
	}
	result.Status.PayoutStatus = "PENDING"
	result.TotalAmount.Amount = 104
	result.TotalAmount.Currency = "USD"
	result.Recipient.Name = "Test Recipient"
	return result, nil
}

func (p *fakeProvider) GetTransaction(_ context.Context, transactionID string) (*machnetclient.TransactionResult, error) {
	if p.getTransactionFn != nil {
		return p.getTransactionFn(transactionID)
	}
	result := &machnetclient.TransactionResult{ID: transactionID, Raw: json.RawMessage(`{}`)}
	result.Status.PayoutStatus = "COMPLETED"
	return result, nil
}
