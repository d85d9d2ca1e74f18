/**
 * @description
 * This file defines the `Repository` interface, the contract for all data access
 * the remittance service needs. Defining an interface decouples the business
 * logic from the PostgreSQL implementation and lets tests substitute in-memory
 * fakes.
 *
 * @dependencies
 * - context: Standard Go library.
 * - github.com/google/uuid: For identifier handling.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/inyo-global/remittance-sample/internal/domain"
)

// Repository defines the set of methods for interacting with the database.
//
// Lookups that take both an entity id and an owner id enforce ownership in the
// query itself: a row owned by someone else is reported as not found, never as
// a distinct "forbidden" condition that would leak existence.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateUserPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	UpdateUserPhoneNumber(ctx context.Context, userID uuid.UUID, phoneNumber string) error

	// Identity profiles
	FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	UpsertProfile(ctx context.Context, profile *domain.Profile) error

	// Beneficiaries and their payout accounts
	CreateBeneficiary(ctx context.Context, beneficiary *domain.Beneficiary) error
	FindBeneficiariesByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Beneficiary, error)
	FindBeneficiaryByID(ctx context.Context, beneficiaryID, userID uuid.UUID) (*domain.Beneficiary, error)
	CreateBeneficiaryAccount(ctx context.Context, account *domain.BeneficiaryAccount) error
	FindBeneficiaryAccountsByBeneficiaryID(ctx context.Context, beneficiaryID uuid.UUID) ([]domain.BeneficiaryAccount, error)
	FindBeneficiaryAccountByID(ctx context.Context, accountID, beneficiaryID uuid.UUID) (*domain.BeneficiaryAccount, error)

	// Funding instruments
	CreatePaymentMethod(ctx context.Context, method *domain.PaymentMethod) error
	FindPaymentMethodsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.PaymentMethod, error)
	FindPaymentMethodByID(ctx context.Context, methodID, userID uuid.UUID) (*domain.PaymentMethod, error)
	UpdatePaymentMethodData(ctx context.Context, methodID uuid.UUID, data []byte) error

	// Quotes
	CreateQuote(ctx context.Context, quote *domain.Quote) error
	// FindQuoteByReference resolves a quote by local row id or provider quote id.
	FindQuoteByReference(ctx context.Context, reference string, userID uuid.UUID) (*domain.Quote, error)

	// Transactions
	CreateTransaction(ctx context.Context, tx *domain.Transaction) error
	FindTransactionsByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Transaction, error)
	FindTransactionByID(ctx context.Context, transactionID, userID uuid.UUID) (*domain.Transaction, error)
	UpdateTransactionStatus(ctx context.Context, transactionID uuid.UUID, status string, data []byte) error
}
