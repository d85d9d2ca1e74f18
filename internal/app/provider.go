/**
 * @description
 * The Provider port: the subset of the Machnet client the application layer
 * depends on. Declared as an interface so tests can substitute a fake provider
 * and count remote calls deterministically.
 */

package app

import (
	"context"
	"encoding/json"

	"github.com/inyo-global/remittance-sample/pkg/machnetclient"
)

// Provider is the remote participant/FX/payout API as seen by the service.
// *machnetclient.Client satisfies it.
type Provider interface {
	CreateParticipant(ctx context.Context, req machnetclient.ParticipantRequest) (*machnetclient.ParticipantResult, error)
	UpdateParticipant(ctx context.Context, participantID string, req machnetclient.ParticipantRequest) (*machnetclient.ParticipantResult, error)
	CreateRecipient(ctx context.Context, form json.RawMessage) (*machnetclient.ParticipantResult, error)
	GetComplianceLevels(ctx context.Context, participantID string) (json.RawMessage, error)
	GetParticipantLimits(ctx context.Context, participantID string) (json.RawMessage, error)
	ListDestinations(ctx context.Context) (json.RawMessage, error)
	ListBanks(ctx context.Context, countryCode string) (json.RawMessage, error)
	GetRecipientSchema(ctx context.Context, countryCode string) (json.RawMessage, error)
	GetRecipientAccountSchema(ctx context.Context, countryCode string) (json.RawMessage, error)
	CreateQuote(ctx context.Context, req machnetclient.QuoteRequest) (*machnetclient.QuoteResult, error)
	CreateFundingAccount(ctx context.Context, participantID string, req machnetclient.FundingAccountRequest) (*machnetclient.FundingAccountResult, error)
	GetFundingAccount(ctx context.Context, fundingAccountID string) (*machnetclient.FundingAccountResult, error)
	CreateRecipientAccount(ctx context.Context, externalPersonID string, form json.RawMessage) (*machnetclient.ParticipantResult, error)
	CreateTransaction(ctx context.Context, req machnetclient.TransactionRequest) (*machnetclient.TransactionResult, error)
	GetTransaction(ctx context.Context, transactionID string) (*machnetclient.TransactionResult, error)
}
