/**
 * @description
 * This package provides a client for the Machnet cross-border FX/payout API.
 * It encapsulates the logic for making authenticated HTTP requests against the
 * tenant-scoped endpoints, building request bodies, and normalizing responses.
 *
 * @dependencies
 * - bytes, context, encoding/json, fmt, io, net/http, net/url, time: Standard Go libraries.
 *
 * @notes
 * - Every request carries the tenant API key, agent id, and agent key headers.
 * - A default HTTP client with a timeout prevents requests from hanging
 *   indefinitely; callers treat timeout errors as "outcome unknown" and
 *   reconcile via the fetch endpoints rather than inferring failure.
 * - Non-2xx responses are returned as *APIError with the raw body preserved so
 *   the provider's error payload can be forwarded to the caller unmodified.
 */
package machnetclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is a client for the Machnet API, scoped to one tenant organization.
type Client struct {
	BaseURL    string
	Tenant     string
	APIKey     string
	AgentID    string
	AgentKey   string
	httpClient *http.Client
}

// NewClient creates a new Machnet API client.
func NewClient(baseURL, tenant, apiKey, agentID, agentKey string) *Client {
	return &Client{
		BaseURL:  baseURL,
		Tenant:   tenant,
		APIKey:   apiKey,
		AgentID:  agentID,
		AgentKey: agentKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-2xx response from the provider. The raw body is preserved
// verbatim for diagnostics and for forwarding to API callers.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("machnet api error: status %d: %s", e.StatusCode, string(e.Body))
}

// orgURL builds a tenant-scoped endpoint URL.
func (c *Client) orgURL(format string, args ...interface{}) string {
	return fmt.Sprintf("%s/organizations/%s%s", c.BaseURL, c.Tenant, fmt.Sprintf(format, args...))
}

// setHeaders adds the tenant and agent credentials to the request.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("x-agent-id", c.AgentID)
	req.Header.Set("x-agent-api-key", c.AgentKey)
}

// do executes one request and returns the raw body when the response status is
// one of wantStatus. Any other status becomes an *APIError.
func (c *Client) do(ctx context.Context, method, rawURL string, body interface{}, wantStatus ...int) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to machnet: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read machnet response: %w", err)
	}

	for _, status := range wantStatus {
		if resp.StatusCode == status {
			return raw, nil
		}
	}
	return nil, &APIError{StatusCode: resp.StatusCode, Body: raw}
}

// CreateParticipant registers a new participant (sender or recipient person)
// with the provider.
func (c *Client) CreateParticipant(ctx context.Context, req ParticipantRequest) (*ParticipantResult, error) {
	raw, err := c.do(ctx, http.MethodPost, c.orgURL("/people"), req, http.StatusOK, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return decodeParticipant(raw)
}

// UpdateParticipant patches an existing remote participant in place.
func (c *Client) UpdateParticipant(ctx context.Context, participantID string, req ParticipantRequest) (*ParticipantResult, error) {
	raw, err := c.do(ctx, http.MethodPatch, c.orgURL("/people/%s", url.PathEscape(participantID)), req, http.StatusOK, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	result, err := decodeParticipant(raw)
	if err != nil {
		return nil, err
	}
	// Some update responses omit the id; the caller already holds it.
	if result.ID == "" {
		result.ID = participantID
	}
	return result, nil
}

// CreateRecipient registers a payout recipient. The country-specific form is
// forwarded untouched; it must already carry the externalId linkage field.
func (c *Client) CreateRecipient(ctx context.Context, form json.RawMessage) (*ParticipantResult, error) {
	raw, err := c.do(ctx, http.MethodPost, c.orgURL("/people"), form, http.StatusOK, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return decodeParticipant(raw)
}

func decodeParticipant(raw []byte) (*ParticipantResult, error) {
	var result ParticipantResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode participant response: %w", err)
	}
	result.Raw = raw
	return &result, nil
}

// GetComplianceLevels fetches the participant's compliance level document.
func (c *Client) GetComplianceLevels(ctx context.Context, participantID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, c.orgURL("/participants/%s/complianceLevels", url.PathEscape(participantID)), nil, http.StatusOK)
}

// GetParticipantLimits fetches the participant's periodic usage limits.
func (c *Client) GetParticipantLimits(ctx context.Context, participantID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, c.orgURL("/fx/participants/%s/limits", url.PathEscape(participantID)), nil, http.StatusOK)
}

// ListDestinations fetches the global list of payout destination countries.
func (c *Client) ListDestinations(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, c.orgURL("/payout/us/destinations"), nil, http.StatusOK)
}

// ListBanks fetches the bank list for a payout country.
func (c *Client) ListBanks(ctx context.Context, countryCode string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, c.orgURL("/payout/%s/banks?size=100", url.PathEscape(countryCode)), nil, http.StatusOK)
}

// GetRecipientSchema fetches the country-specific recipient form schema.
func (c *Client) GetRecipientSchema(ctx context.Context, countryCode string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, c.orgURL("/payout/recipients/schema/%s", url.PathEscape(countryCode)), nil, http.StatusOK)
}

// GetRecipientAccountSchema fetches the country-specific payout-account form schema.
func (c *Client) GetRecipientAccountSchema(ctx context.Context, countryCode string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, c.orgURL("/payout/recipientAccounts/schema/%s", url.PathEscape(countryCode)), nil, http.StatusOK)
}

// CreateQuote requests FX quotes for a currency pair and amount.
func (c *Client) CreateQuote(ctx context.Context, req QuoteRequest) (*QuoteResult, error) {
	raw, err := c.do(ctx, http.MethodPost, c.orgURL("/payout/quotes"), req, http.StatusOK, http.StatusCreated)
	if err != nil {
		return nil, err
	}

	result := &QuoteResult{Raw: raw}

	var envelope struct {
		Quotes []json.RawMessage `json:"quotes"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}
	options := envelope.Quotes
	if len(options) == 0 {
		// Single-quote responses come back as a bare object.
		options = []json.RawMessage{raw}
	}
	for _, option := range options {
		var header struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(option, &header); err != nil {
			return nil, fmt.Errorf("failed to decode quote option: %w", err)
		}
		result.Options = append(result.Options, QuoteOption{ID: header.ID, Raw: option})
	}
	return result, nil
}

// CreateFundingAccount registers a funding instrument (card or ACH) under the
// participant.
func (c *Client) CreateFundingAccount(ctx context.Context, participantID string, req FundingAccountRequest) (*FundingAccountResult, error) {
	raw, err := c.do(ctx, http.MethodPost, c.orgURL("/payout/participants/%s/fundingAccounts", url.PathEscape(participantID)), req, http.StatusCreated, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return decodeFundingAccount(raw)
}

// GetFundingAccount fetches the current state of a funding account, used to
// resync pending-challenge instruments.
func (c *Client) GetFundingAccount(ctx context.Context, fundingAccountID string) (*FundingAccountResult, error) {
	raw, err := c.do(ctx, http.MethodGet, c.orgURL("/payout/fundingAccounts/%s", url.PathEscape(fundingAccountID)), nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return decodeFundingAccount(raw)
}

func decodeFundingAccount(raw []byte) (*FundingAccountResult, error) {
	var result FundingAccountResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode funding account response: %w", err)
	}
	result.Raw = raw
	return &result, nil
}

// CreateRecipientAccount registers a payout account under a remote recipient.
func (c *Client) CreateRecipientAccount(ctx context.Context, externalPersonID string, form json.RawMessage) (*ParticipantResult, error) {
	raw, err := c.do(ctx, http.MethodPost, c.orgURL("/payout/participants/%s/recipientAccounts/gateway", url.PathEscape(externalPersonID)), form, http.StatusOK, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return decodeParticipant(raw)
}

// CreateTransaction submits an FX transaction. A 202 means "accepted, outcome
// pending" and is treated as success with a provisional status.
func (c *Client) CreateTransaction(ctx context.Context, req TransactionRequest) (*TransactionResult, error) {
	raw, err := c.do(ctx, http.MethodPost, c.orgURL("/fx/transactions"), req,
		http.StatusOK, http.StatusCreated, http.StatusAccepted)
	if err != nil {
		return nil, err
	}
	return decodeTransaction(raw)
}

// GetTransaction fetches the current state of a submitted transaction, used by
// the status-sync reconciliation flow.
func (c *Client) GetTransaction(ctx context.Context, transactionID string) (*TransactionResult, error) {
	raw, err := c.do(ctx, http.MethodGet, c.orgURL("/fx/transactions/%s", url.PathEscape(transactionID)), nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return decodeTransaction(raw)
}

func decodeTransaction(raw []byte) (*TransactionResult, error) {
	var result TransactionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode transaction response: %w", err)
	}
	result.Raw = raw
	return &result, nil
}
