/**
 * @description
 * Typed errors for the application layer. Handlers map these onto HTTP statuses
 * with errors.Is/As; the provider's raw error body is carried along so it can be
 * forwarded to callers unmodified.
 */

package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/inyo-global/remittance-sample/pkg/machnetclient"
)

// ErrProfileIncomplete is returned when an operation requires a synced identity
// profile and the user has none (or it has never been linked to the provider).
var ErrProfileIncomplete = errors.New("user profile or external id missing; complete profile first")

// MissingReferencesError aggregates every reference a transaction submission
// failed to resolve, so the caller can route the user to the right remediation
// step in one round trip.
type MissingReferencesError struct {
	Missing []string
}

func (e *MissingReferencesError) Error() string {
	return "missing required references: " + strings.Join(e.Missing, ", ")
}

// RemoteError is a failed call to the remote provider. Rejected means the
// provider returned a business-level decline (the submission was understood and
// refused); otherwise the provider was unreachable or answered outside its
// contract and the true outcome may be unknown.
type RemoteError struct {
	Rejected   bool
	StatusCode int
	Body       []byte
	Message    string
}

func (e *RemoteError) Error() string {
	kind := "remote unavailable"
	if e.Rejected {
		kind = "remote rejected"
	}
	if len(e.Body) > 0 {
		return fmt.Sprintf("%s: status %d: %s", kind, e.StatusCode, string(e.Body))
	}
	return fmt.Sprintf("%s: %s", kind, e.Message)
}

// remoteError classifies a provider client error. 4xx statuses are business
// declines; everything else (5xx, network failures, timeouts) is unavailability.
func remoteError(err error) *RemoteError {
	var apiErr *machnetclient.APIError
	if errors.As(err, &apiErr) {
		return &RemoteError{
			Rejected:   apiErr.StatusCode >= 400 && apiErr.StatusCode < 500,
			StatusCode: apiErr.StatusCode,
			Body:       apiErr.Body,
		}
	}
	return &RemoteError{Message: err.Error()}
}

// rejectedError builds a business-decline error from a 2xx response whose
// payload carries a declined status (e.g. a declined funding instrument).
func rejectedError(statusCode int, body []byte, message string) *RemoteError {
	return &RemoteError{Rejected: true, StatusCode: statusCode, Body: body, Message: message}
}

// PersistFailureError reports a local store write that failed after the remote
// side effect already succeeded. This is a recoverable inconsistency: the remote
// id is attached so the record can be reconciled, and it must never be silently
// retried.
type PersistFailureError struct {
	Entity   string
	RemoteID string
	Err      error
}

func (e *PersistFailureError) Error() string {
	return fmt.Sprintf("failed to persist %s after remote success (remote id %s): %v", e.Entity, e.RemoteID, e.Err)
}

func (e *PersistFailureError) Unwrap() error { return e.Err }
