/**
 * @description
 * Identity profile sync: the entity-linking flow that mirrors the local KYC
 * profile to a remote participant. The create-vs-update decision is driven by
 * the stored remote participant id: no row or no id means create, an existing id
 * means an in-place update against that id. The id is persisted exactly once;
 * re-syncs refresh the attributes but never replace the linkage.
 */

package app

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/inyo-global/remittance-sample/internal/domain"
	"github.com/inyo-global/remittance-sample/internal/store"
	"github.com/inyo-global/remittance-sample/pkg/machnetclient"
	"github.com/inyo-global/remittance-sample/pkg/rabbitmq"
)

const docTypeDriverLicense = "driver_license"

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// titleCase normalizes a gender value to the provider's expected casing
// ("male" -> "Male").
func titleCase(value string) string {
	if value == "" {
		return ""
	}
	return strings.ToUpper(value[:1]) + strings.ToLower(value[1:])
}

// CompleteProfile syncs the user's identity profile to the remote provider and
// persists the returned participant id beside the local row.
func (s *Service) CompleteProfile(ctx context.Context, userID uuid.UUID, req domain.CompleteProfileRequest) (string, error) {
	if req.PhoneNumber != "" {
		if err := s.repo.UpdateUserPhoneNumber(ctx, userID, req.PhoneNumber); err != nil {
			return "", err
		}
	}

	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return "", err
	}

	stateCode := firstNonEmpty(req.State, user.State)
	payload := machnetclient.ParticipantRequest{
		FirstName:   firstNonEmpty(req.FirstName, user.FirstName),
		LastName:    firstNonEmpty(req.LastName, user.LastName),
		Email:       user.Email,
		BirthDate:   user.DateOfBirth,
		PhoneNumber: firstNonEmpty(req.PhoneNumber, user.PhoneNumber),
		Address: &machnetclient.Address{
			CountryCode: "US",
			StateCode:   stateCode,
			City:        user.City,
			Line1:       user.Address,
			Zipcode:     user.Zipcode,
		},
		Occupation: req.Occupation,
		Gender:     titleCase(req.Gender),
		ExternalID: userID.String(),
	}
	if req.DocType != "" && req.DocNumber != "" {
		doc := machnetclient.Document{
			Type:        strings.ToUpper(req.DocType),
			Document:    req.DocNumber,
			CountryCode: "US",
			ExpireDate:  req.ExpirationDate,
		}
		if strings.EqualFold(req.DocType, docTypeDriverLicense) {
			doc.Issuer = stateCode
		}
		payload.Documents = []machnetclient.Document{doc}
	}

	// Create-vs-update: an already-linked profile is patched in place.
	existing, err := s.repo.FindProfileByUserID(ctx, userID)
	if err != nil && err != store.ErrProfileNotFound {
		return "", err
	}

	var result *machnetclient.ParticipantResult
	if existing.Synced() {
		log.Printf("level=info component=service msg=\"updating remote participant\" user_id=%s participant_id=%s", userID, existing.ExternalID)
		result, err = s.provider.UpdateParticipant(ctx, existing.ExternalID, payload)
	} else {
		log.Printf("level=info component=service msg=\"creating remote participant\" user_id=%s", userID)
		result, err = s.provider.CreateParticipant(ctx, payload)
	}
	if err != nil {
		return "", remoteError(err)
	}

	// Driver licenses are state-issued; keep the issuing state in the
	// issuing-country column the way downstream reporting expects.
	issuingCountry := req.IssuingCountry
	if req.DocType == docTypeDriverLicense {
		issuingCountry = stateCode
	}

	extra, err := json.Marshal(map[string]string{
		"state":                  req.State,
		"originalIssuingCountry": req.IssuingCountry,
		"phoneNumber":            req.PhoneNumber,
	})
	if err != nil {
		return "", err
	}

	profile := &domain.Profile{
		UserID:         userID,
		Gender:         req.Gender,
		Occupation:     req.Occupation,
		DocType:        req.DocType,
		DocNumber:      req.DocNumber,
		IssuingCountry: issuingCountry,
		ExpirationDate: req.ExpirationDate,
		ExternalID:     result.ID,
		Data:           extra,
	}
	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		persistErr := &PersistFailureError{Entity: "profile", RemoteID: result.ID, Err: err}
		log.Printf("level=error component=service msg=\"CRITICAL: profile persisted remotely but not locally; requires reconciliation\" user_id=%s participant_id=%s err=%v", userID, result.ID, err)
		return "", persistErr
	}

	s.publish(ctx, rabbitmq.RoutingKeyParticipantSynced, rabbitmq.ParticipantSyncedEvent{
		UserID:        userID,
		ParticipantID: result.ID,
		Created:       !existing.Synced(),
		Timestamp:     s.now(),
	})

	return result.ID, nil
}

// GetCompliance fetches the participant's compliance levels from the provider.
// The result is intentionally uncached: compliance state changes as documents
// are reviewed.
func (s *Service) GetCompliance(ctx context.Context, userID uuid.UUID) (json.RawMessage, error) {
	profile, err := s.repo.FindProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.Synced() {
		return nil, store.ErrProfileNotFound
	}

	levels, err := s.provider.GetComplianceLevels(ctx, profile.ExternalID)
	if err != nil {
		return nil, remoteError(err)
	}
	return levels, nil
}
