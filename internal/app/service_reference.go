/**
 * @description
 * Cached provider reference data: per-user usage limits, the global payout
 * destination list, and per-country bank lists. All three keyspaces share the
 * 24h TTL. A cache miss triggers a remote fetch followed by a set; a failed
 * fetch is never cached, and the limits lookup specifically degrades to a
 * zero-value document so the feature stays available rather than broken.
 */

package app

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/inyo-global/remittance-sample/internal/cache"
	"github.com/inyo-global/remittance-sample/internal/store"
)

// zeroLimits is the documented fallback returned when the user has no synced
// profile or the provider cannot be reached.
var zeroLimits = json.RawMessage(`{"oneDayLimit":{"limit":0,"used":0},"thirtyDaysLimit":{"limit":0,"used":0},"oneHundredAndEightyDaysLimit":{"limit":0,"used":0}}`)

// GetLimits returns the user's periodic usage limits, served from cache within
// the TTL. Fallbacks never poison the cache.
func (s *Service) GetLimits(ctx context.Context, userID uuid.UUID) (json.RawMessage, error) {
	key := cache.LimitsKey(userID.String())
	if cached, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Printf("level=warn component=service msg=\"limits cache read failed\" user_id=%s err=%v", userID, err)
	}

	profile, err := s.repo.FindProfileByUserID(ctx, userID)
	if err != nil {
		if err == store.ErrProfileNotFound {
			return zeroLimits, nil
		}
		return nil, err
	}
	if !profile.Synced() {
		return zeroLimits, nil
	}

	limits, err := s.provider.GetParticipantLimits(ctx, profile.ExternalID)
	if err != nil {
		log.Printf("level=warn component=service msg=\"limits fetch failed; serving zero-value fallback\" user_id=%s err=%v", userID, err)
		return zeroLimits, nil
	}

	if err := s.cache.Set(ctx, key, limits, s.cacheTTL); err != nil {
		log.Printf("level=warn component=service msg=\"limits cache write failed\" user_id=%s err=%v", userID, err)
	}
	return limits, nil
}

// GetDestinations returns the global payout destination list, cached for the
// TTL; staleness is tolerated and there is no invalidation trigger.
func (s *Service) GetDestinations(ctx context.Context) (json.RawMessage, error) {
	if cached, ok, err := s.cache.Get(ctx, cache.KeyDestinations); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Printf("level=warn component=service msg=\"destinations cache read failed\" err=%v", err)
	}

	destinations, err := s.provider.ListDestinations(ctx)
	if err != nil {
		return nil, remoteError(err)
	}
	if err := s.cache.Set(ctx, cache.KeyDestinations, destinations, s.cacheTTL); err != nil {
		log.Printf("level=warn component=service msg=\"destinations cache write failed\" err=%v", err)
	}
	return destinations, nil
}

// GetBanks returns the bank list for a payout country, cached per country code.
func (s *Service) GetBanks(ctx context.Context, countryCode string) (json.RawMessage, error) {
	key := cache.BanksKey(countryCode)
	if cached, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Printf("level=warn component=service msg=\"banks cache read failed\" country=%s err=%v", countryCode, err)
	}

	banks, err := s.provider.ListBanks(ctx, countryCode)
	if err != nil {
		return nil, remoteError(err)
	}
	if err := s.cache.Set(ctx, key, banks, s.cacheTTL); err != nil {
		log.Printf("level=warn component=service msg=\"banks cache write failed\" country=%s err=%v", countryCode, err)
	}
	return banks, nil
}

// GetRecipientSchema proxies the provider's country-specific recipient form schema.
func (s *Service) GetRecipientSchema(ctx context.Context, countryCode string) (json.RawMessage, error) {
	schema, err := s.provider.GetRecipientSchema(ctx, countryCode)
	if err != nil {
		return nil, remoteError(err)
	}
	return schema, nil
}

// GetRecipientAccountSchema proxies the provider's payout-account form schema.
func (s *Service) GetRecipientAccountSchema(ctx context.Context, countryCode string) (json.RawMessage, error) {
	schema, err := s.provider.GetRecipientAccountSchema(ctx, countryCode)
	if err != nil {
		return nil, remoteError(err)
	}
	return schema, nil
}
