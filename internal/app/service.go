/**
 * @description
 * This file contains the core application service for the remittance backend and
 * its account/session operations. The `Service` struct coordinates between the
 * database repository, the remote FX/payout provider client, the volatile cache,
 * and the message broker.
 *
 * Key features:
 * - Registration and login with bcrypt credentials (legacy plaintext rows are
 *   upgraded in place on first successful login).
 * - Entity linking: local rows are mirrored to provider resources and the
 *   provider-issued ids are persisted beside them.
 * - The transaction orchestration in service_transactions.go is the only flow
 *   that mutates more than one entity type per call.
 *
 * @dependencies
 * - context, errors, fmt, log, time: Standard Go libraries.
 * - github.com/google/uuid: For UUID generation.
 * - internal/auth, internal/cache, internal/domain, internal/store: Internal packages.
 * - pkg/rabbitmq: Event publishing.
 */

package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/inyo-global/remittance-sample/internal/auth"
	"github.com/inyo-global/remittance-sample/internal/cache"
	"github.com/inyo-global/remittance-sample/internal/domain"
	"github.com/inyo-global/remittance-sample/internal/store"
	"github.com/inyo-global/remittance-sample/pkg/rabbitmq"
)

// ReferenceDataTTL bounds the staleness of cached provider reference data
// (usage limits, payout destinations, bank lists).
const ReferenceDataTTL = 24 * time.Hour

// Service provides the core business logic for the remittance backend.
type Service struct {
	repo     store.Repository
	provider Provider
	cache    cache.Cache
	events   rabbitmq.Publisher
	tokens   *auth.TokenIssuer

	cacheTTL time.Duration
	quoteFee float64
	now      func() time.Time
}

// NewService creates a new remittance service instance. The events publisher may
// be nil; event publishing then degrades to a no-op.
func NewService(repo store.Repository, provider Provider, volatileCache cache.Cache, events rabbitmq.Publisher, tokens *auth.TokenIssuer, quoteFee float64) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		cache:    volatileCache,
		events:   events,
		tokens:   tokens,
		cacheTTL: ReferenceDataTTL,
		quoteFee: quoteFee,
		now:      time.Now,
	}
}

// WithClock overrides the service clock, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// publish sends a lifecycle event and logs instead of failing the caller's
// operation when the broker is unavailable.
func (s *Service) publish(ctx context.Context, routingKey string, body interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, rabbitmq.EventsExchange, routingKey, body); err != nil {
		log.Printf("level=warn component=service msg=\"event publish failed\" routing_key=%s err=%v", routingKey, err)
	}
}

// Register creates a new account and issues a session credential.
func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, string, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:          uuid.New(),
		Email:       req.Email,
		Password:    hash,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Zipcode:     req.Zipcode,
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies the credentials and issues a session credential. A successful
// match against a legacy plaintext row rewrites the row as a bcrypt hash.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error) {
	user, err := s.repo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}

	ok, needsUpgrade := auth.VerifyPassword(user.Password, req.Password)
	if !ok {
		return nil, "", store.ErrUserNotFound
	}
	if needsUpgrade {
		hash, hashErr := auth.HashPassword(req.Password)
		if hashErr == nil {
			if upErr := s.repo.UpdateUserPassword(ctx, user.ID, hash); upErr != nil {
				log.Printf("level=warn component=service msg=\"legacy password upgrade failed\" user_id=%s err=%v", user.ID, upErr)
			}
		}
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetProfile returns the account row and its identity profile. The profile is
// nil when the user has not completed it yet.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, *domain.Profile, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	profile, err := s.repo.FindProfileByUserID(ctx, userID)
	if err != nil {
		if err == store.ErrProfileNotFound {
			return user, nil, nil
		}
		return nil, nil, err
	}
	return user, profile, nil
}

// syncedProfile resolves the user's profile and requires it to be linked to a
// remote participant.
func (s *Service) syncedProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, err := s.repo.FindProfileByUserID(ctx, userID)
	if err != nil {
		if err == store.ErrProfileNotFound {
			return nil, ErrProfileIncomplete
		}
		return nil, err
	}
	if !profile.Synced() {
		return nil, ErrProfileIncomplete
	}
	return profile, nil
}
