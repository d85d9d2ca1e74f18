package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inyo-global/remittance-sample/internal/auth"
	"github.com/inyo-global/remittance-sample/internal/cache"
	"github.com/inyo-global/remittance-sample/internal/domain"
	"github.com/inyo-global/remittance-sample/internal/store"
	"github.com/inyo-global/remittance-sample/pkg/machnetclient"
)

func newTestService(t *testing.T) (*Service, *fakeRepo, *fakeProvider, *cache.MemoryCache) {
	t.Helper()
	repo := newFakeRepo()
	provider := &fakeProvider{}
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	memCache := cache.NewMemoryCacheWithClock(func() time.Time { return clock })
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	svc := NewService(repo, provider, memCache, nil, tokens, 4).WithClock(func() time.Time { return clock })
	return svc, repo, provider, memCache
}

func seedUser(t *testing.T, repo *fakeRepo, email string) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	user := &domain.User{
		ID:          uuid.New(),
		Email:       email,
		Password:    hash,
		FirstName:   "Asha",
		LastName:    "Gurung",
		DateOfBirth: "1990-01-15",
		Address:     "1 Main St",
		City:        "Austin",
		State:       "TX",
		Zipcode:     "78701",
	}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return user
}

func seedSyncedProfile(t *testing.T, repo *fakeRepo, userID uuid.UUID) *domain.Profile {
	t.Helper()
	profile := &domain.Profile{
		UserID:     userID,
		DocType:    "passport",
		DocNumber:  "P1234567",
		ExternalID: "prt-synced",
	}
	if err := repo.UpsertProfile(context.Background(), profile); err != nil {
		t.Fatalf("seed profile failed: %v", err)
	}
	return profile
}

func TestRegisterHashesPasswordAndIssuesSession(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	user, token, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:     "new@example.com",
		Password:  "password123",
		FirstName: "Asha",
		LastName:  "Gurung",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}

	stored := repo.users[user.ID]
	if stored == nil {
		t.Fatal("expected user to be persisted")
	}
	if stored.Password == "password123" {
		t.Fatal("password must not be stored as plaintext")
	}
	if ok, _ := auth.VerifyPassword(stored.Password, "password123"); !ok {
		t.Fatal("stored hash does not verify against the original password")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	seedUser(t, repo, "taken@example.com")

	_, _, err := svc.Register(context.Background(), domain.RegisterRequest{
		Email:     "taken@example.com",
		Password:  "password123",
		FirstName: "Asha",
		LastName:  "Gurung",
	})
	if !errors.Is(err, store.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginWrongPasswordReadsAsNotFound(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	seedUser(t, repo, "sender@example.com")

	_, _, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "sender@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for wrong password, got %v", err)
	}
}

func TestLoginUpgradesLegacyPlaintextRow(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	user := &domain.User{ID: uuid.New(), Email: "legacy@example.com", Password: "plain-secret"}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user failed: %v", err)
	}

	_, token, err := svc.Login(context.Background(), domain.LoginRequest{
		Email:    "legacy@example.com",
		Password: "plain-secret",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}

	upgraded := repo.users[user.ID].Password
	if upgraded == "plain-secret" {
		t.Fatal("expected the legacy plaintext row to be rewritten")
	}
	if ok, needsUpgrade := auth.VerifyPassword(upgraded, "plain-secret"); !ok || needsUpgrade {
		t.Fatalf("expected upgraded bcrypt row, got ok=%t needsUpgrade=%t", ok, needsUpgrade)
	}
}

func TestCompleteProfileLinksParticipantOnce(t *testing.T) {
	svc, repo, provider, _ := newTestService(t)
	user := seedUser(t, repo, "sender@example.com")

	req := domain.CompleteProfileRequest{
		Gender:         "male",
		Occupation:     "Engineer",
		DocType:        "passport",
		DocNumber:      "P1234567",
		IssuingCountry: "US",
		ExpirationDate: "2030-01-01",
		PhoneNumber:    "+15125550100",
	}

	participantID, err := svc.CompleteProfile(context.Background(), user.ID, req)
	if err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	if participantID != "prt-1" {
		t.Fatalf("expected participant id prt-1, got %q", participantID)
	}
	if provider.createParticipantCalls != 1 || provider.updateParticipantCalls != 0 {
		t.Fatalf("expected exactly one create, got create=%d update=%d",
			provider.createParticipantCalls, provider.updateParticipantCalls)
	}

	// Re-syncing an already-linked profile must patch the same participant.
	req.Occupation = "Nurse"
	participantID, err = svc.CompleteProfile(context.Background(), user.ID, req)
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if participantID != "prt-1" {
		t.Fatalf("expected participant id to stay prt-1, got %q", participantID)
	}
	if provider.createParticipantCalls != 1 || provider.updateParticipantCalls != 1 {
		t.Fatalf("expected one create and one update, got create=%d update=%d",
			provider.createParticipantCalls, provider.updateParticipantCalls)
	}
	if repo.profiles[user.ID].ExternalID != "prt-1" {
		t.Fatalf("participant linkage changed to %q", repo.profiles[user.ID].ExternalID)
	}
	if repo.profiles[user.ID].Occupation != "Nurse" {
		t.Fatal("expected profile attributes to refresh on re-sync")
	}
}

func TestCompleteProfileDriverLicenseIssuedByState(t *testing.T) {
	svc, repo, provider, _ := newTestService(t)
	user := seedUser(t, repo, "sender@example.com")

	var captured string
	provider.createParticipantFn = func(req machnetclient.ParticipantRequest) (*machnetclient.ParticipantResult, error) {
		if len(req.Documents) == 1 {
			captured = req.Documents[0].Issuer
		}
		return &machnetclient.ParticipantResult{ID: "prt-1", Raw: json.RawMessage(`{}`)}, nil
	}

	_, err := svc.CompleteProfile(context.Background(), user.ID, domain.CompleteProfileRequest{
		DocType:        "driver_license",
		DocNumber:      "D5550001",
		IssuingCountry: "US",
	})
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if captured != "TX" {
		t.Fatalf("expected driver license issuer to be the state code, got %q", captured)
	}
	if got := repo.profiles[user.ID].IssuingCountry; got != "TX" {
		t.Fatalf("expected issuing country stored as state for driver licenses, got %q", got)
	}
}

func TestCompleteProfilePersistFailureCarriesRemoteID(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	user := seedUser(t, repo, "sender@example.com")
	repo.upsertProfileErr = errors.New("disk full")

	_, err := svc.CompleteProfile(context.Background(), user.ID, domain.CompleteProfileRequest{
		DocType:   "passport",
		DocNumber: "P1234567",
	})

	var persist *PersistFailureError
	if !errors.As(err, &persist) {
		t.Fatalf("expected PersistFailureError, got %v", err)
	}
	if persist.RemoteID != "prt-1" {
		t.Fatalf("expected the remote participant id for reconciliation, got %q", persist.RemoteID)
	}
}

func TestGetLimitsServedFromCache(t *testing.T) {
	svc, repo, provider, _ := newTestService(t)
	user := seedUser(t, repo, "sender@example.com")
	seedSyncedProfile(t, repo, user.ID)

	first, err := svc.GetLimits(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	second, err := svc.GetLimits(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("expected identical payloads from cache")
	}
	if provider.limitsCalls != 1 {
		t.Fatalf("expected a single remote fetch, got %d", provider.limitsCalls)
	}
}

func TestGetLimitsZeroFallbackIsNotCached(t *testing.T) {
	svc, repo, provider, _ := newTestService(t)
	user := seedUser(t, repo, "sender@example.com")
	seedSyncedProfile(t, repo, user.ID)
	provider.limitsFn = func(string) (json.RawMessage, error) {
		return nil, errors.New("gateway timeout")
	}

	limits, err := svc.GetLimits(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("expected fallback instead of error, got %v", err)
	}
	if !strings.Contains(string(limits), `"limit":0`) {
		t.Fatalf("expected zero-value limits document, got %s", limits)
	}

	// The fallback must not poison the cache: the next read retries the remote.
	if _, err := svc.GetLimits(context.Background(), user.ID); err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}
	if provider.limitsCalls != 2 {
		t.Fatalf("expected the failure path to stay uncached, got %d calls", provider.limitsCalls)
	}
}

func TestGetLimitsUnsyncedProfileZeroValue(t *testing.T) {
	svc, repo, provider, _ := newTestService(t)
	user := seedUser(t, repo, "sender@example.com")

	limits, err := svc.GetLimits(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("expected zero-value fallback, got %v", err)
	}
	if !strings.Contains(string(limits), `"limit":0`) {
		t.Fatalf("expected zero-value limits document, got %s", limits)
	}
	if provider.limitsCalls != 0 {
		t.Fatal("unsynced profiles must not reach the provider")
	}
}

func TestGetDestinationsCached(t *testing.T) {
	svc, _, provider, _ := newTestService(t)

	for i := 0; i < 3; i++ {
		if _, err := svc.GetDestinations(context.Background()); err != nil {
			t.Fatalf("fetch %d failed: %v", i, err)
		}
	}
	if provider.destinationsCalls != 1 {
		t.Fatalf("expected a single remote fetch, got %d", provider.destinationsCalls)
	}
}

func TestGetBanksCachedPerCountry(t *testing.T) {
	svc, _, provider, _ := newTestService(t)

	if _, err := svc.GetBanks(context.Background(), "NP"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if _, err := svc.GetBanks(context.Background(), "NP"); err != nil {
		t.Fatalf("cached fetch failed: %v", err)
	}
	if _, err := svc.GetBanks(context.Background(), "MX"); err != nil {
		t.Fatalf("second country fetch failed: %v", err)
	}
	if provider.banksCalls != 2 {
		t.Fatalf("expected one fetch per country, got %d", provider.banksCalls)
	}
}
