package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inyo-global/remittance-sample/internal/auth"
)

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	userID := uuid.New()
	valid, err := tokens.Issue(userID, "sender@example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	expiredIssuer := auth.NewTokenIssuer("test-secret", time.Hour).
		WithClock(func() time.Time { return time.Now().Add(-48 * time.Hour) })
	expired, err := expiredIssuer.Issue(userID, "sender@example.com")
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "missing header is unauthenticated",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header is forbidden",
			authHeader: "Token abc",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "garbage token is forbidden",
			authHeader: "Bearer not-a-jwt",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "expired token is forbidden",
			authHeader: "Bearer " + expired,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "valid token passes through",
			authHeader: "Bearer " + valid,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, ok := GetSessionUserID(r.Context())
				if !ok {
					t.Fatal("expected user id in context")
				}
				gotUserID = id
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(tokens)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus == http.StatusOK && gotUserID != userID {
				t.Fatalf("expected user id %s in context, got %s", userID, gotUserID)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		realIP     string
		want       string
	}{
		{
			name:       "remote addr without proxy headers",
			remoteAddr: "198.51.100.7:52100",
			want:       "198.51.100.7",
		},
		{
			name:       "first forwarded hop wins",
			remoteAddr: "10.0.0.1:80",
			forwarded:  "203.0.113.9, 10.0.0.1",
			want:       "203.0.113.9",
		},
		{
			name:       "real ip header",
			remoteAddr: "10.0.0.1:80",
			realIP:     "203.0.113.10",
			want:       "203.0.113.10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/transactions", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := clientIP(req); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
