/**
 * @description
 * This file contains custom middleware for the HTTP router. Middlewares are used
 * to process requests before they reach the final handler, perfect for tasks like
 * authentication, logging, or adding context to a request.
 *
 * @dependencies
 * - context, net/http, strings: Standard Go libraries.
 * - internal/auth: Session token verification.
 */

package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/inyo-global/remittance-sample/internal/auth"
)

// UserIDContextKey is a custom type for the context key to avoid collisions.
type UserIDContextKey string

const sessionUserIDKey UserIDContextKey = "sessionUserID"

// AuthMiddleware creates a middleware that validates session tokens issued by
// the service. A missing credential is 401; a malformed or expired one is 403.
func AuthMiddleware(tokens *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			// Extract the token from "Bearer <token>"
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
				writeError(w, http.StatusForbidden, "Invalid Authorization header format")
				return
			}

			session, err := tokens.Verify(tokenString)
			if err != nil {
				writeError(w, http.StatusForbidden, "Invalid or expired session token")
				return
			}

			// Add the user ID to the request context
			ctx := context.WithValue(r.Context(), sessionUserIDKey, session.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionUserID retrieves the authenticated user's ID from the request context.
func GetSessionUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(sessionUserIDKey).(uuid.UUID)
	return userID, ok
}
