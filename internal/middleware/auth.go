// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/token"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// UserKey is the context key for the authenticated user.
	UserKey contextKey = "user"
)

// userLoader is the slice of the user store the authenticator needs.
type userLoader interface {
	FindByID(id uuid.UUID) (*models.User, error)
}

// Authenticator verifies bearer tokens and loads the matching user.
type Authenticator struct {
	tokens *token.Manager
	users  userLoader
}

// NewAuthenticator creates an Authenticator backed by the given token
// manager and user store.
func NewAuthenticator(tokens *token.Manager, users userLoader) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// RequireAuth verifies the request's token and stores the user in the
// request context. The user record is loaded fresh on every request so
// that role and active-status changes take effect without re-login.
// Rejects with 401 when the token is missing, invalid, or the user no
// longer exists or has been deactivated.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := extractToken(r)
		if raw == "" {
			writeJSONError(w, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		claims, err := a.tokens.Verify(raw)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		user, err := a.users.FindByID(claims.UserID)
		if err != nil || user == nil || !user.IsActive {
			writeJSONError(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole returns 403 unless the context user's role is one of the
// given roles. Must be applied after RequireAuth.
func (a *Authenticator) RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromCtx(r.Context())
			if user == nil {
				writeJSONError(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeJSONError(w, http.StatusForbidden, "Not authorized to access this route")
		})
	}
}

// UserFromCtx extracts the authenticated user from the request context.
// Returns nil outside of RequireAuth.
func UserFromCtx(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserKey).(*models.User)
	return user
}

// extractToken pulls the bearer token from the Authorization header,
// falling back to the "token" cookie.
func extractToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if c, err := r.Cookie("token"); err == nil {
		return c.Value
	}
	return ""
}
