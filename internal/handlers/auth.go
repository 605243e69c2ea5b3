// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"inkwell/internal/middleware"
	"inkwell/internal/store"
	"inkwell/internal/token"
)

// Auth groups the authentication endpoints: login, logout, current user,
// and profile updates.
type Auth struct {
	users        *store.UserStore
	tokens       *token.Manager
	secureCookie bool
}

// NewAuth creates a new Auth handler group. secureCookie should be true
// in production so the token cookie is HTTPS-only.
func NewAuth(users *store.UserStore, tokens *token.Manager, secureCookie bool) *Auth {
	return &Auth{users: users, tokens: tokens, secureCookie: secureCookie}
}

// Login verifies credentials and issues a signed token. Unknown email,
// deactivated account, and wrong password all produce the same generic
// message so the response doesn't reveal which part failed.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Please provide email and password")
		return
	}

	user, err := a.users.FindByEmail(req.Email)
	if err != nil {
		writeServerError(w, "login lookup failed", err)
		return
	}

	if user == nil || !user.IsActive || !a.users.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	raw, err := a.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		writeServerError(w, "token issue failed", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    raw,
		Path:     "/",
		MaxAge:   int(a.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   raw,
		"user":    user,
	})
}

// Logout clears the token cookie. The token itself stays valid until it
// expires; there is no server-side revocation.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Logged out successfully",
	})
}

// Me returns the authenticated user's own record.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"user": user,
	})
}

// UpdateProfile applies partial changes to the caller's own record.
// Absent fields are left alone; an explicit empty avatar or bio clears it.
func (a *Auth) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var req struct {
		Name     string  `json:"name"`
		Password string  `json:"password"`
		Avatar   *string `json:"avatar"`
		Bio      *string `json:"bio"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if req.Avatar != nil {
		user.Avatar = req.Avatar
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}

	if err := a.users.Update(user); err != nil {
		writeServerError(w, "profile update failed", err)
		return
	}

	if req.Password != "" {
		if err := a.users.SetPassword(user.ID, req.Password); err != nil {
			writeServerError(w, "password update failed", err)
			return
		}
	}

	updated, err := a.users.FindByID(user.ID)
	if err != nil {
		writeServerError(w, "profile reload failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    updated,
	})
}
