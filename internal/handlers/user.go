// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Users groups the admin-only user management endpoints.
type Users struct {
	users *store.UserStore
	blogs *store.BlogStore
}

// NewUsers creates a new Users handler group.
func NewUsers(users *store.UserStore, blogs *store.BlogStore) *Users {
	return &Users{users: users, blogs: blogs}
}

// List returns all users.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.users.List()
	if err != nil {
		writeServerError(w, "list users failed", err)
		return
	}
	if items == nil {
		items = []models.User{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(items),
		"users": items,
	})
}

// Publishers returns users with the publisher role, for author pickers.
func (h *Users) Publishers(w http.ResponseWriter, r *http.Request) {
	items, err := h.users.ListPublishers()
	if err != nil {
		writeServerError(w, "list publishers failed", err)
		return
	}
	if items == nil {
		items = []models.User{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(items),
		"users": items,
	})
}

// Get returns a single user by ID.
func (h *Users) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.load(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": user,
	})
}

// Create stores a new user account.
func (h *Users) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		writeError(w, http.StatusBadRequest, "Please provide all required fields")
		return
	}

	role := models.Role(req.Role)
	if !role.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	existing, err := h.users.FindByEmail(req.Email)
	if err != nil {
		writeServerError(w, "check user email failed", err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	}

	created, err := h.users.Create(req.Name, req.Email, req.Password, role)
	if err != nil {
		writeServerError(w, "create user failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    created,
	})
}

// Update applies partial changes to a user. Setting isActive=false
// soft-disables the account: existing tokens stop working on their next
// request because identity is reloaded per request.
func (h *Users) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.load(w, r)
	if !ok {
		return
	}

	var req struct {
		Name     string  `json:"name"`
		Email    string  `json:"email"`
		Password string  `json:"password"`
		Role     string  `json:"role"`
		IsActive *bool   `json:"isActive"`
		Avatar   *string `json:"avatar"`
		Bio      *string `json:"bio"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		user.Email = email
	}
	if req.Role != "" {
		role := models.Role(req.Role)
		if !role.Valid() {
			writeError(w, http.StatusBadRequest, "Invalid role")
			return
		}
		user.Role = role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Avatar != nil {
		user.Avatar = req.Avatar
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}

	if err := h.users.Update(user); err != nil {
		writeServerError(w, "update user failed", err)
		return
	}

	if req.Password != "" {
		if err := h.users.SetPassword(user.ID, req.Password); err != nil {
			writeServerError(w, "set password failed", err)
			return
		}
	}

	updated, err := h.users.FindByID(user.ID)
	if err != nil {
		writeServerError(w, "reload user failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User updated successfully",
		"user":    updated,
	})
}

// Delete removes a user account. Users who still have blogs cannot be
// deleted; deactivate them instead so authored content stays attributed.
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.load(w, r)
	if !ok {
		return
	}

	count, err := h.blogs.CountByAuthor(user.ID)
	if err != nil {
		writeServerError(w, "count user blogs failed", err)
		return
	}
	if count > 0 {
		writeError(w, http.StatusBadRequest, "Cannot delete user with existing blogs")
		return
	}

	if err := h.users.Delete(user.ID); err != nil {
		writeServerError(w, "delete user failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User deleted successfully",
	})
}

// load fetches the user from the URL. Responds and returns ok=false when
// it doesn't exist.
func (h *Users) load(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return nil, false
	}

	user, err := h.users.FindByID(id)
	if err != nil {
		writeServerError(w, "get user failed", err)
		return nil, false
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return nil, false
	}
	return user, true
}
