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
	"inkwell/internal/slug"
	"inkwell/internal/store"
)

// Categories groups the category endpoints. Reads are public; writes
// are admin-only (enforced by the route).
type Categories struct {
	categories *store.CategoryStore
}

// NewCategories creates a new Categories handler group.
func NewCategories(categories *store.CategoryStore) *Categories {
	return &Categories{categories: categories}
}

// List returns all categories with their blog counts.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.List()
	if err != nil {
		writeServerError(w, "list categories failed", err)
		return
	}
	if items == nil {
		items = []models.Category{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":      len(items),
		"categories": items,
	})
}

// Get returns a single category by ID.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	category, ok := h.load(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"category": category,
	})
}

// Create stores a new category. The slug is derived from the name and
// must not collide with an existing category.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
		Color       string `json:"color"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Please provide category name")
		return
	}

	categorySlug := slug.Generate(req.Name)
	existing, err := h.categories.FindBySlug(categorySlug)
	if err != nil {
		writeServerError(w, "check category slug failed", err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "Category already exists")
		return
	}

	created, err := h.categories.Create(&models.Category{
		Name:        req.Name,
		Slug:        categorySlug,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
		IsActive:    true,
	})
	if err != nil {
		writeServerError(w, "create category failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Category created successfully",
		"category": created,
	})
}

// Update applies partial changes to a category. Renaming re-derives the
// slug.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	category, ok := h.load(w, r)
	if !ok {
		return
	}

	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
		Icon        *string `json:"icon"`
		Color       *string `json:"color"`
		IsActive    *bool   `json:"isActive"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		category.Name = name
		category.Slug = slug.Generate(name)
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := h.categories.Update(category); err != nil {
		writeServerError(w, "update category failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Category updated successfully",
		"category": category,
	})
}

// Delete removes a category. Categories still referenced by blogs cannot
// be deleted.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	category, ok := h.load(w, r)
	if !ok {
		return
	}

	count, err := h.categories.BlogCount(category.ID)
	if err != nil {
		writeServerError(w, "category blog count failed", err)
		return
	}
	if count > 0 {
		writeError(w, http.StatusBadRequest, "Cannot delete category with existing blogs")
		return
	}

	if err := h.categories.Delete(category.ID); err != nil {
		writeServerError(w, "delete category failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Category deleted successfully",
	})
}

// load fetches the category from the URL. Responds and returns ok=false
// when it doesn't exist.
func (h *Categories) load(w http.ResponseWriter, r *http.Request) (*models.Category, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Category not found")
		return nil, false
	}

	category, err := h.categories.FindByID(id)
	if err != nil {
		writeServerError(w, "get category failed", err)
		return nil, false
	}
	if category == nil {
		writeError(w, http.StatusNotFound, "Category not found")
		return nil, false
	}
	return category, true
}
