// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/ai"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// aiUnavailableMsg is what callers see when the generation backend is
// down or misconfigured.
const aiUnavailableMsg = "AI feature temporarily unavailable. Please try again later or create blog manually."

// Blogs groups the blog CRUD, publishing, AI, and stats endpoints.
type Blogs struct {
	blogs      *store.BlogStore
	categories *store.CategoryStore
	writer     ai.ContentGenerator
}

// NewBlogs creates a new Blogs handler group. The writer is an injected
// interface so tests can substitute a stub for the external AI service.
func NewBlogs(blogs *store.BlogStore, categories *store.CategoryStore, writer ai.ContentGenerator) *Blogs {
	return &Blogs{blogs: blogs, categories: categories, writer: writer}
}

// List returns a filtered, paginated blog listing.
func (h *Blogs) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter models.BlogFilter
	if raw := q.Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err == nil {
			filter.CategoryID = &id
		}
	}
	if raw := q.Get("author"); raw != "" {
		id, err := uuid.Parse(raw)
		if err == nil {
			filter.AuthorID = &id
		}
	}
	if raw := q.Get("published"); raw != "" {
		published := raw == "true"
		filter.Published = &published
	}
	filter.Search = q.Get("search")
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	items, count, err := h.blogs.List(filter)
	if err != nil {
		writeServerError(w, "list blogs failed", err)
		return
	}
	if items == nil {
		items = []models.Blog{}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":       count,
		"totalPages":  (count + limit - 1) / limit,
		"currentPage": page,
		"blogs":       items,
	})
}

// Get returns a single blog by ID, counting the read as a view.
func (h *Blogs) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}

	blog, err := h.blogs.FindByID(id)
	if err != nil {
		writeServerError(w, "get blog failed", err)
		return
	}
	if blog == nil {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}

	h.countView(blog)

	writeJSON(w, http.StatusOK, map[string]any{
		"blog": blog,
	})
}

// GetBySlug returns a single blog by slug, counting the read as a view.
func (h *Blogs) GetBySlug(w http.ResponseWriter, r *http.Request) {
	blog, err := h.blogs.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		writeServerError(w, "get blog by slug failed", err)
		return
	}
	if blog == nil {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}

	h.countView(blog)

	writeJSON(w, http.StatusOK, map[string]any{
		"blog": blog,
	})
}

// countView bumps the view counter and reflects the new value in the
// response. An increment failure is logged but doesn't fail the read.
func (h *Blogs) countView(blog *models.Blog) {
	views, err := h.blogs.IncrementViews(blog.ID)
	if err == nil {
		blog.Views = views
	}
}

// blogInput is the request body shared by create and update.
type blogInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Image       *string   `json:"image"`
	Tags        *[]string `json:"tags"`
}

// Create stores a new draft blog authored by the caller.
func (h *Blogs) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var req blogInput
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Title == "" || req.Description == "" || req.Content == "" || req.Category == "" {
		writeError(w, http.StatusBadRequest, "Please provide all required fields")
		return
	}
	if msg := validateBlogFields(req.Title, req.Description, req.Content); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	category := h.loadCategory(w, req.Category)
	if category == nil {
		return
	}

	blog := &models.Blog{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		CategoryID:  category.ID,
		AuthorID:    user.ID,
		AuthorName:  user.Name,
	}
	if req.Image != nil {
		blog.Image = *req.Image
	}
	if req.Tags != nil {
		blog.Tags = *req.Tags
	}

	created, err := h.blogs.Create(blog)
	if err != nil {
		writeServerError(w, "create blog failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Blog created successfully",
		"blog":    created,
	})
}

// Update applies partial changes to a blog. Only the author or an admin
// may modify it. An explicit empty image clears the current one; absent
// fields are left alone.
func (h *Blogs) Update(w http.ResponseWriter, r *http.Request) {
	blog, ok := h.loadOwned(w, r, "update")
	if !ok {
		return
	}

	var req blogInput
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Title != "" {
		blog.Title = req.Title
	}
	if req.Description != "" {
		blog.Description = req.Description
	}
	if req.Content != "" {
		blog.Content = req.Content
	}
	if req.Category != "" {
		category := h.loadCategory(w, req.Category)
		if category == nil {
			return
		}
		blog.CategoryID = category.ID
	}
	if req.Image != nil {
		blog.Image = *req.Image
	}
	if req.Tags != nil {
		blog.Tags = *req.Tags
	}

	if msg := validateBlogFields(blog.Title, blog.Description, blog.Content); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.blogs.Update(blog); err != nil {
		writeServerError(w, "update blog failed", err)
		return
	}

	updated, err := h.blogs.FindByID(blog.ID)
	if err != nil {
		writeServerError(w, "reload blog failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Blog updated successfully",
		"blog":    updated,
	})
}

// Delete removes a blog. Only the author or an admin may delete it.
// Comments on the blog are left in place.
func (h *Blogs) Delete(w http.ResponseWriter, r *http.Request) {
	blog, ok := h.loadOwned(w, r, "delete")
	if !ok {
		return
	}

	if err := h.blogs.Delete(blog.ID); err != nil {
		writeServerError(w, "delete blog failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Blog deleted successfully",
	})
}

// TogglePublish flips the publish state. Admin-only (enforced by the
// route). PublishedAt is set on publish and cleared on unpublish.
func (h *Blogs) TogglePublish(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}

	blog, err := h.blogs.FindByID(id)
	if err != nil {
		writeServerError(w, "get blog failed", err)
		return
	}
	if blog == nil {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}

	updated, err := h.blogs.TogglePublish(id)
	if err != nil {
		writeServerError(w, "toggle publish failed", err)
		return
	}

	message := "Blog unpublished successfully"
	if updated.IsPublished {
		message = "Blog published successfully"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": message,
		"blog":    updated,
	})
}

// Generate creates a new draft blog from an AI-written article.
// Parameters are validated before any external call is made.
func (h *Blogs) Generate(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var req struct {
		Topic    string `json:"topic"`
		Category string `json:"category"`
		Tone     string `json:"tone"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Topic == "" || req.Category == "" {
		writeError(w, http.StatusBadRequest, "Please provide topic and category")
		return
	}
	if len(req.Topic) > maxTopicLen {
		writeError(w, http.StatusBadRequest, "Topic is too long (max 300 characters)")
		return
	}

	category := h.loadCategory(w, req.Category)
	if category == nil {
		return
	}

	article, err := h.writer.GenerateArticle(r.Context(), req.Topic, category.Name, req.Tone)
	if err != nil {
		h.writeAIError(w, "generate article failed", err)
		return
	}

	blog := &models.Blog{
		Title:         article.Title,
		Description:   article.Description,
		Content:       article.Content,
		CategoryID:    category.ID,
		AuthorID:      user.ID,
		AuthorName:    user.Name,
		GeneratedByAI: true,
	}

	created, err := h.blogs.Create(blog)
	if err != nil {
		writeServerError(w, "create generated blog failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Blog generated successfully",
		"blog":    created,
	})
}

// Improve rewrites a blog's content per the given instruction. Only the
// author or an admin may do this.
func (h *Blogs) Improve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Instruction string `json:"instruction"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Instruction == "" {
		writeError(w, http.StatusBadRequest, "Please provide improvement instruction")
		return
	}
	if len(req.Instruction) > maxInstructionLen {
		writeError(w, http.StatusBadRequest, "Instruction is too long (max 2,000 characters)")
		return
	}

	blog, ok := h.loadOwned(w, r, "improve")
	if !ok {
		return
	}

	improved, err := h.writer.ImproveArticle(r.Context(), blog.Content, req.Instruction)
	if err != nil {
		h.writeAIError(w, "improve article failed", err)
		return
	}

	blog.Content = improved
	if err := h.blogs.Update(blog); err != nil {
		writeServerError(w, "update blog failed", err)
		return
	}

	updated, err := h.blogs.FindByID(blog.ID)
	if err != nil {
		writeServerError(w, "reload blog failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Blog improved successfully",
		"blog":    updated,
	})
}

// Ideas returns AI-suggested blog topics for a category.
func (h *Blogs) Ideas(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string `json:"category"`
		Count    int    `json:"count"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Category == "" {
		writeError(w, http.StatusBadRequest, "Please provide category")
		return
	}

	category := h.loadCategory(w, req.Category)
	if category == nil {
		return
	}

	ideas, err := h.writer.SuggestIdeas(r.Context(), category.Name, req.Count)
	if err != nil {
		h.writeAIError(w, "suggest ideas failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ideas": ideas,
	})
}

// Stats returns dashboard aggregates.
func (h *Blogs) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.blogs.Stats()
	if err != nil {
		writeServerError(w, "blog stats failed", err)
		return
	}
	if stats.RecentBlogs == nil {
		stats.RecentBlogs = []models.Blog{}
	}
	if stats.TopBlogs == nil {
		stats.TopBlogs = []models.Blog{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stats": stats,
	})
}

// loadOwned fetches the blog from the URL and enforces the
// author-or-admin rule. Responds and returns ok=false on any failure.
func (h *Blogs) loadOwned(w http.ResponseWriter, r *http.Request, action string) (*models.Blog, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Blog not found")
		return nil, false
	}

	blog, err := h.blogs.FindByID(id)
	if err != nil {
		writeServerError(w, "get blog failed", err)
		return nil, false
	}
	if blog == nil {
		writeError(w, http.StatusNotFound, "Blog not found")
		return nil, false
	}

	user := middleware.UserFromCtx(r.Context())
	if blog.AuthorID != user.ID && !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "Not authorized to "+action+" this blog")
		return nil, false
	}

	return blog, true
}

// loadCategory resolves a category ID from a request body. Responds with
// 404 and returns nil when the category doesn't exist.
func (h *Blogs) loadCategory(w http.ResponseWriter, raw string) *models.Category {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		writeError(w, http.StatusNotFound, "Category not found")
		return nil
	}

	category, err := h.categories.FindByID(id)
	if err != nil {
		writeServerError(w, "get category failed", err)
		return nil
	}
	if category == nil {
		writeError(w, http.StatusNotFound, "Category not found")
		return nil
	}
	return category
}

// writeAIError maps writer failures onto the user-facing retry message.
func (h *Blogs) writeAIError(w http.ResponseWriter, what string, err error) {
	if errors.Is(err, ai.ErrUnavailable) {
		writeError(w, http.StatusInternalServerError, aiUnavailableMsg)
		return
	}
	writeServerError(w, what, err)
}
