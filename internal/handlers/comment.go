// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Comments groups the comment endpoints: public submission and feed,
// admin moderation.
type Comments struct {
	comments *store.CommentStore
	blogs    *store.BlogStore
}

// NewComments creates a new Comments handler group.
func NewComments(comments *store.CommentStore, blogs *store.BlogStore) *Comments {
	return &Comments{comments: comments, blogs: blogs}
}

// ListForBlog returns the public comment feed for a blog: approved
// top-level comments newest-first, each carrying its approved replies
// oldest-first.
func (h *Comments) ListForBlog(w http.ResponseWriter, r *http.Request) {
	blogID, err := uuid.Parse(chi.URLParam(r, "blogId"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}

	items, err := h.comments.ListForBlog(blogID)
	if err != nil {
		writeServerError(w, "list blog comments failed", err)
		return
	}
	if items == nil {
		items = []models.Comment{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(items),
		"comments": items,
	})
}

// ListAll returns every comment for moderation, optionally filtered by
// approval state. Admin-only (enforced by the route).
func (h *Comments) ListAll(w http.ResponseWriter, r *http.Request) {
	var approved *bool
	if raw := r.URL.Query().Get("approved"); raw != "" {
		v := raw == "true"
		approved = &v
	}

	items, err := h.comments.ListAll(approved)
	if err != nil {
		writeServerError(w, "list comments failed", err)
		return
	}
	if items == nil {
		items = []models.Comment{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(items),
		"comments": items,
	})
}

// Create submits a new comment or reply. Comments always start
// unapproved and stay invisible until a moderator approves them.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Blog          string `json:"blog"`
		Name          string `json:"name"`
		Email         string `json:"email"`
		Content       string `json:"content"`
		ParentComment string `json:"parentComment"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Blog == "" || req.Name == "" || req.Email == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "Please provide all required fields")
		return
	}
	if msg := validateCommentFields(req.Name, req.Email, req.Content); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	blogID, err := uuid.Parse(req.Blog)
	if err != nil {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}
	blog, err := h.blogs.FindByID(blogID)
	if err != nil {
		writeServerError(w, "get blog failed", err)
		return
	}
	if blog == nil {
		writeError(w, http.StatusNotFound, "Blog not found")
		return
	}

	comment := &models.Comment{
		BlogID:  blogID,
		Name:    req.Name,
		Email:   req.Email,
		Content: req.Content,
	}

	if req.ParentComment != "" {
		parentID, err := uuid.Parse(req.ParentComment)
		if err != nil {
			writeError(w, http.StatusNotFound, "Parent comment not found")
			return
		}
		parent, err := h.comments.FindByID(parentID)
		if err != nil {
			writeServerError(w, "get parent comment failed", err)
			return
		}
		if parent == nil {
			writeError(w, http.StatusNotFound, "Parent comment not found")
			return
		}
		comment.ParentID = &parentID
	}

	created, err := h.comments.Create(comment)
	if err != nil {
		writeServerError(w, "create comment failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Comment submitted successfully! It will be visible after approval.",
		"comment": created,
	})
}

// ToggleApprove flips a comment's approval state. Admin-only.
func (h *Comments) ToggleApprove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}

	comment, err := h.comments.ToggleApproved(id)
	if err != nil {
		writeServerError(w, "toggle comment approval failed", err)
		return
	}
	if comment == nil {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}

	message := "Comment unapproved successfully"
	if comment.IsApproved {
		message = "Comment approved successfully"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": message,
		"comment": comment,
	})
}

// Delete removes a comment and its direct replies. The cascade is two
// separate statements; if the second fails after replies were already
// deleted, the partial state is logged before the error response.
func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}

	comment, err := h.comments.FindByID(id)
	if err != nil {
		writeServerError(w, "get comment failed", err)
		return
	}
	if comment == nil {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}

	deleted, err := h.comments.DeleteReplies(id)
	if err != nil {
		writeServerError(w, "delete replies failed", err)
		return
	}

	if err := h.comments.Delete(id); err != nil {
		slog.Error("comment cascade incomplete: replies removed but parent remains",
			"comment", id, "repliesDeleted", deleted, "error", err)
		writeServerError(w, "delete comment failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Comment deleted successfully",
	})
}

// Stats returns moderation aggregates. Admin-only.
func (h *Comments) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.comments.Stats()
	if err != nil {
		writeServerError(w, "comment stats failed", err)
		return
	}
	if stats.RecentComments == nil {
		stats.RecentComments = []models.Comment{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stats": stats,
	})
}
