// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/ai"
	"inkwell/internal/models"
)

// jsonBody marshals a value into a request body reader.
func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(data)
}

// decodeResp unmarshals a recorded JSON response into a map.
func decodeResp(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestBlogListEnvelope(t *testing.T) {
	env := newTestEnv(t)

	author := testUser(t, env, "h-list@example.com", models.RolePublisher)
	category := testCategory(t, env, "H List Cat", "h-list-cat")
	testBlog(t, env, "Handler List Entry", author, category)

	req := httptest.NewRequest(http.MethodGet, "/api/blogs?category="+category.ID.String(), nil)
	rec := httptest.NewRecorder()
	env.BlogHandler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := decodeResp(t, rec)
	if body["success"] != true {
		t.Error("success flag missing")
	}
	if body["count"].(float64) != 1 {
		t.Errorf("count: got %v, want 1", body["count"])
	}
	if body["currentPage"].(float64) != 1 {
		t.Errorf("currentPage: got %v", body["currentPage"])
	}
	blogs := body["blogs"].([]any)
	if len(blogs) != 1 {
		t.Fatalf("blogs: got %d entries", len(blogs))
	}
}

func TestBlogGetCountsView(t *testing.T) {
	env := newTestEnv(t)

	author := testUser(t, env, "h-view@example.com", models.RolePublisher)
	category := testCategory(t, env, "H View Cat", "h-view-cat")
	blog := testBlog(t, env, "Handler View Entry", author, category)

	for want := 1; want <= 2; want++ {
		req := httptest.NewRequest(http.MethodGet, "/api/blogs/"+blog.ID.String(), nil)
		rec := httptest.NewRecorder()
		env.BlogHandler.Get(rec, withChiURLParam(req, "id", blog.ID.String()))

		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d", rec.Code)
		}
		got := decodeResp(t, rec)["blog"].(map[string]any)["views"].(float64)
		if int(got) != want {
			t.Errorf("views after read %d: got %v", want, got)
		}
	}
}

func TestBlogGetNotFound(t *testing.T) {
	env := newTestEnv(t)

	for _, id := range []string{"not-a-uuid", "00000000-0000-0000-0000-000000000000"} {
		req := httptest.NewRequest(http.MethodGet, "/api/blogs/"+id, nil)
		rec := httptest.NewRecorder()
		env.BlogHandler.Get(rec, withChiURLParam(req, "id", id))

		if rec.Code != http.StatusNotFound {
			t.Errorf("id %q: status %d, want 404", id, rec.Code)
		}
		body := decodeResp(t, rec)
		if body["message"] != "Blog not found" || body["success"] != false {
			t.Errorf("id %q: body %v", id, body)
		}
	}
}

func TestBlogGetBySlug(t *testing.T) {
	env := newTestEnv(t)

	author := testUser(t, env, "h-slug@example.com", models.RolePublisher)
	category := testCategory(t, env, "H Slug Cat", "h-slug-cat")
	blog := testBlog(t, env, "Handler Slug Entry", author, category)

	req := httptest.NewRequest(http.MethodGet, "/api/blogs/slug/"+blog.Slug, nil)
	rec := httptest.NewRecorder()
	env.BlogHandler.GetBySlug(rec, withChiURLParam(req, "slug", blog.Slug))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	got := decodeResp(t, rec)["blog"].(map[string]any)
	if got["slug"] != blog.Slug {
		t.Errorf("slug: got %v", got["slug"])
	}
}

func TestBlogCreateValidation(t *testing.T) {
	env := newTestEnv(t)

	author := testUser(t, env, "h-create-val@example.com", models.RolePublisher)

	// Missing fields.
	req := httptest.NewRequest(http.MethodPost, "/api/blogs", jsonBody(t, map[string]any{
		"title": "Only a title",
	}))
	rec := httptest.NewRecorder()
	env.BlogHandler.Create(rec, withUser(req, author))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing fields: status %d, want 400", rec.Code)
	}
	if decodeResp(t, rec)["message"] != "Please provide all required fields" {
		t.Errorf("missing fields message: %v", rec.Body.String())
	}

	// Unknown category must not create a row.
	_, before, _ := env.Blogs.List(models.BlogFilter{AuthorID: &author.ID})
	req = httptest.NewRequest(http.MethodPost, "/api/blogs", jsonBody(t, map[string]any{
		"title":       "Orphan",
		"description": "d",
		"content":     "c",
		"category":    "11111111-2222-3333-4444-555555555555",
	}))
	rec = httptest.NewRecorder()
	env.BlogHandler.Create(rec, withUser(req, author))
	if rec.Code != http.StatusNotFound {
		t.Errorf("bad category: status %d, want 404", rec.Code)
	}
	if decodeResp(t, rec)["message"] != "Category not found" {
		t.Errorf("bad category message: %v", rec.Body.String())
	}
	_, after, _ := env.Blogs.List(models.BlogFilter{AuthorID: &author.ID})
	if after != before {
		t.Error("failed create must not leave a blog behind")
	}
}

func TestBlogCreateSuccess(t *testing.T) {
	env := newTestEnv(t)

	author := testUser(t, env, "h-create@example.com", models.RolePublisher)
	category := testCategory(t, env, "H Create Cat", "h-create-cat")

	req := httptest.NewRequest(http.MethodPost, "/api/blogs", jsonBody(t, map[string]any{
		"title":       "Created Via Handler",
		"description": "handler description",
		"content":     "<p>handler content</p>",
		"category":    category.ID.String(),
		"tags":        []string{"go"},
	}))
	rec := httptest.NewRecorder()
	env.BlogHandler.Create(rec, withUser(req, author))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeResp(t, rec)
	if body["message"] != "Blog created successfully" {
		t.Errorf("message: %v", body["message"])
	}
	blog := body["blog"].(map[string]any)
	if blog["isPublished"] != false {
		t.Error("new blogs must be drafts")
	}
	if blog["authorName"] != author.Name {
		t.Errorf("author snapshot: %v", blog["authorName"])
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM blogs WHERE id = $1", blog["id"]) })
}

func TestBlogUpdateOwnership(t *testing.T) {
	env := newTestEnv(t)

	author := testUser(t, env, "h-owner@example.com", models.RolePublisher)
	stranger := testUser(t, env, "h-stranger@example.com", models.RolePublisher)
	admin := testUser(t, env, "h-admin@example.com", models.RoleAdmin)
	category := testCategory(t, env, "H Owner Cat", "h-owner-cat")
	blog := testBlog(t, env, "Owned Entry", author, category)

	update := func(u *models.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/blogs/"+blog.ID.String(),
			jsonBody(t, map[string]any{"title": "Renamed Entry"}))
		req = withChiURLParam(req, "id", blog.ID.String())
		rec := httptest.NewRecorder()
		env.BlogHandler.Update(rec, withUser(req, u))
		return rec
	}

	if rec := update(stranger); rec.Code != http.StatusForbidden {
		t.Errorf("stranger: status %d, want 403", rec.Code)
	} else if decodeResp(t, rec)["message"] != "Not authorized to update this blog" {
		t.Errorf("stranger message: %v", rec.Body.String())
	}

	if rec := update(author); rec.Code != http.StatusOK {
		t.Errorf("author: status %d, body %s", rec.Code, rec.Body.String())
	}
	if rec := update(admin); rec.Code != http.StatusOK {
		t.Errorf("admin: status %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestBlogDeleteByAuthor(t *testing.T) {
	env := newTestEnv(t)

	author := testUser(t, env, "h-delete@example.com", models.RolePublisher)
	category := testCategory(t, env, "H Delete Cat", "h-delete-cat")
	blog := testBlog(t, env, "Deletable Entry", author, category)

	req := httptest.NewRequest(http.MethodDelete, "/api/blogs/"+blog.ID.String(), nil)
	req = withChiURLParam(req, "id", blog.ID.String())
	rec := httptest.NewRecorder()
	env.BlogHandler.Delete(rec, withUser(req, author))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	if decodeResp(t, rec)["message"] != "Blog deleted successfully" {
		t.Errorf("message: %v", rec.Body.String())
	}
	gone, _ := env.Blogs.FindByID(blog.ID)
	if gone != nil {
		t.Error("blog should be gone")
	}
}

func TestBlogTogglePublishMessages(t *testing.T) {
	env := newTestEnv(t)

	author := testUser(t, env, "h-publish@example.com", models.RolePublisher)
	category := testCategory(t, env, "H Publish Cat", "h-publish-cat")
	blog := testBlog(t, env, "Publishable Entry", author, category)

	toggle := func() map[string]any {
		req := httptest.NewRequest(http.MethodPatch, "/api/blogs/"+blog.ID.String()+"/publish", nil)
		req = withChiURLParam(req, "id", blog.ID.String())
		rec := httptest.NewRecorder()
		env.BlogHandler.TogglePublish(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
		}
		return decodeResp(t, rec)
	}

	if body := toggle(); body["message"] != "Blog published successfully" {
		t.Errorf("first toggle: %v", body["message"])
	}
	if body := toggle(); body["message"] != "Blog unpublished successfully" {
		t.Errorf("second toggle: %v", body["message"])
	}
}

func TestBlogGenerate(t *testing.T) {
	env := newTestEnv(t)

	author := testUser(t, env, "h-generate@example.com", models.RolePublisher)
	category := testCategory(t, env, "H Generate Cat", "h-generate-cat")

	req := httptest.NewRequest(http.MethodPost, "/api/blogs/generate", jsonBody(t, map[string]any{
		"topic":    "Why ducks are great",
		"category": category.ID.String(),
	}))
	rec := httptest.NewRecorder()
	env.BlogHandler.Generate(rec, withUser(req, author))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeResp(t, rec)
	if body["message"] != "Blog generated successfully" {
		t.Errorf("message: %v", body["message"])
	}
	blog := body["blog"].(map[string]any)
	if blog["generatedByAI"] != true {
		t.Error("generated blogs must be flagged")
	}
	if blog["title"] != "Stub Title" {
		t.Errorf("title: %v", blog["title"])
	}
	if blog["isPublished"] != false {
		t.Error("generated blogs start as drafts")
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM blogs WHERE id = $1", blog["id"]) })
}

func TestBlogGenerateValidation(t *testing.T) {
	env := newTestEnv(t)

	author := testUser(t, env, "h-genval@example.com", models.RolePublisher)

	req := httptest.NewRequest(http.MethodPost, "/api/blogs/generate", jsonBody(t, map[string]any{
		"topic": "Lonely topic",
	}))
	rec := httptest.NewRecorder()
	env.BlogHandler.Generate(rec, withUser(req, author))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
	if decodeResp(t, rec)["message"] != "Please provide topic and category" {
		t.Errorf("message: %v", rec.Body.String())
	}
}

func TestBlogGenerateUnavailable(t *testing.T) {
	env := newTestEnv(t)

	author := testUser(t, env, "h-genfail@example.com", models.RolePublisher)
	category := testCategory(t, env, "H GenFail Cat", "h-genfail-cat")

	env.Writer.err = fmt.Errorf("%w: upstream 500", ai.ErrUnavailable)
	t.Cleanup(func() { env.Writer.err = nil })

	_, before, _ := env.Blogs.List(models.BlogFilter{AuthorID: &author.ID})

	req := httptest.NewRequest(http.MethodPost, "/api/blogs/generate", jsonBody(t, map[string]any{
		"topic":    "Doomed topic",
		"category": category.ID.String(),
	}))
	rec := httptest.NewRecorder()
	env.BlogHandler.Generate(rec, withUser(req, author))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rec.Code)
	}
	if decodeResp(t, rec)["message"] != aiUnavailableMsg {
		t.Errorf("message: %v", rec.Body.String())
	}

	_, after, _ := env.Blogs.List(models.BlogFilter{AuthorID: &author.ID})
	if after != before {
		t.Error("failed generation must not leave a blog behind")
	}
}

func TestBlogImprove(t *testing.T) {
	env := newTestEnv(t)

	author := testUser(t, env, "h-improve@example.com", models.RolePublisher)
	category := testCategory(t, env, "H Improve Cat", "h-improve-cat")
	blog := testBlog(t, env, "Improvable Entry", author, category)

	req := httptest.NewRequest(http.MethodPost, "/api/blogs/"+blog.ID.String()+"/improve",
		jsonBody(t, map[string]any{"instruction": "make it shine"}))
	req = withChiURLParam(req, "id", blog.ID.String())
	rec := httptest.NewRecorder()
	env.BlogHandler.Improve(rec, withUser(req, author))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeResp(t, rec)
	if body["message"] != "Blog improved successfully" {
		t.Errorf("message: %v", body["message"])
	}
	if body["blog"].(map[string]any)["content"] != "<p>Improved content</p>" {
		t.Error("improved content not persisted")
	}
}

func TestBlogIdeas(t *testing.T) {
	env := newTestEnv(t)

	author := testUser(t, env, "h-ideas@example.com", models.RolePublisher)
	category := testCategory(t, env, "H Ideas Cat", "h-ideas-cat")

	req := httptest.NewRequest(http.MethodPost, "/api/blogs/ideas", jsonBody(t, map[string]any{
		"category": category.ID.String(),
	}))
	rec := httptest.NewRecorder()
	env.BlogHandler.Ideas(rec, withUser(req, author))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	ideas := decodeResp(t, rec)["ideas"].([]any)
	if len(ideas) != 1 {
		t.Fatalf("ideas: got %d", len(ideas))
	}
	if ideas[0].(map[string]any)["title"] != "Idea One" {
		t.Errorf("idea title: %v", ideas[0])
	}
}

func TestBlogStatsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	author := testUser(t, env, "h-stats@example.com", models.RolePublisher)
	category := testCategory(t, env, "H Stats Cat", "h-stats-cat")
	testBlog(t, env, "Stats Handler Entry", author, category)

	req := httptest.NewRequest(http.MethodGet, "/api/blogs/stats/all", nil)
	rec := httptest.NewRecorder()
	env.BlogHandler.Stats(rec, withUser(req, author))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	stats := decodeResp(t, rec)["stats"].(map[string]any)
	if stats["totalBlogs"].(float64) < 1 {
		t.Errorf("totalBlogs: %v", stats["totalBlogs"])
	}
	if _, ok := stats["recentBlogs"].([]any); !ok {
		t.Error("recentBlogs must be an array")
	}
}
