// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkwell/internal/ai"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store"
	"inkwell/internal/token"
)

// stubWriter implements ai.ContentGenerator for handler tests.
type stubWriter struct {
	article  *ai.Article
	improved string
	ideas    []ai.Idea
	err      error
}

func (s *stubWriter) GenerateArticle(_ context.Context, _, _, _ string) (*ai.Article, error) {
	return s.article, s.err
}
func (s *stubWriter) ImproveArticle(_ context.Context, _, _ string) (string, error) {
	return s.improved, s.err
}
func (s *stubWriter) SuggestIdeas(_ context.Context, _ string, _ int) ([]ai.Idea, error) {
	return s.ideas, s.err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB         *sql.DB
	Users      *store.UserStore
	Categories *store.CategoryStore
	Blogs      *store.BlogStore
	Comments   *store.CommentStore
	Tokens     *token.Manager
	Writer     *stubWriter

	AuthHandler     *Auth
	BlogHandler     *Blogs
	CategoryHandler *Categories
	CommentHandler  *Comments
	UserHandler     *Users
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)

	users := store.NewUserStore(db)
	categories := store.NewCategoryStore(db)
	blogs := store.NewBlogStore(db)
	comments := store.NewCommentStore(db)
	tokens := token.NewManager("handler-test-secret", time.Hour)

	writer := &stubWriter{
		article:  &ai.Article{Title: "Stub Title", Description: "Stub description", Content: "<p>Stub content</p>"},
		improved: "<p>Improved content</p>",
		ideas:    []ai.Idea{{Title: "Idea One", Description: "First"}},
	}

	return &testEnv{
		DB:         db,
		Users:      users,
		Categories: categories,
		Blogs:      blogs,
		Comments:   comments,
		Tokens:     tokens,
		Writer:     writer,

		AuthHandler:     NewAuth(users, tokens, false),
		BlogHandler:     NewBlogs(blogs, categories, writer),
		CategoryHandler: NewCategories(categories),
		CommentHandler:  NewComments(comments, blogs),
		UserHandler:     NewUsers(users, blogs),
	}
}

// withUser attaches an authenticated user to the request context the way
// the auth middleware does.
func withUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.UserKey, u))
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// testUser creates a user for the test and registers cleanup.
func testUser(t *testing.T, env *testEnv, email string, role models.Role) *models.User {
	t.Helper()

	env.DB.Exec("DELETE FROM users WHERE email = $1", email)
	u, err := env.Users.Create("Test User", email, "password123", role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM users WHERE id = $1", u.ID) })
	return u
}

// testCategory creates a category for the test and registers cleanup.
func testCategory(t *testing.T, env *testEnv, name, slug string) *models.Category {
	t.Helper()

	env.DB.Exec("DELETE FROM categories WHERE slug = $1", slug)
	c, err := env.Categories.Create(&models.Category{Name: name, Slug: slug, IsActive: true})
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	t.Cleanup(func() { env.DB.Exec("DELETE FROM categories WHERE id = $1", c.ID) })
	return c
}

// testBlog creates a blog for the test and registers cleanup.
func testBlog(t *testing.T, env *testEnv, title string, author *models.User, category *models.Category) *models.Blog {
	t.Helper()

	b, err := env.Blogs.Create(&models.Blog{
		Title:       title,
		Description: "test description",
		Content:     "<p>test content</p>",
		CategoryID:  category.ID,
		AuthorID:    author.ID,
		AuthorName:  author.Name,
	})
	if err != nil {
		t.Fatalf("create test blog: %v", err)
	}
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM comments WHERE blog_id = $1", b.ID)
		env.DB.Exec("DELETE FROM blogs WHERE id = $1", b.ID)
	})
	return b
}
