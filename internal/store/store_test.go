// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testUser creates a user for the test and registers cleanup.
func testUser(t *testing.T, db *sql.DB, email string, role models.Role) *models.User {
	t.Helper()

	users := NewUserStore(db)
	db.Exec("DELETE FROM users WHERE email = $1", email)
	u, err := users.Create("Test User", email, "password123", role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = $1", u.ID) })
	return u
}

// testCategory creates a category for the test and registers cleanup.
func testCategory(t *testing.T, db *sql.DB, name, slug string) *models.Category {
	t.Helper()

	categories := NewCategoryStore(db)
	db.Exec("DELETE FROM categories WHERE slug = $1", slug)
	c, err := categories.Create(&models.Category{
		Name: name, Slug: slug, IsActive: true,
	})
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id = $1", c.ID) })
	return c
}

// testBlog creates a blog for the test and registers cleanup.
func testBlog(t *testing.T, db *sql.DB, title string, author *models.User, category *models.Category) *models.Blog {
	t.Helper()

	blogs := NewBlogStore(db)
	b, err := blogs.Create(&models.Blog{
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
		db.Exec("DELETE FROM comments WHERE blog_id = $1", b.ID)
		db.Exec("DELETE FROM blogs WHERE id = $1", b.ID)
	})
	return b
}

// testComment creates a comment directly and registers cleanup.
func testComment(t *testing.T, db *sql.DB, blogID uuid.UUID, parentID *uuid.UUID) *models.Comment {
	t.Helper()

	comments := NewCommentStore(db)
	c, err := comments.Create(&models.Comment{
		BlogID:   blogID,
		Name:     "Visitor",
		Email:    "visitor@example.com",
		Content:  "nice post",
		ParentID: parentID,
	})
	if err != nil {
		t.Fatalf("create test comment: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM comments WHERE id = $1", c.ID) })
	return c
}
