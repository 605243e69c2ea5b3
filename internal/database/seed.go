package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// starterCategories are created on first run so the admin console has
// something to file blogs under.
var starterCategories = []struct {
	Name        string
	Description string
	Icon        string
	Color       string
}{
	{"Technology", "Latest tech news, tutorials, and insights", "💻", "#3B82F6"},
	{"Programming", "Coding tutorials, best practices, and tips", "🔧", "#8B5CF6"},
	{"Design", "UI/UX design, graphics, and creative content", "🎨", "#EC4899"},
	{"Business", "Business strategies, entrepreneurship, and growth", "📊", "#10B981"},
	{"Lifestyle", "Life tips, productivity, and personal development", "🌟", "#F59E0B"},
	{"Travel", "Travel guides, tips, and experiences", "✈️", "#06B6D4"},
}

// Seed populates the database with initial development data: a default
// admin account and the starter categories. No-op if users already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (name, email, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
	`, "Admin", "admin@example.com", string(hash), "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	for _, c := range starterCategories {
		slug := slugify(c.Name)
		_, err := db.Exec(`
			INSERT INTO categories (name, slug, description, icon, color, is_active)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			ON CONFLICT (slug) DO NOTHING
		`, c.Name, slug, c.Description, c.Icon, c.Color)
		if err != nil {
			return fmt.Errorf("seed insert category %q: %w", c.Name, err)
		}
	}

	slog.Info("database seeded with default admin and starter categories",
		"email", "admin@example.com",
		"password", "admin123",
		"categories", len(starterCategories),
	)

	return nil
}

// slugify is a minimal lowercase-and-hyphenate for the fixed seed names.
// User-facing slug generation lives in the slug package.
func slugify(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ':
			out = append(out, '-')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
