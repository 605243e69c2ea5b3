// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/slug"
)

// BlogStore handles all blog-related database operations. Reads join the
// category and author tables so responses carry their whitelisted
// relation subsets without extra round trips.
type BlogStore struct {
	db *sql.DB
}

// NewBlogStore creates a new BlogStore with the given database connection.
func NewBlogStore(db *sql.DB) *BlogStore {
	return &BlogStore{db: db}
}

const blogSelect = `
	SELECT b.id, b.title, b.slug, b.description, b.content,
	       b.category_id, b.author_id, b.author_name, b.image, b.tags,
	       b.is_published, b.published_at, b.views, b.generated_by_ai,
	       b.created_at, b.updated_at,
	       c.id, c.name, c.slug, c.icon, c.color,
	       u.id, u.name, u.email, u.avatar
	FROM blogs b
	JOIN categories c ON c.id = b.category_id
	JOIN users u ON u.id = b.author_id`

func scanBlog(scanner interface{ Scan(...any) error }) (*models.Blog, error) {
	b := &models.Blog{Category: &models.CategoryRef{}, Author: &models.AuthorRef{}}
	var tagsJSON []byte
	err := scanner.Scan(
		&b.ID, &b.Title, &b.Slug, &b.Description, &b.Content,
		&b.CategoryID, &b.AuthorID, &b.AuthorName, &b.Image, &tagsJSON,
		&b.IsPublished, &b.PublishedAt, &b.Views, &b.GeneratedByAI,
		&b.CreatedAt, &b.UpdatedAt,
		&b.Category.ID, &b.Category.Name, &b.Category.Slug, &b.Category.Icon, &b.Category.Color,
		&b.Author.ID, &b.Author.Name, &b.Author.Email, &b.Author.Avatar,
	)
	if err != nil {
		return nil, err
	}
	b.Tags = []string{}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &b.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	return b, nil
}

// buildFilter translates a BlogFilter into a WHERE clause and its args.
func buildFilter(f models.BlogFilter) (string, []any) {
	var conds []string
	var args []any

	add := func(cond string, val any) {
		args = append(args, val)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if f.CategoryID != nil {
		add("b.category_id = ?", *f.CategoryID)
	}
	if f.AuthorID != nil {
		add("b.author_id = ?", *f.AuthorID)
	}
	if f.Published != nil {
		add("b.is_published = ?", *f.Published)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		args = append(args, pattern)
		n := "$" + strconv.Itoa(len(args))
		conds = append(conds, "(b.title ILIKE "+n+" OR b.description ILIKE "+n+" OR b.content ILIKE "+n+")")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns blogs matching the filter ordered newest-created-first,
// plus the total match count for pagination. No filter means every blog
// regardless of publish state; the route's authorization layer decides
// whether that is appropriate.
func (s *BlogStore) List(f models.BlogFilter) ([]models.Blog, int, error) {
	where, args := buildFilter(f)

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM blogs b`+where, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", err)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}

	args = append(args, limit, (page-1)*limit)
	query := blogSelect + where + fmt.Sprintf(
		" ORDER BY b.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	var items []models.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan blog: %w", err)
		}
		items = append(items, *b)
	}
	return items, count, rows.Err()
}

// FindByID retrieves a blog with populated relations. Returns nil if not found.
func (s *BlogStore) FindByID(id uuid.UUID) (*models.Blog, error) {
	b, err := scanBlog(s.db.QueryRow(blogSelect+` WHERE b.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog by id: %w", err)
	}
	return b, nil
}

// FindBySlug retrieves a blog by slug with populated relations. Returns
// nil if not found.
func (s *BlogStore) FindBySlug(blogSlug string) (*models.Blog, error) {
	b, err := scanBlog(s.db.QueryRow(blogSelect+` WHERE b.slug = $1`, blogSlug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog by slug: %w", err)
	}
	return b, nil
}

// IncrementViews bumps the view counter by exactly one in a single
// statement, so concurrent reads never lose updates. Returns the new count.
func (s *BlogStore) IncrementViews(id uuid.UUID) (int, error) {
	var views int
	err := s.db.QueryRow(`
		UPDATE blogs SET views = views + 1 WHERE id = $1 RETURNING views
	`, id).Scan(&views)
	if err != nil {
		return 0, fmt.Errorf("increment views: %w", err)
	}
	return views, nil
}

// Create inserts a new blog and returns it with populated relations.
// The slug is derived from the title; a collision with an existing slug
// is resolved by appending a random suffix.
func (s *BlogStore) Create(b *models.Blog) (*models.Blog, error) {
	blogSlug := slug.Generate(b.Title)

	var exists bool
	if err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM blogs WHERE slug = $1)`, blogSlug).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check blog slug: %w", err)
	}
	if exists || blogSlug == "" {
		blogSlug = slug.WithSuffix(blogSlug)
	}

	tags := b.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	var id uuid.UUID
	err = s.db.QueryRow(`
		INSERT INTO blogs (title, slug, description, content, category_id,
		                   author_id, author_name, image, tags, generated_by_ai)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, b.Title, blogSlug, b.Description, b.Content, b.CategoryID,
		b.AuthorID, b.AuthorName, b.Image, tagsJSON, b.GeneratedByAI,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}

	return s.FindByID(id)
}

// Update writes the mutable fields of a blog back to the database.
// Callers apply partial changes to a loaded record first. Publish state
// is managed separately by TogglePublish.
func (s *BlogStore) Update(b *models.Blog) error {
	tagsJSON, err := json.Marshal(b.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	_, err = s.db.Exec(`
		UPDATE blogs SET
			title = $1, description = $2, content = $3, category_id = $4,
			image = $5, tags = $6, updated_at = now()
		WHERE id = $7
	`, b.Title, b.Description, b.Content, b.CategoryID, b.Image, tagsJSON, b.ID)
	if err != nil {
		return fmt.Errorf("update blog: %w", err)
	}
	return nil
}

// TogglePublish atomically flips the publish flag. PublishedAt is set to
// the current time when becoming published and cleared otherwise, so
// toggling twice restores the original state.
func (s *BlogStore) TogglePublish(id uuid.UUID) (*models.Blog, error) {
	_, err := s.db.Exec(`
		UPDATE blogs SET
			published_at = CASE WHEN is_published THEN NULL ELSE now() END,
			is_published = NOT is_published,
			updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("toggle publish: %w", err)
	}
	return s.FindByID(id)
}

// CountByAuthor returns the number of blogs written by a user.
func (s *BlogStore) CountByAuthor(authorID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM blogs WHERE author_id = $1`, authorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count blogs by author: %w", err)
	}
	return count, nil
}

// Delete removes a blog by ID. Comments referencing the blog are left in
// place; they disappear from public listings along with the blog itself.
func (s *BlogStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	return nil
}

// Stats aggregates dashboard numbers: totals by publish state, the summed
// view count, the five most recent blogs, and the five most viewed
// published blogs.
func (s *BlogStore) Stats() (*models.BlogStats, error) {
	stats := &models.BlogStats{}

	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_published),
		       COUNT(*) FILTER (WHERE NOT is_published),
		       COALESCE(SUM(views), 0)
		FROM blogs
	`).Scan(&stats.TotalBlogs, &stats.PublishedBlogs, &stats.DraftBlogs, &stats.TotalViews)
	if err != nil {
		return nil, fmt.Errorf("blog stats: %w", err)
	}

	recent, err := s.listTop(` ORDER BY b.created_at DESC LIMIT 5`, "")
	if err != nil {
		return nil, err
	}
	stats.RecentBlogs = recent

	top, err := s.listTop(` ORDER BY b.views DESC LIMIT 5`, ` WHERE b.is_published`)
	if err != nil {
		return nil, err
	}
	stats.TopBlogs = top

	return stats, nil
}

func (s *BlogStore) listTop(order, where string) ([]models.Blog, error) {
	rows, err := s.db.Query(blogSelect + where + order)
	if err != nil {
		return nil, fmt.Errorf("blog stats list: %w", err)
	}
	defer rows.Close()

	var items []models.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog: %w", err)
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}
