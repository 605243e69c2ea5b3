// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// CommentStore manages visitor comments in the database.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `id, blog_id, name, email, content, is_approved, parent_id, created_at, updated_at`

func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	c := &models.Comment{}
	err := scanner.Scan(
		&c.ID, &c.BlogID, &c.Name, &c.Email, &c.Content,
		&c.IsApproved, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListForBlog returns the public comment feed for a blog: approved
// top-level comments newest first, each carrying its approved replies
// oldest first. Unapproved comments never appear.
func (s *CommentStore) ListForBlog(blogID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT `+commentColumns+` FROM comments
		WHERE blog_id = $1 AND is_approved AND parent_id IS NULL
		ORDER BY created_at DESC
	`, blogID)
	if err != nil {
		return nil, fmt.Errorf("list blog comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range comments {
		replies, err := s.repliesFor(comments[i].ID)
		if err != nil {
			return nil, err
		}
		comments[i].Replies = replies
	}
	return comments, nil
}

// repliesFor returns the approved replies to one comment, oldest first.
func (s *CommentStore) repliesFor(parentID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT `+commentColumns+` FROM comments
		WHERE parent_id = $1 AND is_approved
		ORDER BY created_at ASC
	`, parentID)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	defer rows.Close()

	replies := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reply: %w", err)
		}
		replies = append(replies, *c)
	}
	return replies, rows.Err()
}

// ListAll returns every comment for the moderation queue, newest first,
// optionally filtered by approval state. Each row carries its blog title
// when the blog still exists.
func (s *CommentStore) ListAll(approved *bool) ([]models.Comment, error) {
	query := `
		SELECT c.id, c.blog_id, c.name, c.email, c.content,
		       c.is_approved, c.parent_id, c.created_at, c.updated_at,
		       b.title
		FROM comments c
		LEFT JOIN blogs b ON b.id = c.blog_id`
	var args []any
	if approved != nil {
		query += ` WHERE c.is_approved = $1`
		args = append(args, *approved)
	}
	query += ` ORDER BY c.created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list all comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(
			&c.ID, &c.BlogID, &c.Name, &c.Email, &c.Content,
			&c.IsApproved, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
			&c.BlogTitle,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// FindByID retrieves a comment by UUID. Returns nil if not found.
func (s *CommentStore) FindByID(id uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRow(`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// Create inserts a new comment. Comments always start unapproved; there
// is no fast-path for trusted submitters.
func (s *CommentStore) Create(c *models.Comment) (*models.Comment, error) {
	row := s.db.QueryRow(`
		INSERT INTO comments (blog_id, name, email, content, parent_id, is_approved)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING `+commentColumns,
		c.BlogID, c.Name, strings.ToLower(strings.TrimSpace(c.Email)), c.Content, c.ParentID)
	created, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return created, nil
}

// ToggleApproved flips the approval flag and returns the updated comment.
// Returns nil if the comment does not exist.
func (s *CommentStore) ToggleApproved(id uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRow(`
		UPDATE comments SET is_approved = NOT is_approved, updated_at = now()
		WHERE id = $1
		RETURNING `+commentColumns, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("toggle comment approval: %w", err)
	}
	return c, nil
}

// DeleteReplies removes all direct replies to a comment and reports how
// many were deleted. The cascade is exactly one level deep.
func (s *CommentStore) DeleteReplies(parentID uuid.UUID) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM comments WHERE parent_id = $1`, parentID)
	if err != nil {
		return 0, fmt.Errorf("delete replies: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Delete removes a single comment by ID. Callers delete replies first;
// the two steps are separate statements, not a transaction.
func (s *CommentStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// Stats aggregates moderation numbers: totals by approval state and the
// five most recent comments with their blog titles.
func (s *CommentStore) Stats() (*models.CommentStats, error) {
	stats := &models.CommentStats{}

	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_approved),
		       COUNT(*) FILTER (WHERE NOT is_approved)
		FROM comments
	`).Scan(&stats.TotalComments, &stats.ApprovedComments, &stats.PendingComments)
	if err != nil {
		return nil, fmt.Errorf("comment stats: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT c.id, c.blog_id, c.name, c.email, c.content,
		       c.is_approved, c.parent_id, c.created_at, c.updated_at,
		       b.title
		FROM comments c
		LEFT JOIN blogs b ON b.id = c.blog_id
		ORDER BY c.created_at DESC
		LIMIT 5
	`)
	if err != nil {
		return nil, fmt.Errorf("recent comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(
			&c.ID, &c.BlogID, &c.Name, &c.Email, &c.Content,
			&c.IsApproved, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
			&c.BlogTitle,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		stats.RecentComments = append(stats.RecentComments, c)
	}
	return stats, rows.Err()
}
