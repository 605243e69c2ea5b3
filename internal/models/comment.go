// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment represents a visitor comment on a blog. Comments are submitted
// anonymously (name + email, no account) and start unapproved. A comment
// with a non-nil ParentID is a reply; the public feed shows only
// top-level comments, with replies nested one level deep.
type Comment struct {
	ID         uuid.UUID  `json:"id"`
	BlogID     uuid.UUID  `json:"blog"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Content    string     `json:"content"`
	IsApproved bool       `json:"isApproved"`
	ParentID   *uuid.UUID `json:"parentComment"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`

	// Virtual fields populated by store methods.
	Replies   []Comment `json:"replies,omitempty"`
	BlogTitle *string   `json:"blogTitle,omitempty"`
}

// CommentStats aggregates moderation numbers for the admin console.
type CommentStats struct {
	TotalComments    int       `json:"totalComments"`
	ApprovedComments int       `json:"approvedComments"`
	PendingComments  int       `json:"pendingComments"`
	RecentComments   []Comment `json:"recentComments"`
}
