// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Blog represents a single article. Content is an HTML string stored and
// returned verbatim. AuthorName is a denormalized snapshot taken at
// creation time so renames don't rewrite history.
type Blog struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Description   string     `json:"description"`
	Content       string     `json:"content"`
	CategoryID    uuid.UUID  `json:"categoryId"`
	AuthorID      uuid.UUID  `json:"authorId"`
	AuthorName    string     `json:"authorName"`
	Image         string     `json:"image"`
	Tags          []string   `json:"tags"`
	IsPublished   bool       `json:"isPublished"`
	PublishedAt   *time.Time `json:"publishedAt"`
	Views         int        `json:"views"`
	GeneratedByAI bool       `json:"generatedByAI"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	// Virtual fields populated by store methods.
	Category *CategoryRef `json:"category,omitempty"`
	Author   *AuthorRef   `json:"author,omitempty"`
}

// AuthorRef is the whitelisted user subset embedded in blog responses.
// The password hash never appears here.
type AuthorRef struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar *string   `json:"avatar,omitempty"`
}

// BlogFilter narrows a blog listing. Zero values mean "no restriction":
// an unfiltered list returns every blog regardless of publish state —
// the route's authorization layer decides whether that is appropriate.
type BlogFilter struct {
	CategoryID *uuid.UUID
	AuthorID   *uuid.UUID
	Published  *bool
	Search     string // case-insensitive substring across title/description/content
	Page       int    // 1-based
	Limit      int
}

// BlogStats aggregates dashboard numbers for the admin console.
type BlogStats struct {
	TotalBlogs     int    `json:"totalBlogs"`
	PublishedBlogs int    `json:"publishedBlogs"`
	DraftBlogs     int    `json:"draftBlogs"`
	TotalViews     int    `json:"totalViews"`
	RecentBlogs    []Blog `json:"recentBlogs"`
	TopBlogs       []Blog `json:"topBlogs"`
}
