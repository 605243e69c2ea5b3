// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a blog category. The slug is derived from the name
// and must be unique.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Virtual field populated by store methods on admin listings.
	BlogCount int `json:"blogCount,omitempty"`
}

// CategoryRef is the whitelisted category subset embedded in blog responses.
type CategoryRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Slug  string    `json:"slug"`
	Icon  string    `json:"icon"`
	Color string    `json:"color"`
}

// Ref returns the embeddable subset of the category.
func (c *Category) Ref() *CategoryRef {
	return &CategoryRef{ID: c.ID, Name: c.Name, Slug: c.Slug, Icon: c.Icon, Color: c.Color}
}
