// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"inkwell/internal/models"
)

func TestCategoryCreateAndFind(t *testing.T) {
	db := testDB(t)
	categories := NewCategoryStore(db)

	created := testCategory(t, db, "Round Trip Category", "round-trip-category")
	if created.ID.String() == "" {
		t.Fatal("created category has no ID")
	}

	byID, err := categories.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID == nil || byID.Name != "Round Trip Category" {
		t.Errorf("FindByID: got %+v", byID)
	}

	bySlug, err := categories.FindBySlug("round-trip-category")
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if bySlug == nil || bySlug.ID != created.ID {
		t.Errorf("FindBySlug: got %+v", bySlug)
	}

	missing, err := categories.FindBySlug("no-such-slug")
	if err != nil {
		t.Fatalf("FindBySlug missing: %v", err)
	}
	if missing != nil {
		t.Error("missing slug should return nil, nil")
	}
}

func TestCategoryListIncludesBlogCount(t *testing.T) {
	db := testDB(t)
	categories := NewCategoryStore(db)

	author := testUser(t, db, "cat-count@example.com", models.RolePublisher)
	category := testCategory(t, db, "Counted Category", "counted-category")
	testBlog(t, db, "Counted Blog One", author, category)
	testBlog(t, db, "Counted Blog Two", author, category)

	items, err := categories.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := false
	for _, c := range items {
		if c.ID == category.ID {
			found = true
			if c.BlogCount != 2 {
				t.Errorf("blog count: got %d, want 2", c.BlogCount)
			}
		}
	}
	if !found {
		t.Error("created category missing from listing")
	}
}

func TestCategoryUpdate(t *testing.T) {
	db := testDB(t)
	categories := NewCategoryStore(db)

	category := testCategory(t, db, "Before Rename", "before-rename")
	category.Name = "After Rename"
	category.Slug = "after-rename"
	category.Color = "#ff6600"
	category.IsActive = false
	if err := categories.Update(category); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reloaded, _ := categories.FindByID(category.ID)
	if reloaded.Name != "After Rename" || reloaded.Slug != "after-rename" {
		t.Errorf("rename not persisted: %+v", reloaded)
	}
	if reloaded.Color != "#ff6600" || reloaded.IsActive {
		t.Errorf("fields not persisted: %+v", reloaded)
	}
}

func TestCategoryBlogCountAndDelete(t *testing.T) {
	db := testDB(t)
	categories := NewCategoryStore(db)

	author := testUser(t, db, "cat-delete@example.com", models.RolePublisher)
	used := testCategory(t, db, "Used Category", "used-category")
	empty := testCategory(t, db, "Empty Category", "empty-category")
	testBlog(t, db, "Occupying Blog", author, used)

	n, err := categories.BlogCount(used.ID)
	if err != nil {
		t.Fatalf("BlogCount: %v", err)
	}
	if n != 1 {
		t.Errorf("BlogCount: got %d, want 1", n)
	}

	// The foreign key restricts deleting a category that still has blogs.
	if err := categories.Delete(used.ID); err == nil {
		t.Error("deleting a category with blogs should fail")
	}

	if err := categories.Delete(empty.ID); err != nil {
		t.Fatalf("Delete empty: %v", err)
	}
	gone, _ := categories.FindByID(empty.ID)
	if gone != nil {
		t.Error("empty category should be gone")
	}
}
