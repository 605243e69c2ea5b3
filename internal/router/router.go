// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router wires all HTTP routes and middleware into a chi router.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
)

// Deps carries everything the router needs to assemble the API.
type Deps struct {
	Auth       *handlers.Auth
	Blogs      *handlers.Blogs
	Categories *handlers.Categories
	Comments   *handlers.Comments
	Users      *handlers.Users
	Upload     *handlers.Upload

	Authenticator *middleware.Authenticator
	LoginLimiter  *middleware.RateLimiter
	AILimiter     *middleware.RateLimiter

	CORSOrigins []string

	// UploadDir is served at /uploads/ when local storage is in use.
	// Empty means uploads live in S3 and nothing is served locally.
	UploadDir string
}

// New assembles the full route tree.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Logger)

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.NotFound)

	r.Get("/api/health", handlers.Health)

	requireAuth := d.Authenticator.RequireAuth
	adminOnly := d.Authenticator.RequireRole(models.RoleAdmin)

	r.Route("/api/auth", func(r chi.Router) {
		r.With(d.LoginLimiter.Middleware).Post("/login", d.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/logout", d.Auth.Logout)
			r.Get("/me", d.Auth.Me)
			r.Put("/profile", d.Auth.UpdateProfile)
		})
	})

	r.Route("/api/blogs", func(r chi.Router) {
		// Public reads.
		r.Get("/", d.Blogs.List)
		r.Get("/slug/{slug}", d.Blogs.GetBySlug)
		r.Get("/{id}", d.Blogs.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/", d.Blogs.Create)
			r.Get("/stats/all", d.Blogs.Stats)
			r.Put("/{id}", d.Blogs.Update)
			r.Delete("/{id}", d.Blogs.Delete)

			r.With(d.AILimiter.Middleware).Post("/generate", d.Blogs.Generate)
			r.With(d.AILimiter.Middleware).Post("/ideas", d.Blogs.Ideas)
			r.With(d.AILimiter.Middleware).Post("/{id}/improve", d.Blogs.Improve)

			r.With(adminOnly).Patch("/{id}/publish", d.Blogs.TogglePublish)
		})
	})

	r.Route("/api/categories", func(r chi.Router) {
		// Public reads.
		r.Get("/", d.Categories.List)
		r.Get("/{id}", d.Categories.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, adminOnly)
			r.Post("/", d.Categories.Create)
			r.Put("/{id}", d.Categories.Update)
			r.Delete("/{id}", d.Categories.Delete)
		})
	})

	r.Route("/api/comments", func(r chi.Router) {
		// Public: feed and submission.
		r.Get("/blog/{blogId}", d.Comments.ListForBlog)
		r.Post("/", d.Comments.Create)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, adminOnly)
			r.Get("/", d.Comments.ListAll)
			r.Get("/stats", d.Comments.Stats)
			r.Patch("/{id}/approve", d.Comments.ToggleApprove)
			r.Delete("/{id}", d.Comments.Delete)
		})
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(requireAuth, adminOnly)
		r.Get("/", d.Users.List)
		r.Post("/", d.Users.Create)
		r.Get("/publishers", d.Users.Publishers)
		r.Get("/{id}", d.Users.Get)
		r.Put("/{id}", d.Users.Update)
		r.Delete("/{id}", d.Users.Delete)
	})

	r.With(requireAuth).Post("/api/upload", d.Upload.Handle)

	if d.UploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.UploadDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}
