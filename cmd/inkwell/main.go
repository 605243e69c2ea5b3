// Package main is the entry point for the Inkwell API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"inkwell/internal/ai"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/router"
	"inkwell/internal/storage"
	"inkwell/internal/store"
	"inkwell/internal/token"
)

func main() {
	// Structured logger.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	handlers.Debug = !cfg.IsProduction()

	// Connect to PostgreSQL. An unreachable database at startup is logged
	// but not fatal — the pool retries per request once it recovers.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
		}
	}

	// Connect to Valkey for shared rate-limit counters. Optional: the
	// limiters fall back to in-memory windows without it.
	var valkeyClient *redis.Client
	if cfg.ValkeyHost != "" {
		valkeyClient, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("valkey unavailable, rate limits are per-instance", "error", err)
			valkeyClient = nil
		} else {
			defer valkeyClient.Close()
		}
	}

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	blogStore := store.NewBlogStore(db)
	commentStore := store.NewCommentStore(db)

	// Connect to S3-compatible object storage (optional — uploads go to
	// the local directory without it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Info("uploads stored locally", "dir", cfg.UploadDir)
	}

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		"gemini":  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	writer := ai.NewWriter(aiRegistry)

	// Session tokens and authentication middleware.
	tokens := token.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	authenticator := middleware.NewAuthenticator(tokens, userStore)

	// Rate limiters: tight on login (credential guessing), looser on the
	// AI endpoints (expensive upstream calls).
	loginLimiter := middleware.NewRateLimiter("login", 10, time.Minute, valkeyClient)
	defer loginLimiter.Stop()
	aiLimiter := middleware.NewRateLimiter("ai", 20, time.Minute, valkeyClient)
	defer aiLimiter.Stop()

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuth(userStore, tokens, cfg.IsProduction())
	blogHandlers := handlers.NewBlogs(blogStore, categoryStore, writer)
	categoryHandlers := handlers.NewCategories(categoryStore)
	commentHandlers := handlers.NewComments(commentStore, blogStore)
	userHandlers := handlers.NewUsers(userStore, blogStore)
	uploadHandlers := handlers.NewUpload(cfg.UploadDir, int64(cfg.MaxUploadMB)<<20, storageClient)

	// Serve /uploads/ only when files live on local disk.
	localUploads := cfg.UploadDir
	if storageClient != nil {
		localUploads = ""
	}

	r := router.New(router.Deps{
		Auth:          authHandlers,
		Blogs:         blogHandlers,
		Categories:    categoryHandlers,
		Comments:      commentHandlers,
		Users:         userHandlers,
		Upload:        uploadHandlers,
		Authenticator: authenticator,
		LoginLimiter:  loginLimiter,
		AILimiter:     aiLimiter,
		CORSOrigins:   cfg.CORSOrigins,
		UploadDir:     localUploads,
	})

	// WriteTimeout must accommodate AI endpoints that wait on LLM
	// responses (typically 10-30s, up to 60s for complex prompts).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
