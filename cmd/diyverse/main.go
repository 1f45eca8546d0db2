// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the diyverse API server.
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

	"diyverse/internal/cache"
	"diyverse/internal/comments"
	"diyverse/internal/config"
	"diyverse/internal/content"
	"diyverse/internal/database"
	"diyverse/internal/engagement"
	"diyverse/internal/handlers"
	"diyverse/internal/middleware"
	"diyverse/internal/router"
	"diyverse/internal/session"
	"diyverse/internal/storage"
	"diyverse/internal/store"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON elsewhere.
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (sessions and toggle guards).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyAddr(), cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Object storage is optional; without it stored paths are served as-is.
	blobs, err := storage.New(storage.Options{
		Driver:    cfg.StorageDriver,
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
		UseSSL:    cfg.StorageUseSSL,
	})
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	if blobs != nil {
		slog.Info("storage connected", "driver", cfg.StorageDriver, "endpoint", cfg.S3Endpoint)
	} else {
		slog.Warn("storage not configured, uploads are disabled and asset URLs will not be resolved")
	}

	// Initialize data stores.
	projectStore := store.NewProjectStore(db)
	contentStore := store.NewContentStore(db)
	commentStore := store.NewCommentStore(db)
	engagementStore := store.NewEngagementStore(db)
	profileStore := store.NewProfileStore(db)

	// Services.
	ledger := engagement.NewLedger(engagementStore, engagement.NewRedisGuard(valkeyClient, 0))
	assembler := content.NewAssembler(contentStore, blobs)
	drafts := content.NewRedisDrafts(valkeyClient, 0)
	editor := content.NewEditor(projectStore, contentStore, blobs, drafts)
	commentService := comments.NewService(commentStore, ledger, projectStore)
	live := handlers.NewLive(commentService, ledger, projectStore, cfg.LiveRefresh)

	commentLimiter := middleware.NewRateLimiter(cfg.CommentsPerMinute, time.Minute)
	defer commentLimiter.Stop()

	r := router.New(sessionStore, router.Handlers{
		Projects:   handlers.NewProjects(projectStore, assembler, editor, blobs),
		Comments:   handlers.NewComments(commentService),
		Engagement: handlers.NewEngagement(ledger, projectStore),
		Assets:     handlers.NewAssets(editor, profileStore, blobs),
		Live:       live,
	}, commentLimiter, secureCookies)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	srv.RegisterOnShutdown(live.Shutdown)

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
