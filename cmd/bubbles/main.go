// Package main is the entry point for the Bubbles restaurant server.
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

	"bubbles/internal/cache"
	"bubbles/internal/config"
	"bubbles/internal/database"
	"bubbles/internal/events"
	"bubbles/internal/handlers"
	"bubbles/internal/middleware"
	"bubbles/internal/realtime"
	"bubbles/internal/router"
	"bubbles/internal/session"
	"bubbles/internal/settings"
	"bubbles/internal/storage"
	"bubbles/internal/store"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
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

	// Connect to Valkey (Redis-compatible session store + menu cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Initialize session store backed by Valkey.
	// In non-development environments, mark session cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	dishStore := store.NewDishStore(db)
	messageStore := store.NewMessageStore(db)
	settingStore := store.NewSiteSettingStore(db)

	// Connect to S3-compatible object storage (optional — app works without it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"bucket", storageClient.Bucket(),
		)
	} else {
		slog.Warn("s3 storage not configured — image uploads disabled")
	}

	// Event bus ties dish/settings mutations to cache invalidation and the
	// browser change feed.
	bus := events.NewBus()

	// Menu cache (public menu JSON in Valkey). Admin dish handlers
	// invalidate it directly on every mutation.
	menuCache := cache.NewMenuCache(valkeyClient, cache.DefaultMenuTTL)

	// First run: persist the defaults so the back office lists real rows
	// instead of in-memory fallbacks.
	if existing, err := settingStore.All(); err == nil && len(existing) == 0 {
		if err := settingStore.SetMany(settings.Defaults()); err != nil {
			slog.Warn("failed to seed default site settings", "error", err)
		}
	}

	// Site settings service: defaults merged under database rows.
	settingsService := settings.New(settingStore, bus)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := settingsService.Load(ctx); err != nil {
			slog.Warn("site settings load failed, serving defaults", "error", err)
		}
		cancel()
	}

	// WebSocket hub pushing change notifications to connected browsers.
	hub := realtime.NewHub(bus)

	// Rate limiters for the public contact form and credential endpoints.
	contactLimiter := middleware.NewRateLimiter(5, time.Minute)
	defer contactLimiter.Stop()
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer loginLimiter.Stop()

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuth(sessionStore, userStore)
	publicHandlers := handlers.NewPublic(dishStore, messageStore, settingsService, menuCache, bus)
	adminHandlers := handlers.NewAdmin(userStore, dishStore, messageStore, settingsService, storageClient, menuCache, bus)

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Deps{
		Sessions:       sessionStore,
		Auth:           authHandlers,
		Public:         publicHandlers,
		Admin:          adminHandlers,
		Hub:            hub,
		ContactLimiter: contactLimiter,
		LoginLimiter:   loginLimiter,
	})

	// Create the HTTP server with sensible timeouts. ReadTimeout is not set
	// because WebSocket connections stay open indefinitely; handlers cap
	// their own body reads instead.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
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

	// Close WebSocket clients first so Shutdown isn't held open by them.
	hub.CloseAll()

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
