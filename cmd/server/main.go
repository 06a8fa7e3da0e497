package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/iudanet/gophnotes/internal/config"
	"github.com/iudanet/gophnotes/internal/metrics"
	"github.com/iudanet/gophnotes/internal/server/cache"
	"github.com/iudanet/gophnotes/internal/server/handlers"
	"github.com/iudanet/gophnotes/internal/server/jwt"
	"github.com/iudanet/gophnotes/internal/server/middleware"
	"github.com/iudanet/gophnotes/internal/server/router"
	"github.com/iudanet/gophnotes/internal/server/server"
	"github.com/iudanet/gophnotes/internal/server/service"
	"github.com/iudanet/gophnotes/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Parse flags
	showVersion := flag.Bool("version", false, "Show version information")
	envFile := flag.String("env-file", ".env", "Path to an optional .env file")
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(*envFile); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(envFile string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := initLogger(cfg)

	// Storage
	store, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	logger.Info("database ready", slog.String("path", cfg.DatabasePath))

	// Metrics
	var (
		recorder       metrics.Recorder = metrics.NewNoop()
		metricsHandler http.Handler
	)
	if cfg.MetricsEnabled {
		prom := metrics.NewPrometheus()
		recorder = prom
		metricsHandler = prom.Handler()
	}

	// Optional access-list cache. Interface stays nil when disabled.
	var (
		noteCache  service.ACLCache
		redisCache *cache.Cache
		checks     = map[string]handlers.Pinger{"database": store}
	)
	if cfg.ACLCacheEnabled() {
		redisCache, err = cache.New(ctx, cfg.RedisURL, cfg.ACLCacheTTL)
		if err != nil {
			_ = store.Close()
			return fmt.Errorf("failed to connect to Redis at %s: %w", redactURL(cfg.RedisURL), err)
		}
		noteCache = redisCache
		checks["redis"] = redisCache
		logger.Info("acl cache enabled", slog.Duration("ttl", cfg.ACLCacheTTL))
	}

	// Services
	tokens := jwt.NewService([]byte(cfg.JWTAccessKey), cfg.SessionTTL)
	authService := service.NewAuthService(logger, store, recorder)
	noteService := service.NewNoteService(logger, store, store, store, noteCache, recorder,
		service.NoteServiceConfig{StrictAccess: cfg.StrictNoteAccess})

	// HTTP
	views, err := handlers.NewRenderer(logger)
	if err != nil {
		_ = store.Close()
		return err
	}

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow, logger)

	r := router.New(router.Deps{
		Logger:         logger,
		Auth:           handlers.NewAuthHandler(logger, authService, tokens, views, cfg.CookieSecure),
		Notes:          handlers.NewNoteHandler(logger, noteService, views),
		Health:         handlers.NewHealthHandler(logger, Version, checks),
		Verifier:       tokens,
		LoginLimiter:   loginLimiter,
		TrustProxy:     cfg.TrustedProxy,
		Metrics:        recorder,
		MetricsHandler: metricsHandler,
	})

	srv := server.New(r, server.Config{
		Addr:            fmt.Sprintf(":%d", cfg.AppPort),
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// LIFO: limiter, затем redis, база закрывается последней
	srv.OnShutdown("database", func(ctx context.Context) error {
		return store.Close()
	})
	if redisCache != nil {
		srv.OnShutdown("redis", func(ctx context.Context) error {
			return redisCache.Close()
		})
	}
	srv.OnShutdown("login rate limiter", func(ctx context.Context) error {
		loginLimiter.Stop()
		return nil
	})

	logger.Info("starting server",
		slog.Int("port", cfg.AppPort),
		slog.Bool("strict_note_access", cfg.StrictNoteAccess),
		slog.Bool("metrics", cfg.MetricsEnabled),
		slog.Bool("trusted_proxy", cfg.TrustedProxy),
		slog.String("version", Version),
	)

	return srv.Run(ctx)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}

	var h slog.Handler
	if strings.EqualFold(cfg.LogFormat, "text") {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// redactURL hides credentials in connection URLs before logging
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}

func printVersion() {
	fmt.Printf("gophnotes server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
