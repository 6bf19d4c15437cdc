package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/cinelog/cinelog-server/internal/catalog"
	"github.com/cinelog/cinelog-server/internal/config"
	"github.com/cinelog/cinelog-server/internal/events"
	"github.com/cinelog/cinelog-server/internal/handlers"
	"github.com/cinelog/cinelog-server/internal/logging"
	"github.com/cinelog/cinelog-server/internal/middleware"
	"github.com/cinelog/cinelog-server/internal/repository"
	"github.com/cinelog/cinelog-server/internal/server"
	"github.com/cinelog/cinelog-server/internal/service"
	"github.com/cinelog/cinelog-server/pkg/tokens"
)

const serverVersion = "1.0.0"

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("cinelog-server"))
	logging.SetDefault(logger)

	slog.Info("Starting CineLog server",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("log_format", cfg.Logging.Format),
	)
	if *configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", *configPath))
	}
	if cfg.Auth.AccessSecret == "change-this-access-secret" || cfg.Auth.RefreshSecret == "change-this-refresh-secret" {
		slog.Warn("Using default token secrets (development only)")
	}

	// Initialize repository based on config
	var repo repository.Repository
	if cfg.Database.Type == "postgres" {
		connString := cfg.Database.Postgres.ConnString()

		slog.Info("Connecting to PostgreSQL",
			slog.String("host", cfg.Database.Postgres.Host),
			slog.Int("port", cfg.Database.Postgres.Port),
			slog.String("database", cfg.Database.Postgres.Database),
		)

		pgRepo, err := repository.NewPostgresRepository(context.Background(), connString)
		if err != nil {
			slog.Error("Failed to connect to PostgreSQL", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pgRepo.Close()
		repo = pgRepo
		slog.Info("Connected to PostgreSQL")

		// Run database migrations
		slog.Info("Running database migrations")
		m, err := migrate.New("file://migrations", connString)
		if err != nil {
			slog.Error("Failed to initialize migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			slog.Error("Failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}

		version, dirty, err := m.Version()
		if err != nil {
			slog.Warn("Could not get migration version", slog.String("error", err.Error()))
		} else {
			slog.Info("Database migration complete",
				slog.Uint64("version", uint64(version)),
				slog.Bool("dirty", dirty),
			)
		}
	} else {
		slog.Warn("Using in-memory repository (development only)")
		repo = repository.NewInMemoryRepository()
	}

	// Event publishing is optional; without NATS the publisher is a no-op.
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Events.Enabled {
		natsPublisher, err := events.NewNATSPublisher(cfg.Events.URL, cfg.Events.Name)
		if err != nil {
			slog.Error("Failed to connect to NATS", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer natsPublisher.Drain()
		publisher = natsPublisher
		slog.Info("Event publishing enabled", slog.String("url", cfg.Events.URL))
	}

	// Catalog response cache is optional; without Redis every catalog
	// request goes upstream.
	var cache *catalog.Cache
	if cfg.Redis.Enabled {
		cache, err = catalog.NewCache(cfg.Redis.URL, cfg.Redis.CatalogTTL)
		if err != nil {
			slog.Error("Failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer cache.Close()
		slog.Info("Catalog response caching enabled",
			slog.String("ttl", cfg.Redis.CatalogTTL.String()),
		)
	}
	if cfg.Catalog.APIKey == "" {
		slog.Warn("Catalog API key is not set; catalog requests will fail upstream")
	}

	// Initialize service layer
	generator := tokens.NewGenerator(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	authService := service.NewAuthService(repo, generator, publisher, cfg.Auth.BcryptCost)
	accountService := service.NewAccountService(repo, cfg.Auth.BcryptCost)
	reviewService := service.NewReviewService(repo, publisher)
	listService := service.NewListService(repo)
	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, cfg.Catalog.Timeout, cache)

	// Expired refresh tokens are swept in the background.
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	sweeper := service.NewSweeper(repo, cfg.Sweep.Interval)
	go sweeper.Run(sweepCtx)

	// Initialize HTTP handlers and routes
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:    handlers.NewAuthHandler(authService),
		AccountHandler: handlers.NewAccountHandler(accountService),
		CatalogHandler: handlers.NewCatalogHandler(catalogClient),
		ReviewHandler:  handlers.NewReviewHandler(reviewService),
		ListHandler:    handlers.NewListHandler(listService),
		AdminHandler:   handlers.NewAdminHandler(accountService, reviewService),
		HealthHandler:  handlers.NewHealthHandler(serverVersion),
		Auth:           middleware.NewAuth(generator),
		CORS: middleware.CORSConfig{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   cfg.CORS.AllowedMethods,
			AllowedHeaders:   cfg.CORS.AllowedHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		},
	})

	// Create server with config values
	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		slog.Info("CineLog server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	stopSweeper()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Server stopped gracefully")
}
