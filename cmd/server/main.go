package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codesnip/gatekeeper/internal/handlers"
	"github.com/codesnip/gatekeeper/internal/infrastructure/config"
	"github.com/codesnip/gatekeeper/internal/infrastructure/database"
	"github.com/codesnip/gatekeeper/internal/infrastructure/metrics"
	"github.com/codesnip/gatekeeper/internal/repositories/postgres"
	"github.com/codesnip/gatekeeper/internal/services"
	"github.com/codesnip/gatekeeper/internal/services/authorization"
	"github.com/codesnip/gatekeeper/internal/services/directory"
	"github.com/codesnip/gatekeeper/pkg/cache"
	"github.com/codesnip/gatekeeper/pkg/cache/memorycache"
)

const defaultEnv = "dev"

func main() {
	// Get environment from ENV variable or use default
	env := os.Getenv("ENV")
	if env == "" {
		env = defaultEnv
	}

	// Initialize configuration
	if err := config.InitConfig(env); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	pg, err := database.NewPostgres(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pg.Close()

	log.Printf("Connected to database: %s@%s:%d/%s",
		cfg.Database.User,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Database)

	// Initialize repositories and services
	permissionRepo := postgres.NewPostgresPermissionRepository(pg.DB)
	mapper := authorization.NewMapper()
	authService := services.NewAuthorizationService(
		authorization.NewChecker(permissionRepo),
		authorization.NewManager(permissionRepo, mapper),
		authorization.NewQueryService(permissionRepo, mapper),
	)

	// Initialize directory cache and client
	var directoryCache cache.Cache
	if cfg.Cache.Enabled {
		directoryCache = memorycache.New(&memorycache.Config{
			MaxEntries:    cfg.Cache.MaxEntries,
			DefaultTTL:    time.Duration(cfg.Cache.TTLMinutes) * time.Minute,
			EnableMetrics: cfg.Cache.Metrics,
		})
		defer directoryCache.Close()
	}

	directoryClient := directory.NewClient(&directory.ClientConfig{
		BaseURL: fmt.Sprintf("https://%s/api/v2", cfg.Directory.Domain),
		Tokens: directory.NewClientCredentialsProvider(&directory.ClientCredentialsConfig{
			Domain:       cfg.Directory.Domain,
			ClientID:     cfg.Directory.ClientID,
			ClientSecret: cfg.Directory.ClientSecret,
			Audience:     cfg.Directory.Audience,
		}),
		Cache:    directoryCache,
		CacheTTL: time.Duration(cfg.Cache.TTLMinutes) * time.Minute,
	})

	// Initialize metrics
	collector := metrics.NewCollector()
	if directoryCache != nil {
		collector.SetCache(directoryCache)
	}
	exporter := metrics.NewPrometheusExporter(collector)

	// Build the HTTP server
	e := echo.New()
	e.HideBanner = true
	e.Use(handlers.RequestID())
	e.Use(echomiddleware.Recover())
	e.Use(metrics.Middleware(collector, exporter))

	api := e.Group("/api")
	if cfg.Auth.Enabled {
		api.Use(handlers.JWTAuth([]byte(cfg.Auth.JWTSecret)))
	}
	handlers.NewAuthorizationHandler(authService).RegisterRoutes(api.Group("/authorization"))
	handlers.NewUserHandler(directoryClient).RegisterRoutes(api.Group("/users"))
	e.GET("/healthz", handlers.NewHealthHandler(pg.DB).Health)

	// Metrics server on its own port
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: metricsMux,
	}

	// Periodically refresh gauge metrics
	updateDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				exporter.Update()
			case <-updateDone:
				return
			}
		}
	}()

	serverErrors := make(chan error, 2)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("HTTP server listening on %s", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	go func() {
		log.Printf("Metrics server listening on :%d", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("metrics server error: %w", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Wait for shutdown signal or server error
	select {
	case err := <-serverErrors:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		log.Println("Initiating graceful shutdown...")

		close(updateDone)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down HTTP server: %v", err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down metrics server: %v", err)
		}

		// Close database connection
		if err := pg.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}

		log.Println("Shutdown complete")
	}
}
