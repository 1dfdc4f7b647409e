package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/namostri/catalog_api/internal/cache"
	"github.com/namostri/catalog_api/internal/config"
	"github.com/namostri/catalog_api/internal/database"
	"github.com/namostri/catalog_api/internal/handler"
	"github.com/namostri/catalog_api/internal/middleware"
	"github.com/namostri/catalog_api/internal/repository"
	"github.com/namostri/catalog_api/internal/service"
	"github.com/namostri/catalog_api/internal/worker"
	"github.com/namostri/catalog_api/pkg/amazon"
	"github.com/namostri/catalog_api/pkg/shopify"
)

// main is the application entrypoint for the catalog API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting catalog api")

	// 3. Connect database. A missing or unreachable database is not fatal:
	// the server keeps running and serves fallback data until it comes back.
	var db *sqlx.DB
	if cfg.DB.Configured() {
		db, err = database.Connect(&cfg.DB)
		if err != nil {
			log.Warn().Err(err).Msg("database connection failed - continuing with fallback data")
			db = nil
		}
	} else {
		log.Warn().Msg("database not configured - continuing with fallback data")
	}
	if db != nil {
		defer db.Close()

		// 3a. Run migrations
		if err := runMigrations(db.DB); err != nil {
			log.Error().Err(err).Msg("migration failed")
			fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
			os.Exit(1)
		}
		log.Info().Msg("migrations completed successfully")
	}

	// 3b. Availability monitor: the probe every service consults.
	monitor := database.NewMonitor(db, cfg.Worker.ProbeInterval)

	// 3c. Connect to Redis (optional list cache)
	var listCache *cache.CatalogCache
	if cfg.Redis.Configured() {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis connection failed - list cache disabled")
		} else {
			defer redisClient.Close()
			listCache = cache.NewCatalogCache(redisClient)
			log.Info().Msg("redis connected successfully")
		}
	}

	// 4. Initialize repositories
	productRepo := repository.NewProductRepository(db)

	// 5. Initialize source adapters for the configured upstreams
	var sources []service.Source
	if cfg.Shopify.StoreDomain != "" && cfg.Shopify.AccessToken != "" {
		client := shopify.NewClient(shopify.Config{
			StoreDomain: cfg.Shopify.StoreDomain,
			AccessToken: cfg.Shopify.AccessToken,
			APIVersion:  cfg.Shopify.APIVersion,
		})
		sources = append(sources, service.NewShopifySource(client, cfg.Shopify.StoreDomain))
		log.Info().Str("store", cfg.Shopify.StoreDomain).Msg("Shopify source registered")
	}
	if cfg.Amazon.APIKey != "" {
		client := amazon.NewClient(amazon.Config{
			APIKey:  cfg.Amazon.APIKey,
			APIHost: cfg.Amazon.APIHost,
		})
		sources = append(sources, service.NewAmazonSource(client, cfg.Amazon.SearchKeywords, cfg.Amazon.Country))
		log.Info().Msg("Amazon source registered")
	}

	// 6. Initialize services
	fallback := service.NewFallbackGenerator(nil)
	productSvc := service.NewProductService(productRepo, monitor, fallback, listCache)
	syncSvc := service.NewSyncService(productRepo, monitor, listCache, sources...)
	exportSvc := service.NewExportService(productRepo, monitor, fallback)

	// 7. Initialize handlers
	healthHandler := handler.NewHealthHandler(monitor)
	productHandler := handler.NewProductHandler(productSvc, syncSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	// 8. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, healthHandler, productHandler, exportHandler)

	// 9. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 10. Start workers
	go monitor.Start(ctx)
	if cfg.Worker.SyncInterval > 0 && len(sources) > 0 {
		go worker.NewSyncWorker(syncSvc, cfg.Worker.SyncInterval).Start(ctx)
	}

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Cancel context to stop workers
	cancel()

	// 14. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, health *handler.HealthHandler, products *handler.ProductHandler, exports *handler.ExportHandler) {
	api := router.Group("/api")

	api.GET("/health", health.GetHealth)

	p := api.Group("/products")
	{
		p.GET("", products.ListProducts)
		p.GET("/source/:source", products.ListProductsBySource)
		p.GET("/:id", products.GetProduct)
		p.POST("", products.CreateProduct)
		p.PUT("/:id", products.UpdateProduct)
		p.DELETE("/:id", products.DeleteProduct)
		p.POST("/sync/shopify", products.SyncShopify)
		p.POST("/sync/amazon", products.SyncAmazon)
	}

	e := api.Group("/export")
	{
		e.POST("/excel", exports.ExportAll)
		e.POST("/excel/filtered", exports.ExportFiltered)
		e.POST("/excel/:source", exports.ExportBySource)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
