// Package server assembles the stores, price feeds, services and HTTP routes
// of the investment tracker.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"invtracker/internal/config"
	"invtracker/internal/feeds"
	"invtracker/internal/handlers"
	"invtracker/internal/logger"
	"invtracker/internal/middleware"
	"invtracker/internal/repository"
	"invtracker/internal/services"
	"invtracker/internal/valuation"

	_ "invtracker/internal/docs" // swagger docs
)

// Deps are the collaborators the router is built from.
type Deps struct {
	// DB holds users and audit logs for every backend.
	DB             *gorm.DB
	Stores         *repository.Stores
	Fetcher        services.QuoteFetcher
	Resolver       *valuation.Resolver
	PipelineAPIKey string
}

// Server owns the router and the resources opened for it.
type Server struct {
	router *gin.Engine
	port   string
	cache  *feeds.RedisCache
}

// New builds a server for cfg over db.
func New(cfg *config.Config, db *gorm.DB) (*Server, error) {
	stores, err := OpenStores(cfg, db)
	if err != nil {
		return nil, err
	}

	resolver, err := NewResolver(cfg)
	if err != nil {
		return nil, err
	}

	fetcher, cache := NewQuoteFetcher(cfg)

	router := NewRouter(Deps{
		DB:             db,
		Stores:         stores,
		Fetcher:        fetcher,
		Resolver:       resolver,
		PipelineAPIKey: cfg.PipelineAPIKey,
	})

	return &Server{router: router, port: cfg.Port, cache: cache}, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured port until the process exits.
func (s *Server) Run() error {
	log := logger.Get()
	log.Infof("Starting invtracker server on port %s", s.port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", s.port)
	return s.router.Run(":" + s.port)
}

// Close releases the quote cache connection, if any.
func (s *Server) Close() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Close()
}

// OpenStores selects the holding, override and snapshot stores for the
// configured backend. The sql backends share db.
func OpenStores(cfg *config.Config, db *gorm.DB) (*repository.Stores, error) {
	if cfg.StoreBackend == config.BackendFile {
		var opts []repository.FileOption
		if cfg.LegacyOwner != "" {
			opts = append(opts, repository.WithLegacyOwner(cfg.LegacyOwner))
		}
		stores, err := repository.NewFileStores(cfg.DataDir, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to open file stores: %w", err)
		}
		return stores, nil
	}
	if db == nil {
		return nil, errors.New("database connection required for the sql store backend")
	}
	return repository.NewGormStores(db), nil
}

// NewResolver loads the asset identity tables and builds the price resolver.
func NewResolver(cfg *config.Config) (*valuation.Resolver, error) {
	mappings, err := valuation.LoadMappings(cfg.AssetMappingsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load asset mappings: %w", err)
	}
	return valuation.NewResolver(mappings), nil
}

// NewQuoteFetcher builds the feed fetcher. When REDIS_ADDR is set the quotes
// are cached in Redis; an unreachable Redis is logged and the fetcher runs
// uncached. The returned cache is nil when none is in use.
func NewQuoteFetcher(cfg *config.Config) (*feeds.Fetcher, *feeds.RedisCache) {
	httpClient := &http.Client{Timeout: cfg.FeedTimeout}

	opts := []feeds.Option{
		feeds.WithTimeout(cfg.FeedTimeout),
		feeds.WithRatePerMinute(cfg.FeedRatePerMinute),
	}

	var cache *feeds.RedisCache
	if cfg.RedisAddr != "" {
		c, err := feeds.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Get().Warnw("quote cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			cache = c
			opts = append(opts, feeds.WithCache(c, cfg.FeedCacheTTL))
		}
	}

	fetcher := feeds.NewFetcher(
		feeds.NewCoinGeckoFeed(httpClient, cfg.CoinGeckoBaseURL),
		feeds.NewFMPFeed(httpClient, cfg.FMPBaseURL, cfg.FMPAPIKey),
		opts...,
	)
	return fetcher, cache
}

// NewRouter wires services, handlers and routes over deps.
func NewRouter(deps Deps) *gin.Engine {
	// Services
	userService := services.NewUserService(deps.DB)
	auditService := services.NewAuditService(deps.DB)
	investmentService := services.NewInvestmentService(deps.Stores, deps.Fetcher, deps.Resolver)
	manualPriceService := services.NewManualPriceService(deps.Stores.ManualPrices)
	snapshotService := services.NewSnapshotService(deps.Stores, deps.Fetcher, deps.Resolver)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	investmentHandler := handlers.NewInvestmentHandler(investmentService, auditService)
	manualPriceHandler := handlers.NewManualPriceHandler(manualPriceService, auditService)
	historyHandler := handlers.NewHistoryHandler(snapshotService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Scheduler routes
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(deps.PipelineAPIKey))
	pipeline.POST("/snapshots", historyHandler.SaveAllSnapshots)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	investments := protected.Group("/investments")
	investments.GET("", investmentHandler.ListInvestments)
	investments.POST("", investmentHandler.AddInvestment)
	investments.POST("/update-by-name", investmentHandler.UpdateByName)
	investments.DELETE("/:id", investmentHandler.DeleteInvestment)

	protected.GET("/portfolio/summary", investmentHandler.GetPortfolioSummary)

	prices := protected.Group("/manual-asset-prices")
	prices.GET("", manualPriceHandler.GetManualPrices)
	prices.PUT("/:name", manualPriceHandler.UpsertManualPrice)

	history := protected.Group("/historical-portfolio-value")
	history.GET("", historyHandler.GetHistory)
	history.POST("/backfill", historyHandler.Backfill)

	protected.POST("/save-daily-snapshot", historyHandler.SaveDailySnapshot)

	return router
}
