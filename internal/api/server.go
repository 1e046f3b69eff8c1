package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"feedgen/internal/api/handlers"
	"feedgen/internal/api/middleware"
	"feedgen/internal/config"
	"feedgen/internal/database"
	"feedgen/internal/events"
	"feedgen/internal/logger"
	"feedgen/internal/services/shopify"
)

type Server struct {
	config    *config.Config
	logger    *logger.Logger
	db        *database.Database
	publisher *events.Publisher
	router    *gin.Engine
	server    *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	client := shopify.NewClient(cfg.ShopDomain, cfg.ShopifyAccessToken, cfg.ShopifyAPIVersion, logger)
	publisher := events.NewPublisher(cfg.KafkaBrokers, logger)

	// Initialize handlers
	feedHandler := handlers.NewFeedHandler(db.DB, logger, cfg, client)
	webhookHandler := handlers.NewWebhookHandler(db.DB, logger, cfg, client, publisher)
	syncHandler := handlers.NewSyncHandler(db.DB, logger, cfg, client)
	productHandler := handlers.NewProductHandler(db.DB, logger)

	// Routes
	v1 := router.Group("/api/v1")
	{
		// Feed delivery
		feedRoutes := v1.Group("/feed")
		{
			feedRoutes.GET("", feedHandler.Stored)
			feedRoutes.GET("/live", feedHandler.Live)
			feedRoutes.GET("/pages", feedHandler.Pages)
		}

		// Store sync
		v1.POST("/sync", syncHandler.Run)

		// Webhooks
		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/shopify", webhookHandler.Receive)
			webhooks.POST("/register", webhookHandler.Register)
		}

		// Store browse
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
		}
	}

	return &Server{
		config:    cfg,
		logger:    logger,
		db:        db,
		publisher: publisher,
		router:    router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if s.publisher != nil {
		s.publisher.Close()
	}
	return s.server.Shutdown(ctx)
}

// GetRouter returns the Gin router, used by handler tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
