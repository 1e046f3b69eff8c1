package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"feedgen/internal/config"
	"feedgen/internal/feed"
	"feedgen/internal/logger"
	"feedgen/internal/models"
	"feedgen/internal/services/shopify"
)

type SyncHandler struct {
	db         *gorm.DB
	logger     *logger.Logger
	config     *config.Config
	fetcher    *shopify.Fetcher
	normalizer *feed.Normalizer
}

func NewSyncHandler(db *gorm.DB, logger *logger.Logger, cfg *config.Config, client *shopify.Client) *SyncHandler {
	return &SyncHandler{
		db:         db,
		logger:     logger,
		config:     cfg,
		fetcher:    shopify.NewFetcher(client, logger),
		normalizer: feed.NewNormalizer(feedPolicy(cfg), cfg.StoreBrand, cfg.StoreURL, logger),
	}
}

// Run pulls the full catalog, normalizes it, and upserts every
// eligible product into the store.
func (h *SyncHandler) Run(c *gin.Context) {
	timeout := time.Duration(h.config.FetchTimeout) * time.Second
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	raw, err := h.fetcher.FetchAll(ctx, shopify.FetchOptions{
		PageSize:   h.config.PageSize,
		MaxRecords: h.config.MaxRecords,
		MaxPages:   h.config.MaxPages,
	})
	if err != nil {
		h.logger.Error("Failed to fetch products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products from Shopify"})
		return
	}

	var syncedCount int
	for _, product := range h.normalizer.Normalize(raw) {
		row := feed.ToStoreProduct(product)
		if err := models.UpsertProduct(h.db, &row); err != nil {
			h.logger.Error("Failed to upsert product %d: %v", product.ID, err)
			continue
		}
		syncedCount++
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Products synced successfully",
		"synced_count": syncedCount,
	})
}
