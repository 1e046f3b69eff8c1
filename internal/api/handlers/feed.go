package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"feedgen/internal/config"
	"feedgen/internal/feed"
	"feedgen/internal/logger"
	"feedgen/internal/models"
	"feedgen/internal/services/shopify"
)

type FeedHandler struct {
	db         *gorm.DB
	logger     *logger.Logger
	config     *config.Config
	client     *shopify.Client
	fetcher    *shopify.Fetcher
	normalizer *feed.Normalizer
	generator  *feed.Generator
	repairer   *feed.Repairer
}

func NewFeedHandler(db *gorm.DB, logger *logger.Logger, cfg *config.Config, client *shopify.Client) *FeedHandler {
	generator := feed.NewGenerator(cfg.Currency)

	return &FeedHandler{
		db:         db,
		logger:     logger,
		config:     cfg,
		client:     client,
		fetcher:    shopify.NewFetcher(client, logger),
		normalizer: feed.NewNormalizer(feedPolicy(cfg), cfg.StoreBrand, cfg.StoreURL, logger),
		generator:  generator,
		repairer:   feed.NewRepairer(generator, logger),
	}
}

func feedPolicy(cfg *config.Config) feed.Policy {
	return feed.Policy{
		RequireDescription: cfg.FeedRequireDescription,
		RequireSKU:         cfg.FeedRequireSKU,
		StrictInventory:    cfg.FeedStrictInventory,
	}
}

// Stored serves the feed from the persisted catalog store.
func (h *FeedHandler) Stored(c *gin.Context) {
	var rows []models.Product
	if err := h.db.Find(&rows).Error; err != nil {
		h.logger.Error("Failed to read products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	products := h.normalizer.NormalizeStored(rows)
	if len(products) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No products found"})
		return
	}

	h.respondFeed(c, products)
}

// Live serves the feed built directly from the upstream catalog.
func (h *FeedHandler) Live(c *gin.Context) {
	products, ok := h.fetchNormalized(c)
	if !ok {
		return
	}

	h.respondFeed(c, products)
}

// Pages serves a sitemap-style index when no page is requested, or the
// requested page of entries as an attachment.
func (h *FeedHandler) Pages(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 {
		limit = 50
	}

	pageStr := c.Query("page")
	if pageStr == "" {
		h.respondIndex(c, limit)
		return
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid page number"})
		return
	}

	products, ok := h.fetchNormalized(c)
	if !ok {
		return
	}

	start := (page - 1) * limit
	if start >= len(products) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid page number"})
		return
	}
	end := start + limit
	if end > len(products) {
		end = len(products)
	}

	doc, err := h.buildFeed(products[start:end])
	if err != nil {
		h.logger.Error("Failed to generate feed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate feed"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="products_%d.xml"`, page))
	c.Data(http.StatusOK, "application/xml", []byte(doc))
}

func (h *FeedHandler) respondIndex(c *gin.Context, limit int) {
	ctx, cancel := h.fetchContext(c)
	defer cancel()

	total, err := h.client.CountProducts(ctx)
	if err != nil {
		h.logger.Error("Failed to count products: %v", err)
		c.JSON(http.StatusNotFound, gin.H{"message": "No products found"})
		return
	}

	totalPages := (total + limit - 1) / limit
	c.Data(http.StatusOK, "application/xml", []byte(feed.RenderIndex(h.config.FeedBaseURL, totalPages)))
}

// fetchNormalized pulls the full catalog and applies the eligibility
// policy. A transport failure discards everything and surfaces as a
// "no data" response, never as partial output.
func (h *FeedHandler) fetchNormalized(c *gin.Context) ([]feed.Product, bool) {
	ctx, cancel := h.fetchContext(c)
	defer cancel()

	raw, err := h.fetcher.FetchAll(ctx, shopify.FetchOptions{
		PageSize:   h.config.PageSize,
		MaxRecords: h.config.MaxRecords,
		MaxPages:   h.config.MaxPages,
	})
	if err != nil {
		h.logger.Error("Failed to fetch products: %v", err)
		c.JSON(http.StatusNotFound, gin.H{"message": "No products found"})
		return nil, false
	}

	products := h.normalizer.Normalize(raw)
	if len(products) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No products found"})
		return nil, false
	}

	return products, true
}

func (h *FeedHandler) respondFeed(c *gin.Context, products []feed.Product) {
	doc, err := h.buildFeed(products)
	if err != nil {
		h.logger.Error("Failed to generate feed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate feed"})
		return
	}

	c.Data(http.StatusOK, "application/xml", []byte(doc))
}

func (h *FeedHandler) buildFeed(products []feed.Product) (string, error) {
	channel := feed.Channel{
		Title:       h.config.FeedTitle,
		Link:        h.config.StoreURL,
		Description: h.config.FeedDescription,
	}

	doc := h.generator.Render(channel, h.generator.Entries(products))
	return h.repairer.Repair(doc)
}

func (h *FeedHandler) fetchContext(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(h.config.FetchTimeout) * time.Second
	return context.WithTimeout(c.Request.Context(), timeout)
}
