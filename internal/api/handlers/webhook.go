package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"feedgen/internal/config"
	"feedgen/internal/events"
	"feedgen/internal/feed"
	"feedgen/internal/logger"
	"feedgen/internal/models"
	"feedgen/internal/services/shopify"
)

type WebhookHandler struct {
	db         *gorm.DB
	logger     *logger.Logger
	config     *config.Config
	client     *shopify.Client
	normalizer *feed.Normalizer
	publisher  *events.Publisher
}

// NewWebhookHandler wires the webhook surface. publisher may be nil
// when no broker is configured; event publishing is best effort.
func NewWebhookHandler(db *gorm.DB, logger *logger.Logger, cfg *config.Config, client *shopify.Client, publisher *events.Publisher) *WebhookHandler {
	return &WebhookHandler{
		db:         db,
		logger:     logger,
		config:     cfg,
		client:     client,
		normalizer: feed.NewNormalizer(feedPolicy(cfg), cfg.StoreBrand, cfg.StoreURL, logger),
		publisher:  publisher,
	}
}

// Receive handles a product webhook: validate, normalize, upsert. An
// invalid payload is rejected wholesale, nothing is persisted.
func (h *WebhookHandler) Receive(c *gin.Context) {
	topic := c.GetHeader("X-Shopify-Topic")
	shopDomain := c.GetHeader("X-Shopify-Shop-Domain")
	h.logger.Debug("Webhook received: topic=%s shop=%s", topic, shopDomain)

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read payload"})
		return
	}

	var payload shopify.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
		return
	}
	if payload.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
		return
	}

	normalized := h.normalizer.Normalize([]shopify.Product{*payload.Product()})
	if len(normalized) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Product not eligible for feed, skipped"})
		return
	}

	row := feed.ToStoreProduct(normalized[0])
	if err := models.UpsertProduct(h.db, &row); err != nil {
		h.logger.Error("Failed to upsert product %d: %v", payload.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process webhook"})
		return
	}

	h.publishUpdate(payload.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Webhook processed successfully"})
}

// Register subscribes this service to product update webhooks
// upstream.
func (h *WebhookHandler) Register(c *gin.Context) {
	var request struct {
		Address string `json:"address" binding:"required"`
		Topic   string `json:"topic"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if request.Topic == "" {
		request.Topic = "products/update"
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if err := h.client.RegisterWebhook(ctx, request.Topic, request.Address); err != nil {
		h.logger.Error("Failed to register webhook: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register webhook"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Webhook registered successfully"})
}

func (h *WebhookHandler) publishUpdate(productID int64) {
	if h.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.publisher.Publish(ctx, events.TypeProductUpdated, productID); err != nil {
		h.logger.Warn("Failed to publish product event for %d: %v", productID, err)
	}
}
