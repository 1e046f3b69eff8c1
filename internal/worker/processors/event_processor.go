package processors

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"feedgen/internal/config"
	"feedgen/internal/events"
	"feedgen/internal/feed"
	"feedgen/internal/logger"
	"feedgen/internal/models"
	"feedgen/internal/services/shopify"
)

// EventProcessor refreshes a single store row per product event by
// refetching the record from the upstream API and re-normalizing it.
type EventProcessor struct {
	config     *config.Config
	logger     *logger.Logger
	db         *gorm.DB
	client     *shopify.Client
	normalizer *feed.Normalizer
}

func NewEventProcessor(cfg *config.Config, logger *logger.Logger, db *gorm.DB) *EventProcessor {
	client := shopify.NewClient(cfg.ShopDomain, cfg.ShopifyAccessToken, cfg.ShopifyAPIVersion, logger)

	policy := feed.Policy{
		RequireDescription: cfg.FeedRequireDescription,
		RequireSKU:         cfg.FeedRequireSKU,
		StrictInventory:    cfg.FeedStrictInventory,
	}
	normalizer := feed.NewNormalizer(policy, cfg.StoreBrand, cfg.StoreURL, logger)

	return &EventProcessor{
		config:     cfg,
		logger:     logger,
		db:         db,
		client:     client,
		normalizer: normalizer,
	}
}

func (p *EventProcessor) Process(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.TypeProductCreated, events.TypeProductUpdated:
		return p.refreshProduct(ctx, event.ProductID)
	default:
		p.logger.Debug("Unhandled event type: %s", event.Type)
		return nil
	}
}

func (p *EventProcessor) refreshProduct(ctx context.Context, productID int64) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	product, err := p.client.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to fetch product %d: %w", productID, err)
	}

	normalized := p.normalizer.Normalize([]shopify.Product{*product})
	if len(normalized) == 0 {
		// Stale rows have no deletion path; the feed paths re-validate
		// stored rows on every read.
		p.logger.Info("Product %d no longer eligible, store row left as is", productID)
		return nil
	}

	row := feed.ToStoreProduct(normalized[0])
	if err := models.UpsertProduct(p.db, &row); err != nil {
		return fmt.Errorf("failed to upsert product %d: %w", productID, err)
	}

	p.logger.Debug("Refreshed product %d", productID)
	return nil
}
