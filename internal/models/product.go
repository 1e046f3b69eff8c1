package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is the persisted catalog record, keyed by the upstream
// product identifier. Rows are upserted wholesale; there is no
// deletion path, stale rows persist until overwritten.
type Product struct {
	ID           string           `json:"id" gorm:"type:uuid;primary_key"`
	ExternalID   int64            `json:"external_id" gorm:"uniqueIndex;not null"`
	Title        string           `json:"title" gorm:"not null"`
	Description  string           `json:"description"`
	Link         string           `json:"link"`
	Price        string           `json:"price"`
	Condition    string           `json:"condition"`
	Availability string           `json:"availability"`
	ImageLink    string           `json:"image_link"`
	SKU          string           `json:"sku"`
	ProductType  string           `json:"product_type"`
	Category     string           `json:"category"`
	Variants     []ProductVariant `json:"variants" gorm:"serializer:json"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ProductVariant is embedded in the product row as a JSON document.
type ProductVariant struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	SKU               string `json:"sku"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventory_quantity"`
	Availability      string `json:"availability"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// UpsertProduct writes a row keyed solely on ExternalID:
// write-if-absent-else-replace, no optimistic concurrency control.
func UpsertProduct(db *gorm.DB, row *Product) error {
	var existing Product
	err := db.Where("external_id = ?", row.ExternalID).First(&existing).Error

	if err == gorm.ErrRecordNotFound {
		return db.Create(row).Error
	}
	if err != nil {
		return err
	}

	row.ID = existing.ID
	row.CreatedAt = existing.CreatedAt
	return db.Save(row).Error
}
