package shopify

import (
	"time"
)

// Product represents a Shopify product as returned by the Admin API.
type Product struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	BodyHTML    string     `json:"body_html"`
	Vendor      string     `json:"vendor"`
	ProductType string     `json:"product_type"`
	Handle      string     `json:"handle"`
	Status      string     `json:"status"`
	Tags        string     `json:"tags"`
	Variants    []Variant  `json:"variants"`
	Options     []Option   `json:"options"`
	Images      []Image    `json:"images"`
	Image       *Image     `json:"image"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at"`
}

// Variant represents a product variant. Price arrives as a decimal
// string; inventory may be zero or negative for stale upstream data.
type Variant struct {
	ID                int64   `json:"id"`
	ProductID         int64   `json:"product_id"`
	Title             string  `json:"title"`
	Price             string  `json:"price"`
	Sku               string  `json:"sku"`
	Position          int     `json:"position"`
	InventoryPolicy   string  `json:"inventory_policy"`
	CompareAtPrice    *string `json:"compare_at_price"`
	Option1           *string `json:"option1"`
	Option2           *string `json:"option2"`
	Option3           *string `json:"option3"`
	Taxable           bool    `json:"taxable"`
	Barcode           *string `json:"barcode"`
	Grams             int     `json:"grams"`
	Weight            float64 `json:"weight"`
	WeightUnit        string  `json:"weight_unit"`
	InventoryItemID   int64   `json:"inventory_item_id"`
	InventoryQuantity int     `json:"inventory_quantity"`
	RequiresShipping  bool    `json:"requires_shipping"`
}

// Image represents a product image.
type Image struct {
	ID         int64   `json:"id"`
	ProductID  int64   `json:"product_id"`
	Position   int     `json:"position"`
	Alt        *string `json:"alt"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Src        string  `json:"src"`
	VariantIDs []int64 `json:"variant_ids"`
}

// Option represents a product option.
type Option struct {
	ID        int64    `json:"id"`
	ProductID int64    `json:"product_id"`
	Name      string   `json:"name"`
	Position  int      `json:"position"`
	Values    []string `json:"values"`
}

// ProductsResponse represents one page of the products collection.
// NextURL carries the rel="next" URL from the Link response header,
// empty when the collection is exhausted.
type ProductsResponse struct {
	Products []Product `json:"products"`
	NextURL  string    `json:"-"`
}

// WebhookPayload represents a Shopify product webhook payload. It has
// the same shape as Product; kept separate so webhook parsing can
// evolve independently of the API types.
type WebhookPayload struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	BodyHTML    string     `json:"body_html"`
	Vendor      string     `json:"vendor"`
	ProductType string     `json:"product_type"`
	Handle      string     `json:"handle"`
	Status      string     `json:"status"`
	Tags        string     `json:"tags"`
	Variants    []Variant  `json:"variants"`
	Options     []Option   `json:"options"`
	Images      []Image    `json:"images"`
	Image       *Image     `json:"image"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at"`
}

// Product converts the payload into the API product shape.
func (w *WebhookPayload) Product() *Product {
	return &Product{
		ID:          w.ID,
		Title:       w.Title,
		BodyHTML:    w.BodyHTML,
		Vendor:      w.Vendor,
		ProductType: w.ProductType,
		Handle:      w.Handle,
		Status:      w.Status,
		Tags:        w.Tags,
		Variants:    w.Variants,
		Options:     w.Options,
		Images:      w.Images,
		Image:       w.Image,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
		PublishedAt: w.PublishedAt,
	}
}
