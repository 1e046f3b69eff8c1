package feed

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"feedgen/internal/logger"
	"feedgen/internal/services/shopify"
)

const defaultCondition = "new"

// Policy selects which eligibility checks apply. The predicates that
// always run: active status, non-empty image, non-empty title, valid
// non-negative variant price, non-negative inventory.
type Policy struct {
	// RequireDescription rejects products without a description.
	RequireDescription bool
	// RequireSKU rejects variants without a SKU.
	RequireSKU bool
	// StrictInventory keeps only variants with inventory on hand,
	// instead of keeping zero-inventory variants as "out of stock".
	StrictInventory bool
}

// Normalizer applies the eligibility policy to raw catalog records and
// derives the canonical feed fields. Normalize never mutates its
// input; derived records are fresh values.
type Normalizer struct {
	policy   Policy
	brand    string
	storeURL string
	logger   *logger.Logger
}

func NewNormalizer(policy Policy, brand, storeURL string, logger *logger.Logger) *Normalizer {
	return &Normalizer{
		policy:   policy,
		brand:    brand,
		storeURL: strings.TrimSuffix(storeURL, "/"),
		logger:   logger,
	}
}

// Normalize returns the eligible subset of products in their canonical
// form, in input order.
func (n *Normalizer) Normalize(products []shopify.Product) []Product {
	normalized := make([]Product, 0, len(products))
	for i := range products {
		p, ok := n.normalizeProduct(&products[i])
		if !ok {
			continue
		}
		normalized = append(normalized, p)
	}
	return normalized
}

func (n *Normalizer) normalizeProduct(src *shopify.Product) (Product, bool) {
	if src.Status != "active" {
		return Product{}, false
	}
	if src.Image == nil || strings.TrimSpace(src.Image.Src) == "" {
		return Product{}, false
	}
	if strings.TrimSpace(src.Title) == "" {
		return Product{}, false
	}
	if n.policy.RequireDescription && strings.TrimSpace(src.BodyHTML) == "" {
		return Product{}, false
	}

	variants := make([]Variant, 0, len(src.Variants))
	for i := range src.Variants {
		v, ok := n.normalizeVariant(&src.Variants[i])
		if !ok {
			continue
		}
		variants = append(variants, v)
	}
	if len(variants) == 0 {
		n.logger.Debug("Product %d has no sellable variants, dropping", src.ID)
		return Product{}, false
	}

	brand := src.Vendor
	if brand == "" {
		brand = n.brand
	}

	return Product{
		ID:          src.ID,
		Title:       src.Title,
		Description: StripHTML(src.BodyHTML),
		Link:        n.storeURL + "/products/" + src.Handle,
		ImageLink:   src.Image.Src,
		Brand:       brand,
		Condition:   defaultCondition,
		ProductType: src.ProductType,
		Variants:    variants,
	}, true
}

func (n *Normalizer) normalizeVariant(src *shopify.Variant) (Variant, bool) {
	price, err := strconv.ParseFloat(strings.TrimSpace(src.Price), 64)
	if err != nil || price < 0 {
		return Variant{}, false
	}
	if n.policy.RequireSKU && strings.TrimSpace(src.Sku) == "" {
		return Variant{}, false
	}
	if src.InventoryQuantity < 0 {
		return Variant{}, false
	}
	if n.policy.StrictInventory && src.InventoryQuantity == 0 {
		return Variant{}, false
	}

	return Variant{
		ID:                src.ID,
		Title:             src.Title,
		SKU:               src.Sku,
		Price:             strconv.FormatFloat(price, 'f', 2, 64),
		InventoryQuantity: src.InventoryQuantity,
		Availability:      availability(src.InventoryQuantity),
	}, true
}

func availability(quantity int) string {
	if quantity > 0 {
		return "in stock"
	}
	return "out of stock"
}

var (
	carriageReturns = regexp.MustCompile(`\r+`)
	repeatedLines   = regexp.MustCompile(`\n+`)
	repeatedSpaces  = regexp.MustCompile(`[ \t]{2,}`)
)

// StripHTML flattens an HTML description to plain text: tags removed,
// carriage returns dropped, repeated whitespace squeezed.
func StripHTML(raw string) string {
	if raw == "" {
		return ""
	}

	text := raw
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw)); err == nil {
		text = doc.Text()
	}

	text = carriageReturns.ReplaceAllString(text, "")
	text = repeatedLines.ReplaceAllString(text, "\n")
	text = repeatedSpaces.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
