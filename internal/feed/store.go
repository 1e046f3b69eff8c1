package feed

import (
	"strconv"
	"strings"

	"feedgen/internal/models"
)

// ToStoreProduct maps a normalized product onto the persisted catalog
// row. Store writes always pass through the normalizer first, so the
// stored shape and the rendered feed derive from the same policy.
func ToStoreProduct(p Product) models.Product {
	variants := make([]models.ProductVariant, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, models.ProductVariant{
			ID:                v.ID,
			Title:             v.Title,
			SKU:               v.SKU,
			Price:             v.Price,
			InventoryQuantity: v.InventoryQuantity,
			Availability:      v.Availability,
		})
	}

	row := models.Product{
		ExternalID:  p.ID,
		Title:       p.Title,
		Description: p.Description,
		Link:        p.Link,
		Condition:   p.Condition,
		ImageLink:   p.ImageLink,
		ProductType: p.ProductType,
		Category:    p.Category,
		Variants:    variants,
	}

	if len(p.Variants) > 0 {
		row.Price = p.Variants[0].Price
		row.SKU = p.Variants[0].SKU
	}
	row.Availability = availability(maxQuantity(p.Variants))

	return row
}

// NormalizeStored re-validates persisted rows against the variant
// policy and converts the survivors back into feed products. Stored
// rows were eligible when written, but the policy may have changed
// since, and stale rows have no deletion path.
func (n *Normalizer) NormalizeStored(rows []models.Product) []Product {
	products := make([]Product, 0, len(rows))
	for i := range rows {
		p, ok := n.normalizeStoredRow(&rows[i])
		if !ok {
			continue
		}
		products = append(products, p)
	}
	return products
}

func (n *Normalizer) normalizeStoredRow(row *models.Product) (Product, bool) {
	if strings.TrimSpace(row.ImageLink) == "" || strings.TrimSpace(row.Title) == "" {
		return Product{}, false
	}
	if n.policy.RequireDescription && strings.TrimSpace(row.Description) == "" {
		return Product{}, false
	}

	variants := make([]Variant, 0, len(row.Variants))
	for _, v := range row.Variants {
		price, err := strconv.ParseFloat(strings.TrimSpace(v.Price), 64)
		if err != nil || price < 0 {
			continue
		}
		if n.policy.RequireSKU && strings.TrimSpace(v.SKU) == "" {
			continue
		}
		if v.InventoryQuantity < 0 {
			continue
		}
		if n.policy.StrictInventory && v.InventoryQuantity == 0 {
			continue
		}
		variants = append(variants, Variant{
			ID:                v.ID,
			Title:             v.Title,
			SKU:               v.SKU,
			Price:             strconv.FormatFloat(price, 'f', 2, 64),
			InventoryQuantity: v.InventoryQuantity,
			Availability:      availability(v.InventoryQuantity),
		})
	}
	if len(variants) == 0 {
		return Product{}, false
	}

	brand := n.brand
	condition := row.Condition
	if condition == "" {
		condition = defaultCondition
	}

	return Product{
		ID:          row.ExternalID,
		Title:       row.Title,
		Description: StripHTML(row.Description),
		Link:        row.Link,
		ImageLink:   row.ImageLink,
		Brand:       brand,
		Condition:   condition,
		ProductType: row.ProductType,
		Category:    row.Category,
		Variants:    variants,
	}, true
}

func maxQuantity(variants []Variant) int {
	max := 0
	for _, v := range variants {
		if v.InventoryQuantity > max {
			max = v.InventoryQuantity
		}
	}
	return max
}
