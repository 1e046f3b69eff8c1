package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedgen/internal/models"
	"feedgen/internal/services/shopify"
)

func TestToStoreProduct(t *testing.T) {
	p := sampleProducts()[0]

	row := ToStoreProduct(p)

	assert.Equal(t, int64(101), row.ExternalID)
	assert.Equal(t, "Camisa polo azul", row.Title)
	assert.Equal(t, "159.90", row.Price, "product-level price comes from the first variant")
	assert.Equal(t, "SKU-P", row.SKU)
	assert.Equal(t, "in stock", row.Availability, "any in-stock variant makes the product available")

	require.Len(t, row.Variants, 2)
	assert.Equal(t, int64(1001), row.Variants[0].ID)
	assert.Equal(t, 4, row.Variants[0].InventoryQuantity)
}

func TestToStoreProductOutOfStock(t *testing.T) {
	p := sampleProducts()[0]
	for i := range p.Variants {
		p.Variants[i].InventoryQuantity = 0
		p.Variants[i].Availability = "out of stock"
	}

	row := ToStoreProduct(p)
	assert.Equal(t, "out of stock", row.Availability)
}

func TestNormalizeStoredFiltersInvalidRows(t *testing.T) {
	n := testNormalizer(Policy{})

	valid := ToStoreProduct(sampleProducts()[0])
	noImage := ToStoreProduct(sampleProducts()[1])
	noImage.ImageLink = ""
	noVariants := ToStoreProduct(sampleProducts()[1])
	noVariants.Variants = nil

	products := n.NormalizeStored([]models.Product{valid, noImage, noVariants})
	require.Len(t, products, 1)
	assert.Equal(t, int64(101), products[0].ID)
}

func TestNormalizeStoredAppliesVariantPolicy(t *testing.T) {
	row := ToStoreProduct(sampleProducts()[0])

	strict := testNormalizer(Policy{StrictInventory: true})
	products := strict.NormalizeStored([]models.Product{row})
	require.Len(t, products, 1)
	assert.Len(t, products[0].Variants, 1, "zero-inventory variant dropped under strict policy")
}

// Normalizing an already-normalized set must be a no-op: round-tripping
// through the store representation drops nothing and changes nothing.
func TestNormalizeIdempotence(t *testing.T) {
	n := testNormalizer(Policy{RequireDescription: true, RequireSKU: true})

	normalized := n.Normalize([]shopify.Product{activeProduct()})
	require.Len(t, normalized, 1)

	rows := make([]models.Product, 0, len(normalized))
	for _, p := range normalized {
		rows = append(rows, ToStoreProduct(p))
	}

	again := n.NormalizeStored(rows)
	require.Len(t, again, len(normalized))

	for i := range normalized {
		assert.Equal(t, normalized[i].ID, again[i].ID)
		assert.Equal(t, normalized[i].Description, again[i].Description)
		assert.Equal(t, normalized[i].Variants, again[i].Variants)
	}
}
