package feed

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProducts() []Product {
	return []Product{
		{
			ID:          101,
			Title:       "Camisa polo azul",
			Description: "Polo de algodão.",
			Link:        "https://www.example.com/products/camisa-polo-azul",
			ImageLink:   "https://cdn.example.com/camisa.jpg",
			Brand:       "Test Brand",
			Condition:   "new",
			ProductType: "CAMISAS",
			Variants: []Variant{
				{ID: 1001, Title: "P", SKU: "SKU-P", Price: "159.90", InventoryQuantity: 4, Availability: "in stock"},
				{ID: 1002, Title: "M", SKU: "SKU-M", Price: "159.90", InventoryQuantity: 0, Availability: "out of stock"},
			},
		},
		{
			ID:          102,
			Title:       "Bermuda jeans",
			Description: "Bermuda clássica.",
			Link:        "https://www.example.com/products/bermuda-jeans",
			ImageLink:   "https://cdn.example.com/bermuda.jpg",
			Brand:       "Test Brand",
			Condition:   "new",
			ProductType: "BERMUDAS",
			Variants: []Variant{
				{ID: 2001, Title: "38", SKU: "SKU-38", Price: "99.00", InventoryQuantity: 1, Availability: "in stock"},
			},
		},
	}
}

func testChannel() Channel {
	return Channel{
		Title:       "Test Feed",
		Link:        "https://www.example.com",
		Description: "Test feed description",
	}
}

func TestEntriesCardinality(t *testing.T) {
	g := NewGenerator("BRL")

	products := sampleProducts()
	entries := g.Entries(products)

	total := 0
	for _, p := range products {
		total += len(p.Variants)
	}
	assert.Len(t, entries, total, "one entry per eligible variant")
}

func TestEntriesCompositeIDAndPrice(t *testing.T) {
	g := NewGenerator("BRL")

	entries := g.Entries(sampleProducts())
	require.Len(t, entries, 3)

	assert.Equal(t, "101-1001", entries[0].ID)
	assert.Equal(t, "101-1002", entries[1].ID)
	assert.Equal(t, "102-2001", entries[2].ID)
	assert.Equal(t, "159.90 BRL", entries[0].Price)
	assert.Equal(t, "99.00 BRL", entries[2].Price)
}

func TestEntriesDefaults(t *testing.T) {
	g := NewGenerator("BRL")

	p := sampleProducts()[0]
	p.Title = ""
	p.Description = ""
	p.ProductType = ""

	entries := g.Entries([]Product{p})
	require.NotEmpty(t, entries)
	assert.Equal(t, "No Title Available", entries[0].Title)
	assert.Equal(t, "No Description Available", entries[0].Description)
	assert.Equal(t, "Uncategorized", entries[0].ProductType)
}

func TestEntriesSentenceCasesTitle(t *testing.T) {
	g := NewGenerator("BRL")

	p := sampleProducts()[0]
	p.Title = "CAMISA POLO AZUL"

	entries := g.Entries([]Product{p})
	require.NotEmpty(t, entries)
	assert.Equal(t, "Camisa polo azul", entries[0].Title)
}

func TestRenderStructure(t *testing.T) {
	g := NewGenerator("BRL")

	doc := g.Render(testChannel(), g.Entries(sampleProducts()))

	if !strings.Contains(doc, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Error("feed should contain XML declaration")
	}
	if !strings.Contains(doc, `<rss version="2.0" xmlns:g="http://base.google.com/ns/1.0"`) {
		t.Error("feed should declare the Google namespace on the rss element")
	}
	if !strings.Contains(doc, "<title>Test Feed</title>") {
		t.Error("feed should contain the channel title")
	}
	if !strings.Contains(doc, "<link>https://www.example.com</link>") {
		t.Error("feed should contain the channel link")
	}
	if !strings.Contains(doc, "<g:id>101-1001</g:id>") {
		t.Error("feed should contain the composite entry ID")
	}
	if !strings.Contains(doc, "<g:price>159.90 BRL</g:price>") {
		t.Error("feed should contain the formatted price")
	}
	if !strings.Contains(doc, "<g:availability>out of stock</g:availability>") {
		t.Error("feed should carry availability per variant")
	}
	if !strings.Contains(doc, "<g:identifier_exists>FALSE</g:identifier_exists>") {
		t.Error("feed entries should flag missing canonical identifiers")
	}

	assert.Equal(t, 3, strings.Count(doc, "<item>"))
}

func TestRenderOmitsEmptyCategory(t *testing.T) {
	g := NewGenerator("BRL")

	doc := g.Render(testChannel(), g.Entries(sampleProducts()))
	assert.NotContains(t, doc, "<g:google_product_category>")

	p := sampleProducts()[0]
	p.Category = "Apparel & Accessories > Clothing"
	doc = g.Render(testChannel(), g.Entries([]Product{p}))
	assert.Contains(t, doc, "<g:google_product_category>Apparel &amp; Accessories &gt; Clothing</g:google_product_category>")
}

func TestRenderIsWellFormedXML(t *testing.T) {
	g := NewGenerator("BRL")

	p := sampleProducts()[0]
	p.Title = `R&d <"special"> 'edition'`
	p.Description = `5 < 6 & 7 > 2, "so" it's fine`

	doc := g.Render(testChannel(), g.Entries([]Product{p}))

	var parsed struct {
		XMLName xml.Name `xml:"rss"`
	}
	require.NoError(t, xml.Unmarshal([]byte(doc), &parsed), "reserved characters must not break well-formedness")
}

func TestEscapingRoundTrip(t *testing.T) {
	g := NewGenerator("BRL")

	p := sampleProducts()[1]
	p.Title = `R&d <"special"> 'edition'`
	p.Description = `5 < 6 & 7 > 2, "so" it's fine`

	doc := g.Render(testChannel(), g.Entries([]Product{p}))

	_, entries, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, `R&d <"special"> 'edition'`, entries[0].Title)
	assert.Equal(t, `5 < 6 & 7 > 2, "so" it's fine`, entries[0].Description)
}

func TestRenderIndex(t *testing.T) {
	doc := RenderIndex("https://www.example.com/api/v1/feed/pages", 3)

	if !strings.Contains(doc, `<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`) {
		t.Error("index should declare the sitemap namespace")
	}

	assert.Equal(t, 3, strings.Count(doc, "<sitemap>"))
	assert.Contains(t, doc, "<loc>https://www.example.com/api/v1/feed/pages?page=1</loc>")
	assert.Contains(t, doc, "<loc>https://www.example.com/api/v1/feed/pages?page=3</loc>")
	assert.NotContains(t, doc, "?page=4")
}

func TestRenderIndexEmpty(t *testing.T) {
	doc := RenderIndex("https://www.example.com/api/v1/feed/pages", 0)
	assert.NotContains(t, doc, "<sitemap>")
}
