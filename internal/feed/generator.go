package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const googleNamespace = "http://base.google.com/ns/1.0"

// Generator renders the Google Shopping RSS document. Each eligible
// variant becomes its own item, keyed by "{productID}-{variantID}".
type Generator struct {
	currency string
}

func NewGenerator(currency string) *Generator {
	return &Generator{currency: currency}
}

// Entries flattens normalized products into feed entries, one per
// variant.
func (g *Generator) Entries(products []Product) []Entry {
	var entries []Entry
	for _, p := range products {
		for _, v := range p.Variants {
			entries = append(entries, g.entry(p, v))
		}
	}
	return entries
}

func (g *Generator) entry(p Product, v Variant) Entry {
	title := sentenceCase(p.Title)
	if title == "" {
		title = "No Title Available"
	}
	description := p.Description
	if description == "" {
		description = "No Description Available"
	}
	productType := p.ProductType
	if productType == "" {
		productType = "Uncategorized"
	}

	return Entry{
		ID:               fmt.Sprintf("%d-%d", p.ID, v.ID),
		Title:            title,
		Description:      description,
		Link:             p.Link,
		ImageLink:        p.ImageLink,
		Price:            fmt.Sprintf("%s %s", v.Price, g.currency),
		Condition:        p.Condition,
		Availability:     v.Availability,
		Category:         p.Category,
		SKU:              v.SKU,
		Brand:            p.Brand,
		ProductType:      productType,
		IdentifierExists: "FALSE",
	}
}

// Render writes the complete feed document. Every text node goes
// through xml.EscapeText, so reserved markup characters in upstream
// content cannot break well-formedness.
func (g *Generator) Render(channel Channel, entries []Entry) string {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:g="` + googleNamespace + `" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	writeElement(&buf, "title", channel.Title, 4)
	writeElement(&buf, "description", channel.Description, 4)
	writeElement(&buf, "link", channel.Link, 4)

	for _, entry := range entries {
		g.writeEntry(&buf, entry)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String()
}

func (g *Generator) writeEntry(buf *bytes.Buffer, entry Entry) {
	buf.WriteString("    <item>\n")

	writeElement(buf, "g:id", entry.ID, 6)
	writeElement(buf, "g:title", entry.Title, 6)
	writeElement(buf, "title", entry.Title, 6)
	writeElement(buf, "description", entry.Description, 6)
	writeElement(buf, "link", entry.Link, 6)
	writeElement(buf, "g:price", entry.Price, 6)
	writeElement(buf, "g:condition", entry.Condition, 6)
	writeElement(buf, "g:availability", entry.Availability, 6)
	writeElement(buf, "g:image_link", entry.ImageLink, 6)
	if entry.Category != "" {
		writeElement(buf, "g:google_product_category", entry.Category, 6)
	}
	writeElement(buf, "g:sku", entry.SKU, 6)
	writeElement(buf, "g:brand", entry.Brand, 6)
	writeElement(buf, "g:product_type", entry.ProductType, 6)
	writeElement(buf, "g:identifier_exists", entry.IdentifierExists, 6)

	buf.WriteString("    </item>\n")
}

func writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func sentenceCase(s string) string {
	if s == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}
