package feed

import (
	"encoding/xml"
	"fmt"
	"strings"

	"feedgen/internal/logger"
)

// Repairer is the post-render verifier: it parses a rendered feed
// back into entries, drops any entry missing an image link or title,
// and re-serializes. The renderer is expected to never produce such
// entries; every drop is logged as a defect upstream.
type Repairer struct {
	generator *Generator
	logger    *logger.Logger
}

func NewRepairer(generator *Generator, logger *logger.Logger) *Repairer {
	return &Repairer{
		generator: generator,
		logger:    logger,
	}
}

// Repair returns the document with structurally invalid entries
// removed. A document that does not parse is a fatal error for the
// request.
func (r *Repairer) Repair(doc string) (string, error) {
	channel, entries, err := Parse(doc)
	if err != nil {
		return "", err
	}

	kept := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.ImageLink) == "" || strings.TrimSpace(entry.Title) == "" {
			r.logger.Warn("Dropping malformed feed entry %q (missing image link or title)", entry.ID)
			continue
		}
		kept = append(kept, entry)
	}

	return r.generator.Render(channel, kept), nil
}

// Namespaced fields are declared before the plain ones so the decoder
// matches <g:title> before the namespace-less <title> rule can.
type parsedItem struct {
	GID          string `xml:"http://base.google.com/ns/1.0 id"`
	GTitle       string `xml:"http://base.google.com/ns/1.0 title"`
	Price        string `xml:"http://base.google.com/ns/1.0 price"`
	Condition    string `xml:"http://base.google.com/ns/1.0 condition"`
	Availability string `xml:"http://base.google.com/ns/1.0 availability"`
	ImageLink    string `xml:"http://base.google.com/ns/1.0 image_link"`
	Category     string `xml:"http://base.google.com/ns/1.0 google_product_category"`
	SKU          string `xml:"http://base.google.com/ns/1.0 sku"`
	Brand        string `xml:"http://base.google.com/ns/1.0 brand"`
	ProductType  string `xml:"http://base.google.com/ns/1.0 product_type"`
	Identifier   string `xml:"http://base.google.com/ns/1.0 identifier_exists"`
	Description  string `xml:"description"`
	Link         string `xml:"link"`
}

type parsedChannel struct {
	Title       string       `xml:"title"`
	Description string       `xml:"description"`
	Link        string       `xml:"link"`
	Items       []parsedItem `xml:"item"`
}

type parsedDoc struct {
	XMLName xml.Name      `xml:"rss"`
	Channel parsedChannel `xml:"channel"`
}

// Parse decodes a rendered feed document back into its structural
// form.
func Parse(doc string) (Channel, []Entry, error) {
	var parsed parsedDoc
	if err := xml.Unmarshal([]byte(doc), &parsed); err != nil {
		return Channel{}, nil, fmt.Errorf("failed to parse feed document: %w", err)
	}

	channel := Channel{
		Title:       parsed.Channel.Title,
		Link:        parsed.Channel.Link,
		Description: parsed.Channel.Description,
	}

	entries := make([]Entry, 0, len(parsed.Channel.Items))
	for _, item := range parsed.Channel.Items {
		entries = append(entries, Entry{
			ID:               item.GID,
			Title:            item.GTitle,
			Description:      item.Description,
			Link:             item.Link,
			ImageLink:        item.ImageLink,
			Price:            item.Price,
			Condition:        item.Condition,
			Availability:     item.Availability,
			Category:         item.Category,
			SKU:              item.SKU,
			Brand:            item.Brand,
			ProductType:      item.ProductType,
			IdentifierExists: item.Identifier,
		})
	}

	return channel, entries, nil
}
