package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// RenderIndex writes a sitemap-style index for paginated feed
// delivery, one locator per page.
func RenderIndex(baseURL string, totalPages int) string {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	buf.WriteString("\n")

	for page := 1; page <= totalPages; page++ {
		buf.WriteString("  <sitemap>\n    <loc>")
		xml.EscapeText(&buf, []byte(fmt.Sprintf("%s?page=%d", baseURL, page)))
		buf.WriteString("</loc>\n  </sitemap>\n")
	}

	buf.WriteString("</sitemapindex>")

	return buf.String()
}
