package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"feedgen/internal/database"
	"feedgen/internal/logger"
	"feedgen/internal/models"
)

func testDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	db, err := database.New(fmt.Sprintf("sqlite://file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db.DB
}

func webhookRouter(h *WebhookHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/webhooks/shopify", h.Receive)
	return router
}

func postWebhook(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/webhooks/shopify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Topic", "products/update")
	router.ServeHTTP(w, req)
	return w
}

const webhookBody = `{
	"id": 101,
	"title": "CAMISA POLO AZUL",
	"body_html": "<p>Polo de algodao.</p>",
	"product_type": "CAMISAS",
	"handle": "camisa-polo-azul",
	"status": "active",
	"image": {"src": "https://cdn.example.com/camisa.jpg"},
	"variants": [
		{"id": 1001, "title": "P", "price": "159.90", "sku": "SKU-P", "inventory_quantity": 4}
	]
}`

func TestWebhookRejectsInvalidPayload(t *testing.T) {
	h := NewWebhookHandler(nil, logger.New("error"), testConfig(), nil, nil)
	router := webhookRouter(h)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"id": `},
		{"missing id", `{"title": "Produto"}`},
		{"zero id", `{"id": 0, "title": "Produto"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postWebhook(router, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "Invalid webhook payload")
		})
	}
}

func TestWebhookUpsertsProduct(t *testing.T) {
	db := testDB(t, "webhook_upsert")
	h := NewWebhookHandler(db, logger.New("error"), testConfig(), nil, nil)
	router := webhookRouter(h)

	w := postWebhook(router, webhookBody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Webhook processed successfully")

	var row models.Product
	require.NoError(t, db.Where("external_id = ?", int64(101)).First(&row).Error)
	assert.Equal(t, "CAMISA POLO AZUL", row.Title)
	assert.Equal(t, "159.90", row.Price)
	assert.Equal(t, "SKU-P", row.SKU)
	assert.Equal(t, "in stock", row.Availability)
	assert.Equal(t, "https://www.example.com/products/camisa-polo-azul", row.Link)
}

func TestWebhookReplacesExistingRow(t *testing.T) {
	db := testDB(t, "webhook_replace")
	h := NewWebhookHandler(db, logger.New("error"), testConfig(), nil, nil)
	router := webhookRouter(h)

	require.Equal(t, http.StatusOK, postWebhook(router, webhookBody).Code)

	updated := strings.Replace(webhookBody, `"inventory_quantity": 4`, `"inventory_quantity": 0`, 1)
	updated = strings.Replace(updated, `"price": "159.90"`, `"price": "149.90"`, 1)
	require.Equal(t, http.StatusOK, postWebhook(router, updated).Code)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Where("external_id = ?", int64(101)).Count(&count).Error)
	assert.Equal(t, int64(1), count, "redelivery must replace the row, not duplicate it")

	var row models.Product
	require.NoError(t, db.Where("external_id = ?", int64(101)).First(&row).Error)
	assert.Equal(t, "149.90", row.Price)
	assert.Equal(t, "out of stock", row.Availability)
}

func TestWebhookSkipsIneligibleProduct(t *testing.T) {
	db := testDB(t, "webhook_skip")
	h := NewWebhookHandler(db, logger.New("error"), testConfig(), nil, nil)
	router := webhookRouter(h)

	archived := strings.Replace(webhookBody, `"status": "active"`, `"status": "archived"`, 1)
	w := postWebhook(router, archived)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "skipped")

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
