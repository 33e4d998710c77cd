package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropflow/product-importer/internal/models"
)

func TestExtractBigBuyProduct(t *testing.T) {
	registry := NewRegistry()

	doc := docFromHTML(t, `
		<html><body>
			<div data-product-id="BB-8841"></div>
			<div class="product-name"><h1>LED Desk Lamp</h1></div>
			<div class="product-price"><span class="price">24,90 €</span></div>
			<div class="product-description">Dimmable LED lamp with USB charging.</div>
			<div class="product-image-gallery">
				<img src="https://cdn.bigbuy.eu/small1.jpg" data-zoom-image="https://cdn.bigbuy.eu/zoom1.jpg"/>
				<img src="https://cdn.bigbuy.eu/small2.jpg"/>
			</div>
		</body></html>`)

	record := registry.Extract(doc, "https://www.bigbuy.eu/en/product/led-desk-lamp")
	require.NotNil(t, record)

	assert.Equal(t, models.SourceBigBuy, record.Source)
	assert.Equal(t, "BB-8841", record.ProductID)
	assert.Equal(t, "LED Desk Lamp", record.Title)
	assert.Equal(t, 24.9, record.Price)
	// Zoom image preferred when present, src otherwise.
	assert.Equal(t, []string{
		"https://cdn.bigbuy.eu/zoom1.jpg",
		"https://cdn.bigbuy.eu/small2.jpg",
	}, record.Images)
	assert.True(t, record.ValidForImport())
}
