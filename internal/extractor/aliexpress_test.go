package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropflow/product-importer/internal/models"
)

func TestExtractAliExpressProduct(t *testing.T) {
	registry := NewRegistry()

	doc := docFromHTML(t, `
		<html><body>
			<h1 class="product-title-text">Test Watch</h1>
			<span class="product-price-value">€45,99</span>
			<div class="product-description">Waterproof smart watch with GPS.</div>
			<div class="images-view-item">
				<img src="https://ae01.alicdn.com/kf/watch_100x100.jpg"/>
			</div>
		</body></html>`)

	record := registry.Extract(doc, "https://www.aliexpress.com/item/123456789.html")
	require.NotNil(t, record)

	assert.Equal(t, models.SourceAliExpress, record.Source)
	assert.Equal(t, "123456789", record.ProductID)
	assert.Equal(t, "Test Watch", record.Title)
	assert.Equal(t, 45.99, record.Price)
	assert.Equal(t, "Waterproof smart watch with GPS.", record.Description)
	assert.Equal(t, []string{"https://ae01.alicdn.com/kf/watch.jpg"}, record.Images)
	assert.True(t, record.ValidForImport())
}

func TestAliExpressThumbnailRewrite(t *testing.T) {
	registry := NewRegistry()

	doc := docFromHTML(t, `
		<html><body>
			<h1 class="product-title-text">Gadget</h1>
			<div class="images-view-item"><img src="https://cdn.example.com/a_50x50xz.jpg"/></div>
			<div class="images-view-item"><img src="https://cdn.example.com/b.jpg"/></div>
			<div class="images-view-item"><img src="data:image/png;base64,AAAA"/></div>
		</body></html>`)

	record := registry.Extract(doc, "https://aliexpress.com/item/55.html")
	require.NotNil(t, record)

	// Sized thumbnails are rewritten, untouched URLs pass through, data
	// URIs are dropped.
	assert.Equal(t, []string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.jpg",
	}, record.Images)
}

func TestAliExpressMainImageFallback(t *testing.T) {
	registry := NewRegistry()

	doc := docFromHTML(t, `
		<html><body>
			<h1 class="product-title-text">Gadget</h1>
			<img class="magnifier-image" src="https://cdn.example.com/main.jpg"/>
		</body></html>`)

	record := registry.Extract(doc, "https://aliexpress.com/item/56.html")
	require.NotNil(t, record)
	assert.Equal(t, []string{"https://cdn.example.com/main.jpg"}, record.Images)
}

func TestAliExpressFallbackSelectors(t *testing.T) {
	registry := NewRegistry()

	doc := docFromHTML(t, `
		<html><body>
			<div class="title-content">Secondary Title</div>
			<div class="uniform-banner-box-price">12,00 €</div>
			<div class="detail-desc-decorate-richtext">Rich description.</div>
		</body></html>`)

	record := registry.Extract(doc, "https://aliexpress.com/item/57.html")
	require.NotNil(t, record)
	assert.Equal(t, "Secondary Title", record.Title)
	assert.Equal(t, 12.0, record.Price)
	assert.Equal(t, "Rich description.", record.Description)
}
