package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropflow/product-importer/internal/models"
)

func TestExtractAmazonProduct(t *testing.T) {
	registry := NewRegistry()

	doc := docFromHTML(t, `
		<html><body>
			<span id="productTitle"> Wireless Earbuds ANC </span>
			<span class="a-price"><span class="a-offscreen">$79.99</span></span>
			<div id="productDescription"><p>Premium earbuds with active noise cancelling.</p></div>
			<img id="landingImage" src="https://m.media-amazon.com/images/I/small.jpg"
				data-old-hires="https://m.media-amazon.com/images/I/large.jpg"/>
			<span class="imageThumbnail"><img src="https://m.media-amazon.com/images/I/thumb._AC_US40_.jpg"/></span>
		</body></html>`)

	record := registry.Extract(doc, "https://www.amazon.com/dp/B08N5KWB9H")
	require.NotNil(t, record)

	assert.Equal(t, models.SourceAmazon, record.Source)
	assert.Equal(t, "B08N5KWB9H", record.ProductID)
	assert.Equal(t, "Wireless Earbuds ANC", record.Title)
	assert.Equal(t, 79.99, record.Price)
	assert.Equal(t, "Premium earbuds with active noise cancelling.", record.Description)
	// Hi-res main image first, then the thumbnail with its size token
	// stripped.
	assert.Equal(t, []string{
		"https://m.media-amazon.com/images/I/large.jpg",
		"https://m.media-amazon.com/images/I/thumb.jpg",
	}, record.Images)
	assert.True(t, record.ValidForImport())
}

func TestAmazonMainImageTakesFirstPresentOnly(t *testing.T) {
	registry := NewRegistry()

	// Both candidates present: the landing image wins, the book cover
	// is never collected alongside it.
	doc := docFromHTML(t, `
		<html><body>
			<span id="productTitle">Novel</span>
			<img id="imgBlkFront" src="https://m.media-amazon.com/images/I/cover.jpg"/>
			<img id="landingImage" src="https://m.media-amazon.com/images/I/landing.jpg"/>
		</body></html>`)

	record := registry.Extract(doc, "https://www.amazon.com/dp/B000TSTBK0")
	require.NotNil(t, record)
	assert.Equal(t, []string{"https://m.media-amazon.com/images/I/landing.jpg"}, record.Images)

	// Book pages without a landing image fall back to the cover.
	doc = docFromHTML(t, `
		<html><body>
			<span id="productTitle">Novel</span>
			<img id="imgBlkFront" src="https://m.media-amazon.com/images/I/cover.jpg"/>
		</body></html>`)

	record = registry.Extract(doc, "https://www.amazon.fr/dp/2070360024")
	require.NotNil(t, record)
	assert.Equal(t, []string{"https://m.media-amazon.com/images/I/cover.jpg"}, record.Images)
}

func TestAmazonPriceFallbackSelectors(t *testing.T) {
	registry := NewRegistry()

	doc := docFromHTML(t, `
		<html><body>
			<span id="productTitle">Book</span>
			<span id="priceblock_dealprice">14,50 €</span>
		</body></html>`)

	record := registry.Extract(doc, "https://www.amazon.fr/dp/2070360024")
	require.NotNil(t, record)
	assert.Equal(t, 14.5, record.Price)
}

func TestAmazonFeatureBulletsDescriptionFallback(t *testing.T) {
	registry := NewRegistry()

	doc := docFromHTML(t, `
		<html><body>
			<span id="productTitle">Mixer</span>
			<div id="feature-bullets"><ul><li>500W motor</li></ul></div>
		</body></html>`)

	record := registry.Extract(doc, "https://www.amazon.com/dp/B01MIXER00")
	require.NotNil(t, record)
	assert.Contains(t, record.Description, "500W motor")
}
