package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropflow/product-importer/internal/models"
)

func TestExtractCdiscountProduct(t *testing.T) {
	registry := NewRegistry()

	doc := docFromHTML(t, `
		<html><body>
			<div data-sku="CD998877"></div>
			<h1 data-dtpc="title">Aspirateur Robot</h1>
			<span class="fpPrice">199,00 €</span>
			<div id="fpContent">Robot vacuum with mapping.</div>
			<div class="prdtBILMainImg"><img src="https://cdn.cdiscount.com/main.jpg"/></div>
			<div class="jsPrdtBILA"><img data-src="https://cdn.cdiscount.com/alt1.jpg"/></div>
			<div class="jsPrdtBILA"><img src="https://cdn.cdiscount.com/alt2.jpg"/></div>
		</body></html>`)

	record := registry.Extract(doc, "https://www.cdiscount.com/maison/f-117854601-asp.html")
	require.NotNil(t, record)

	assert.Equal(t, models.SourceCdiscount, record.Source)
	assert.Equal(t, "CD998877", record.ProductID)
	assert.Equal(t, "Aspirateur Robot", record.Title)
	assert.Equal(t, 199.0, record.Price)
	assert.Equal(t, []string{
		"https://cdn.cdiscount.com/main.jpg",
		"https://cdn.cdiscount.com/alt1.jpg",
		"https://cdn.cdiscount.com/alt2.jpg",
	}, record.Images)
	assert.True(t, record.ValidForImport())
}

func TestCdiscountMissingSKUReturnsNil(t *testing.T) {
	registry := NewRegistry()

	doc := docFromHTML(t, `
		<html><body>
			<h1 data-dtpc="title">Produit sans SKU</h1>
			<span class="fpPrice">10,00 €</span>
		</body></html>`)

	record := registry.Extract(doc, "https://www.cdiscount.com/maison/f-11700-x.html")
	assert.Nil(t, record)
}
