package extractor

import (
	"strings"

	"github.com/dropflow/product-importer/internal/models"
)

// Cdiscount listing pages (f- paths). The SKU lives in a data attribute
// and gallery thumbnails lazy-load through data-src.
var cdiscountSpec = &sourceSpec{
	source: models.SourceCdiscount,
	match: func(rawURL string) bool {
		return strings.Contains(rawURL, "cdiscount.com/") && strings.Contains(rawURL, "/f-")
	},
	id: idRule{
		attrSelector: "[data-sku]",
		attrName:     "data-sku",
	},
	title:       []string{`h1[data-dtpc="title"]`},
	price:       []string{".fpPrice"},
	description: []string{"#fpContent"},
	images: []imageRule{
		{
			selector: ".prdtBILMainImg img",
			srcAttrs: []string{"src"},
		},
		{
			selector: ".jsPrdtBILA img",
			srcAttrs: []string{"data-src", "src"},
		},
	},
}
