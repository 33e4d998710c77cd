package extractor

import (
	"strings"

	"github.com/dropflow/product-importer/internal/models"
)

// BigBuy exposes the listing ID as a data attribute rather than in the
// URL. Zoom images are preferred over the displayed thumbnails.
var bigBuySpec = &sourceSpec{
	source: models.SourceBigBuy,
	match: func(rawURL string) bool {
		return strings.Contains(rawURL, "bigbuy.eu") && strings.Contains(rawURL, "/product/")
	},
	id: idRule{
		attrSelector: "[data-product-id]",
		attrName:     "data-product-id",
	},
	title:       []string{".product-name h1"},
	price:       []string{".product-price .price"},
	description: []string{".product-description"},
	images: []imageRule{
		{
			selector: ".product-image-gallery img",
			srcAttrs: []string{"data-zoom-image", "src"},
		},
	},
}
