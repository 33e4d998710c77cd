package extractor

import (
	"regexp"
	"strings"

	"github.com/dropflow/product-importer/internal/models"
)

// AliExpress item pages carry the listing ID in the URL path. Gallery
// thumbnails are served with a size suffix (e.g. thumb_100x100.jpg)
// that is rewritten to the full-size variant.
var aliExpressSpec = &sourceSpec{
	source: models.SourceAliExpress,
	match: func(rawURL string) bool {
		return strings.Contains(rawURL, "aliexpress.com/item/")
	},
	id: idRule{
		urlPattern: regexp.MustCompile(`/item/(\d+)\.html`),
	},
	title:       []string{".product-title-text", ".title-content"},
	price:       []string{".product-price-value", ".uniform-banner-box-price"},
	description: []string{".product-description", ".detail-desc-decorate-richtext"},
	images: []imageRule{
		{
			selector: ".images-view-item img",
			srcAttrs: []string{"src"},
			rewrite: &rewriteRule{
				pattern: regexp.MustCompile(`_\d+x\d+.*\.jpg`),
				replace: ".jpg",
			},
		},
	},
	imageFallback: &imageRule{
		selector: ".magnifier-image",
		srcAttrs: []string{"src"},
	},
}
