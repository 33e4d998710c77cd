package extractor

import (
	"regexp"
	"strings"

	"github.com/dropflow/product-importer/internal/models"
)

// Amazon dp pages (two regional domains). The landing image exposes a
// hi-res variant via data-old-hires; thumbnail strip URLs embed a size
// token between "._" and "_." that is dropped for the full-size image.
var amazonSpec = &sourceSpec{
	source: models.SourceAmazon,
	match: func(rawURL string) bool {
		if !strings.Contains(rawURL, "amazon.com/") && !strings.Contains(rawURL, "amazon.fr/") {
			return false
		}
		return strings.Contains(rawURL, "/dp/")
	},
	id: idRule{
		urlPattern: regexp.MustCompile(`/dp/([A-Z0-9]{10})`),
	},
	title: []string{"#productTitle"},
	price: []string{
		".a-price .a-offscreen",
		"#priceblock_ourprice",
		"#priceblock_dealprice",
	},
	description: []string{"#productDescription p", "#feature-bullets"},
	images: []imageRule{
		{
			// Main image: landing image preferred, book cover as the
			// alternative, never both.
			firstOf:  []string{"#landingImage", "#imgBlkFront"},
			srcAttrs: []string{"data-old-hires", "src"},
		},
		{
			selector: ".imageThumbnail img",
			srcAttrs: []string{"src"},
			rewrite: &rewriteRule{
				pattern: regexp.MustCompile(`\._.*_\.`),
				replace: ".",
			},
		},
	},
}
