package extractor

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dropflow/product-importer/internal/models"
)

// idRule resolves the stable per-listing identifier, either from the
// page URL or from a DOM data attribute. A record without an ID is
// meaningless for dedup and import, so extraction fails when no rule
// yields one.
type idRule struct {
	urlPattern   *regexp.Regexp // first capture group wins
	attrSelector string
	attrName     string
}

func (r idRule) resolve(doc *goquery.Document, rawURL string) string {
	if r.urlPattern != nil {
		if m := r.urlPattern.FindStringSubmatch(rawURL); len(m) > 1 {
			return m[1]
		}
	}
	if r.attrSelector != "" {
		if v, ok := doc.Find(r.attrSelector).First().Attr(r.attrName); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

type rewriteRule struct {
	pattern *regexp.Regexp
	replace string
}

// imageRule gathers candidate image URLs. A rule either collects every
// element matching selector, or, when firstOf is set, yields a single
// image from the first of those selectors carrying a usable source.
// Attributes are tried in declared order per element; inline data URIs
// are skipped. An optional rewrite maps thumbnail URLs to their
// full-size variants.
type imageRule struct {
	selector string
	firstOf  []string
	srcAttrs []string
	rewrite  *rewriteRule
}

func (g imageRule) collect(doc *goquery.Document) []string {
	if len(g.firstOf) > 0 {
		for _, sel := range g.firstOf {
			if src := g.sourceOf(doc.Find(sel).First()); src != "" {
				return []string{src}
			}
		}
		return nil
	}

	var images []string
	doc.Find(g.selector).Each(func(_ int, s *goquery.Selection) {
		if src := g.sourceOf(s); src != "" {
			images = append(images, src)
		}
	})
	return images
}

func (g imageRule) sourceOf(s *goquery.Selection) string {
	var src string
	for _, attr := range g.srcAttrs {
		if v, ok := s.Attr(attr); ok && v != "" {
			src = v
			break
		}
	}
	if src == "" || strings.HasPrefix(src, "data:") {
		return ""
	}
	if g.rewrite != nil {
		src = g.rewrite.pattern.ReplaceAllString(src, g.rewrite.replace)
	}
	return src
}

// sourceSpec is the declarative selector table for one marketplace.
// Selector lists are tried strictly in order; the first structurally
// present match wins even when its text is empty.
type sourceSpec struct {
	source      models.Source
	match       func(rawURL string) bool
	id          idRule
	title       []string
	price       []string
	description []string
	images      []imageRule
	// imageFallback runs only when the image rules yield nothing.
	imageFallback *imageRule
}

// Registry holds the site extractors in fixed priority order. Only the
// first spec matching a URL ever runs.
type Registry struct {
	specs  []*sourceSpec
	logger *slog.Logger
}

func NewRegistry() *Registry {
	return &Registry{
		specs: []*sourceSpec{
			aliExpressSpec,
			bigBuySpec,
			amazonSpec,
			cdiscountSpec,
		},
		logger: slog.Default().With("component", "extractor"),
	}
}

func (r *Registry) specFor(rawURL string) *sourceSpec {
	for _, spec := range r.specs {
		if spec.match(rawURL) {
			return spec
		}
	}
	return nil
}

// Supported reports whether any extractor claims the URL.
func (r *Registry) Supported(rawURL string) bool {
	return r.specFor(rawURL) != nil
}

// Sources lists the supported marketplaces in priority order.
func (r *Registry) Sources() []models.Source {
	sources := make([]models.Source, 0, len(r.specs))
	for _, spec := range r.specs {
		sources = append(sources, spec.source)
	}
	return sources
}

// Source returns the marketplace claiming the URL, if any.
func (r *Registry) Source(rawURL string) (models.Source, bool) {
	spec := r.specFor(rawURL)
	if spec == nil {
		return "", false
	}
	return spec.source, true
}

// Extract runs the extractor matching the URL against the loaded
// document. It returns nil for unsupported URLs and for pages where no
// product ID can be resolved; individual field misses degrade to zero
// values instead of failing the extraction.
func (r *Registry) Extract(doc *goquery.Document, rawURL string) *models.ProductRecord {
	spec := r.specFor(rawURL)
	if spec == nil {
		return nil
	}

	id := spec.id.resolve(doc, rawURL)
	if id == "" {
		r.logger.Debug("no product id found", "source", spec.source, "url", rawURL)
		return nil
	}

	title, _ := firstText(doc, spec.title)
	priceText, _ := firstText(doc, spec.price)
	description, _ := firstText(doc, spec.description)

	var images []string
	for _, rule := range spec.images {
		images = append(images, rule.collect(doc)...)
	}
	if len(images) == 0 && spec.imageFallback != nil {
		images = spec.imageFallback.collect(doc)
	}

	return &models.ProductRecord{
		Source:      spec.source,
		URL:         rawURL,
		ProductID:   id,
		Title:       title,
		Price:       ParsePrice(priceText),
		Description: description,
		Images:      images,
		Timestamp:   time.Now(),
	}
}

// firstText returns the trimmed text of the first selector that is
// structurally present in the document. Presence wins over content: an
// empty-but-present element stops the fallback chain.
func firstText(doc *goquery.Document, selectors []string) (string, bool) {
	for _, sel := range selectors {
		if s := doc.Find(sel); s.Length() > 0 {
			return strings.TrimSpace(s.First().Text()), true
		}
	}
	return "", false
}
