package models

import (
	"time"
)

// Source identifies the marketplace a product record was extracted from.
type Source string

const (
	SourceAliExpress Source = "aliexpress"
	SourceBigBuy     Source = "bigbuy"
	SourceAmazon     Source = "amazon"
	SourceCdiscount  Source = "cdiscount"
)

// ProductRecord is the normalized product unit produced by extraction.
// Field misses during extraction leave zero values; only ValidForImport
// records may be handed to the import transport.
type ProductRecord struct {
	Source      Source    `json:"source" validate:"required"`
	URL         string    `json:"url" validate:"required,url"`
	ProductID   string    `json:"product_id" validate:"required"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	Timestamp   time.Time `json:"timestamp"`
}

// ValidForImport reports whether the record carries everything the
// account service requires. Invalid records are surfaced to the user
// for manual retry instead of being submitted.
func (p *ProductRecord) ValidForImport() bool {
	return p.Source != "" &&
		p.URL != "" &&
		p.ProductID != "" &&
		p.Title != "" &&
		p.Price > 0 &&
		len(p.Images) > 0
}

// MissingFields lists the required fields a record lacks, for user-facing
// validation messages.
func (p *ProductRecord) MissingFields() []string {
	var missing []string
	if p.Source == "" {
		missing = append(missing, "source")
	}
	if p.URL == "" {
		missing = append(missing, "url")
	}
	if p.ProductID == "" {
		missing = append(missing, "product_id")
	}
	if p.Title == "" {
		missing = append(missing, "title")
	}
	if p.Price <= 0 {
		missing = append(missing, "price")
	}
	if len(p.Images) == 0 {
		missing = append(missing, "images")
	}
	return missing
}
