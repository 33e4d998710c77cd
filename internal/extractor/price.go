package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	priceStripRe = regexp.MustCompile(`[^\d.,]`)
	priceValueRe = regexp.MustCompile(`\d+\.?\d*|\.\d+`)
)

// ParsePrice normalizes marketplace price text to a numeric value.
// Everything but digits and separators is stripped and the first comma
// is treated as the decimal separator, so "45,99 €" and "45.99€" both
// come out as 45.99. Input with no parsable number yields 0.
func ParsePrice(text string) float64 {
	cleaned := priceStripRe.ReplaceAllString(text, "")
	cleaned = strings.Replace(cleaned, ",", ".", 1)

	match := priceValueRe.FindString(cleaned)
	if match == "" {
		return 0
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return value
}
