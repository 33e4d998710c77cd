package extractor

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{name: "comma decimal with currency suffix", input: "45,99 €", expected: 45.99},
		{name: "dot decimal with currency suffix", input: "45.99€", expected: 45.99},
		{name: "currency prefix", input: "€45,99", expected: 45.99},
		{name: "dollar prefix", input: "$79.99", expected: 79.99},
		{name: "plain integer", input: "120", expected: 120},
		{name: "no digits", input: "€ --", expected: 0},
		{name: "empty string", input: "", expected: 0},
		{name: "whitespace around value", input: "  12,50  ", expected: 12.5},
		{name: "thousands separator keeps leading value", input: "1.234,56 €", expected: 1.234},
		{name: "bare fractional part", input: "€.99", expected: 0.99},
		{name: "bare comma fraction", input: ",99 €", expected: 0.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParsePrice(tt.input))
		})
	}
}

func TestParsePriceIdempotent(t *testing.T) {
	inputs := []string{"45,99 €", "45.99€", "120", "no price"}

	for _, input := range inputs {
		first := ParsePrice(input)
		second := ParsePrice(strconv.FormatFloat(first, 'f', -1, 64))
		assert.Equal(t, first, second, "re-parsing the normalized value of %q changed it", input)
	}
}
