package vinted

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// NormalizePrice turns marketplace price text into a number.
// Examples:
//
//	"24,50 €"  → 24.5
//	"€ 12"     → 12
//	"1.234,50" → rejected (two separators after comma conversion)
//	"Gratuit"  → rejected
//
// The second return value is false when the text does not yield a positive number.
func NormalizePrice(raw string) (float64, bool) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case unicode.Is(unicode.Sc, r), unicode.IsSpace(r):
			// currency symbols and (non-breaking) spaces
		case r == ',' || r == '.':
			b.WriteByte('.')
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, false
	}
	return price, true
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
