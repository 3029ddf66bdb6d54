package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a quote or amount field. Empty, non-numeric, zero and
// negative values are all invalid: a zero factor would make the position's
// contribution meaningless.
func ParseAmount(text string) (decimal.Decimal, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	if !d.IsPositive() {
		return decimal.Zero, false
	}

	return d, true
}

// ParseAmountOr returns fallback when text does not parse.
func ParseAmountOr(text string, fallback decimal.Decimal) decimal.Decimal {
	if d, ok := ParseAmount(text); ok {
		return d
	}
	return fallback
}

// NormalizeTicker trims and upper-cases a ticker so "aapl " and "AAPL" collide.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
