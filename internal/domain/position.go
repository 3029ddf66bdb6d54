// Package domain defines core data structures used throughout the portfolio tracker.
package domain

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Position is one ticker held in the portfolio.
type Position struct {
	Ticker string
	Quote  decimal.Decimal
	Amount decimal.Decimal
}

// NewPosition constructs a validated position. The ticker is normalized.
func NewPosition(ticker string, quote, amount decimal.Decimal) (Position, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return Position{}, errors.New("ticker is required")
	}
	if quote.LessThanOrEqual(decimal.Zero) {
		return Position{}, errors.New("quote must be greater than zero")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return Position{}, errors.New("amount must be greater than zero")
	}

	return Position{Ticker: ticker, Quote: quote, Amount: amount}, nil
}

// ParsePosition builds a position from raw field text.
func ParsePosition(ticker, quote, amount string) (Position, error) {
	q, ok := ParseAmount(quote)
	if !ok {
		return Position{}, errors.Errorf("invalid quote %q", quote)
	}
	a, ok := ParseAmount(amount)
	if !ok {
		return Position{}, errors.Errorf("invalid amount %q", amount)
	}

	return NewPosition(ticker, q, a)
}

// Contribution returns quote × amount.
func (p Position) Contribution() decimal.Decimal {
	return p.Quote.Mul(p.Amount)
}

// Matches reports whether the position still holds exactly the given quote and amount.
func (p Position) Matches(quote, amount decimal.Decimal) bool {
	return p.Quote.Equal(quote) && p.Amount.Equal(amount)
}

// Sum re-adds every contribution from scratch.
func Sum(positions []Position) decimal.Decimal {
	total := decimal.Zero
	for _, p := range positions {
		total = total.Add(p.Contribution())
	}
	return total
}
