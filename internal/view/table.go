// Package view projects the ledger into display rows. It holds no state of its own.
package view

import (
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/stocker/internal/domain"
)

const (
	percentageMultiplier = 100
	weightPlaces         = 2
	emptyWeight          = "-"
)

// Row is one position as shown in the table.
type Row struct {
	Ticker string `json:"ticker"`
	Quote  string `json:"quote"`
	Amount string `json:"amount"`
	Total  string `json:"total"`
	Weight string `json:"weight"`
}

// Table is the whole projection.
type Table struct {
	Rows  []Row  `json:"rows"`
	Total string `json:"total"`
	Empty bool   `json:"empty"`
}

// Build derives rows and weights from the positions. A zero total never
// produces a division: weights render as "-".
func Build(positions []domain.Position, total decimal.Decimal) Table {
	t := Table{
		Rows:  make([]Row, 0, len(positions)),
		Total: total.String(),
		Empty: len(positions) == 0 || total.IsZero(),
	}

	for _, p := range positions {
		contribution := p.Contribution()
		t.Rows = append(t.Rows, Row{
			Ticker: p.Ticker,
			Quote:  p.Quote.String(),
			Amount: p.Amount.String(),
			Total:  contribution.String(),
			Weight: Weight(contribution, total),
		})
	}

	return t
}

// Weight returns part / total as a percentage with two decimals.
func Weight(part, total decimal.Decimal) string {
	if total.IsZero() {
		return emptyWeight
	}
	return part.Div(total).Mul(decimal.NewFromInt(percentageMultiplier)).StringFixed(weightPlaces)
}
