package domain

import "github.com/shopspring/decimal"

const percentageMultiplier = 100

// RiskPlan is the result of a position sizing calculation.
type RiskPlan struct {
	// MaxRiskAmount is the part of the balance that may be lost, rounded up.
	MaxRiskAmount decimal.Decimal
	// PositionSize is the number of shares to buy, rounded down.
	PositionSize decimal.Decimal
}

// SizePosition computes how many shares to buy so that hitting the stop loss
// costs at most maxLossPct percent of balance.
func SizePosition(balance, maxLossPct, entry, stopLoss decimal.Decimal) RiskPlan {
	maxRisk := balance.Mul(maxLossPct).Div(decimal.NewFromInt(percentageMultiplier)).Ceil()

	plan := RiskPlan{MaxRiskAmount: maxRisk, PositionSize: decimal.Zero}
	if entry.IsZero() || stopLoss.IsZero() || entry.Equal(stopLoss) {
		return plan
	}

	size := maxRisk.Div(stopLoss.Sub(entry).Abs()).Floor()
	if size.IsNegative() {
		size = decimal.Zero
	}
	plan.PositionSize = size

	return plan
}
