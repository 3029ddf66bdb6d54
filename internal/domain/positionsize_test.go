package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSizePosition(t *testing.T) {
	tests := []struct {
		name        string
		balance     int64
		maxLossPct  string
		entry       string
		stopLoss    string
		wantMaxRisk int64
		wantSize    int64
	}{
		{
			name:    "long trade",
			balance: 10000, maxLossPct: "1", entry: "50", stopLoss: "48",
			// 10000 * 1% = 100; 100 / 2 = 50 shares
			wantMaxRisk: 100, wantSize: 50,
		},
		{
			name:    "short trade uses absolute distance",
			balance: 10000, maxLossPct: "2", entry: "30", stopLoss: "33",
			// 200 / 3 = 66.6 -> 66
			wantMaxRisk: 200, wantSize: 66,
		},
		{
			name:    "risk amount rounds up",
			balance: 1234, maxLossPct: "1.5", entry: "10", stopLoss: "9",
			// 18.51 -> 19
			wantMaxRisk: 19, wantSize: 19,
		},
		{
			name:    "entry equals stop loss",
			balance: 10000, maxLossPct: "1", entry: "50", stopLoss: "50",
			wantMaxRisk: 100, wantSize: 0,
		},
		{
			name:    "missing stop loss",
			balance: 10000, maxLossPct: "1", entry: "50", stopLoss: "0",
			wantMaxRisk: 100, wantSize: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := SizePosition(
				decimal.NewFromInt(tt.balance),
				decimal.RequireFromString(tt.maxLossPct),
				decimal.RequireFromString(tt.entry),
				decimal.RequireFromString(tt.stopLoss),
			)
			assert.True(t, plan.MaxRiskAmount.Equal(decimal.NewFromInt(tt.wantMaxRisk)), "max risk: got %s", plan.MaxRiskAmount)
			assert.True(t, plan.PositionSize.Equal(decimal.NewFromInt(tt.wantSize)), "size: got %s", plan.PositionSize)
		})
	}
}
