package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPosition(t *testing.T) {
	tests := []struct {
		name    string
		ticker  string
		quote   decimal.Decimal
		amount  decimal.Decimal
		wantErr string
	}{
		{
			name:   "valid position is normalized",
			ticker: " aapl ",
			quote:  decimal.NewFromInt(150),
			amount: decimal.NewFromInt(10),
		},
		{
			name:    "empty ticker",
			ticker:  "  ",
			quote:   decimal.NewFromInt(150),
			amount:  decimal.NewFromInt(10),
			wantErr: "ticker",
		},
		{
			name:    "zero quote",
			ticker:  "AAPL",
			quote:   decimal.Zero,
			amount:  decimal.NewFromInt(10),
			wantErr: "quote",
		},
		{
			name:    "negative amount",
			ticker:  "AAPL",
			quote:   decimal.NewFromInt(150),
			amount:  decimal.NewFromInt(-1),
			wantErr: "amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := NewPosition(tt.ticker, tt.quote, tt.amount)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "AAPL", pos.Ticker)
		})
	}
}

func TestParsePosition(t *testing.T) {
	pos, err := ParsePosition("msft", "310.5", "2")
	require.NoError(t, err)
	assert.Equal(t, "MSFT", pos.Ticker)
	assert.True(t, pos.Contribution().Equal(decimal.NewFromInt(621)), "got %s", pos.Contribution())

	_, err = ParsePosition("MSFT", "abc", "2")
	assert.Error(t, err)

	_, err = ParsePosition("MSFT", "10", "0")
	assert.Error(t, err)
}

func TestPosition_Matches(t *testing.T) {
	pos := Position{Ticker: "AAPL", Quote: decimal.RequireFromString("150.0"), Amount: decimal.NewFromInt(10)}

	assert.True(t, pos.Matches(decimal.NewFromInt(150), decimal.RequireFromString("10.00")))
	assert.False(t, pos.Matches(decimal.NewFromInt(151), decimal.NewFromInt(10)))
}

func TestSum(t *testing.T) {
	positions := []Position{
		{Ticker: "AAPL", Quote: decimal.NewFromInt(150), Amount: decimal.NewFromInt(10)},
		{Ticker: "MSFT", Quote: decimal.RequireFromString("0.1"), Amount: decimal.NewFromInt(3)},
	}

	assert.True(t, Sum(positions).Equal(decimal.RequireFromString("1500.3")))
	assert.True(t, Sum(nil).IsZero())
}
