package view

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no or an unknown currency code is configured.
const DefaultCurrency = money.USD

// FormatMoney renders amount in the currency's minor units, e.g. "$1,500.00".
func FormatMoney(amount decimal.Decimal, code string) string {
	cur := currency(code)
	return format(amount, cur, cur.Fraction)
}

// FormatWholeMoney renders amount rounded to whole units, e.g. "$1,500".
func FormatWholeMoney(amount decimal.Decimal, code string) string {
	return format(amount, currency(code), 0)
}

var (
	minMinor = decimal.NewFromInt(math.MinInt64)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// format renders amount with fraction decimal places in cur's layout. Amounts
// whose minor units do not fit an int64 are laid out from the decimal itself.
func format(amount decimal.Decimal, cur *money.Currency, fraction int) string {
	minor := amount.Shift(int32(fraction)).Round(0)
	if minor.GreaterThanOrEqual(minMinor) && minor.LessThanOrEqual(maxMinor) {
		f := money.NewFormatter(fraction, cur.Decimal, cur.Thousand, cur.Grapheme, cur.Template)
		return f.Format(minor.IntPart())
	}

	digits := minor.Abs().Shift(-int32(fraction)).StringFixed(int32(fraction))
	whole, frac, _ := strings.Cut(digits, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(cur.Thousand)
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString(cur.Decimal)
		b.WriteString(frac)
	}

	out := strings.Replace(cur.Template, "1", b.String(), 1)
	out = strings.Replace(out, "$", cur.Grapheme, 1)
	if minor.IsNegative() {
		out = "-" + out
	}
	return out
}

// Tooltip is the chart hover text: "<label> - <share>% - <value>".
func Tooltip(label string, value, sum decimal.Decimal, code string) string {
	share := "0.0"
	if !sum.IsZero() {
		share = value.Div(sum).Mul(decimal.NewFromInt(percentageMultiplier)).StringFixed(1)
	}
	return fmt.Sprintf("%s - %s%% - %s", label, share, FormatWholeMoney(value, code))
}

func currency(code string) *money.Currency {
	if code != "" {
		if c := money.GetCurrency(code); c != nil {
			return c
		}
	}
	return money.GetCurrency(DefaultCurrency)
}
