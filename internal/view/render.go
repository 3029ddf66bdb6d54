package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/stocker/internal/chart"
)

// Palette matches the slice colors of the web doughnut chart.
var Palette = []string{
	"#FF6384", "#36A2EB", "#FFCD56", "#3C5291",
	"#CBA135", "#862633", "#E59E6D", "#5D3754",
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	weightStyle = numberStyle.Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	totalStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
)

const barWidth = 30

// Render draws the table and a summary line.
func Render(t Table, currency string) string {
	if t.Empty {
		return mutedStyle.Render("No positions yet. Add a ticker, quote and amount.")
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, []string{r.Ticker, r.Quote, r.Amount, r.Total, r.Weight})
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Ticker", "Quote ($)", "Amount", "Total ($)", "Weight (%)").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			case col == 4:
				return weightStyle
			default:
				return numberStyle
			}
		})

	total := decimal.RequireFromString(t.Total)
	summary := fmt.Sprintf("Total: %s across %d position(s)", FormatMoney(total, currency), len(t.Rows))

	return lipgloss.JoinVertical(lipgloss.Left, tbl.String(), totalStyle.Render(summary))
}

// RenderChart draws the chart frame as horizontal bars with a tooltip legend.
func RenderChart(f chart.Frame, currency string) string {
	if len(f.Labels) == 0 {
		return mutedStyle.Render("Chart is empty.")
	}

	sum := 0.0
	for _, v := range f.Series {
		sum += v
	}
	sumDec := decimal.NewFromFloat(sum)

	lines := make([]string, 0, len(f.Labels))
	for i, label := range f.Labels {
		v := f.Series[i]
		n := 0
		if sum > 0 {
			n = int(v / sum * barWidth)
		}
		color := lipgloss.Color(Palette[i%len(Palette)])
		bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", n))
		pad := strings.Repeat(" ", barWidth-n)
		lines = append(lines, fmt.Sprintf("%s%s %s", bar, pad, Tooltip(label, decimal.NewFromFloat(v), sumDec, currency)))
	}

	return strings.Join(lines, "\n")
}
