// Package tui is the interactive terminal front end: a menu loop over the
// ledger with huh forms and a lipgloss dashboard.
package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/stocker/internal/chart"
	"github.com/vadiminshakov/stocker/internal/domain"
	"github.com/vadiminshakov/stocker/internal/form"
	"github.com/vadiminshakov/stocker/internal/ledger"
	"github.com/vadiminshakov/stocker/internal/view"
	"go.uber.org/zap"
)

const clearScreen = "\033[H\033[2J"

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	warn      = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6F61"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1)

	statusStyle  = lipgloss.NewStyle().Foreground(subtle)
	warningStyle = lipgloss.NewStyle().Foreground(warn).Bold(true)
)

const duplicateHint = "Ticker already in portfolio, use Edit to change it"

// Confirmer asks yes/no questions with a huh confirm dialog.
type Confirmer struct{}

func (Confirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	return huhPrompts{}.confirm(ctx, prompt)
}

// App runs the menu loop. The ledger must already be hydrated.
type App struct {
	ledger   *ledger.Ledger
	chart    *chart.State
	form     *form.Form
	currency string

	out     io.Writer
	prompts prompter
	clear   bool
	status  string
	warning bool

	l *zap.Logger
}

func New(lg *ledger.Ledger, ch *chart.State, currency string, out io.Writer, l *zap.Logger) *App {
	if l == nil {
		l = zap.NewNop()
	}
	return &App{
		ledger:   lg,
		chart:    ch,
		form:     form.New(lg, l),
		currency: currency,
		out:      out,
		prompts:  huhPrompts{},
		clear:    true,
		l:        l,
	}
}

// Run shows the dashboard and handles menu actions until the user quits or
// aborts a prompt.
func (a *App) Run(ctx context.Context) error {
	for {
		a.draw()

		act, err := a.prompts.menu(ctx, a.ledger.Len() > 0)
		if err != nil {
			return a.stop(err)
		}
		if act == actionQuit {
			return nil
		}

		if err := a.handle(ctx, act); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				a.setStatus("Aborted.", false)
				continue
			}
			return a.stop(err)
		}
	}
}

func (a *App) stop(err error) error {
	if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// handle runs one action. Ledger outcomes become the status line; only prompt
// failures are returned.
func (a *App) handle(ctx context.Context, act action) error {
	switch act {
	case actionAdd:
		return a.add(ctx)
	case actionEdit:
		return a.edit(ctx)
	case actionRemove:
		return a.remove(ctx)
	case actionReset:
		a.report(a.ledger.Reset(ctx), "Portfolio cleared.")
	case actionSize:
		return a.size(ctx)
	}
	return nil
}

func (a *App) add(ctx context.Context) error {
	ticker := a.form.Value(form.FieldTicker)
	quote := a.form.Value(form.FieldQuote)
	amount := a.form.Value(form.FieldAmount)

	hint := ""
	if a.form.DuplicateWarning() {
		hint = duplicateHint
	}

	if err := a.prompts.position(ctx, &ticker, &quote, &amount, hint); err != nil {
		return err
	}

	a.form.Set(form.FieldTicker, ticker)
	a.form.Set(form.FieldQuote, quote)
	a.form.Set(form.FieldAmount, amount)

	err := a.form.Submit(ctx)
	switch {
	case errors.Is(err, ledger.ErrDuplicateTicker):
		a.setStatus(duplicateHint, true)
	case errors.Is(err, form.ErrNotReady):
		a.setStatus("Ticker, quote and amount are required.", true)
	default:
		a.report(err, fmt.Sprintf("Added %s.", domain.NormalizeTicker(ticker)))
	}

	return nil
}

func (a *App) edit(ctx context.Context) error {
	ticker, err := a.prompts.pick(ctx, "Edit which position?", a.tickers())
	if err != nil {
		return err
	}

	fieldName, value := "quote", ""
	if err := a.prompts.edit(ctx, &fieldName, &value); err != nil {
		return err
	}

	field, err := ledger.ParseField(fieldName)
	if err != nil {
		a.setStatus(err.Error(), true)
		return nil
	}

	a.report(a.ledger.Edit(ctx, ticker, field, value), fmt.Sprintf("Updated %s %s.", ticker, field))
	return nil
}

func (a *App) remove(ctx context.Context) error {
	ticker, err := a.prompts.pick(ctx, "Remove which position?", a.tickers())
	if err != nil {
		return err
	}

	pos, ok := a.ledger.Get(ticker)
	if !ok {
		a.report(ledger.ErrStale, "")
		return nil
	}

	a.report(a.ledger.Remove(ctx, ticker, pos.Quote.String(), pos.Amount.String()), fmt.Sprintf("Removed %s.", ticker))
	return nil
}

func (a *App) size(ctx context.Context) error {
	var in sizing
	if err := a.prompts.sizing(ctx, &in); err != nil {
		return err
	}

	balance, ok1 := domain.ParseAmount(in.Balance)
	pct, ok2 := domain.ParseAmount(in.RiskPct)
	entry, ok3 := domain.ParseAmount(in.Entry)
	stop, ok4 := domain.ParseAmount(in.StopLoss)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		a.setStatus("All sizing inputs must be positive numbers.", true)
		return nil
	}

	plan := domain.SizePosition(balance, pct, entry, stop)
	a.setStatus(fmt.Sprintf("Max risk: %s, position size: %s shares",
		view.FormatMoney(plan.MaxRiskAmount, a.currency), plan.PositionSize.String()), false)

	return nil
}

// report turns a ledger result into the status line.
func (a *App) report(err error, success string) {
	switch {
	case err == nil:
		a.setStatus(success, false)
	case errors.Is(err, ledger.ErrCancelled):
		a.setStatus("Cancelled.", false)
	case errors.Is(err, huh.ErrUserAborted):
		a.setStatus("Aborted.", false)
	case errors.Is(err, ledger.ErrStale):
		a.setStatus("That position changed or no longer exists.", true)
	case ledger.IsNoop(err):
		a.setStatus(err.Error(), true)
	default:
		a.l.Error("portfolio operation failed", zap.Error(err))
		a.setStatus("Could not save: "+err.Error(), true)
	}
}

func (a *App) setStatus(msg string, warning bool) {
	a.status, a.warning = msg, warning
}

func (a *App) tickers() []string {
	positions := a.ledger.Positions()
	out := make([]string, 0, len(positions))
	for _, p := range positions {
		out = append(out, p.Ticker)
	}
	return out
}

func (a *App) draw() {
	if a.clear {
		fmt.Fprint(a.out, clearScreen)
	}
	fmt.Fprintln(a.out, a.screen())
}

// screen is the dashboard text above the menu.
func (a *App) screen() string {
	parts := []string{
		headerStyle.Render("STOCKER"),
		view.Render(view.Build(a.ledger.Positions(), a.ledger.Total()), a.currency),
	}

	if a.chart.Len() > 0 {
		parts = append(parts,
			sectionStyle.Render("ALLOCATION"),
			view.RenderChart(a.chart.Frame(), a.currency),
		)
	}

	if a.status != "" {
		style := statusStyle
		if a.warning {
			style = warningStyle
		}
		parts = append(parts, "", style.Render(a.status))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
