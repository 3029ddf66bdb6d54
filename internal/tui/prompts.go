package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/vadiminshakov/stocker/internal/domain"
)

type action string

const (
	actionAdd    action = "add"
	actionEdit   action = "edit"
	actionRemove action = "remove"
	actionReset  action = "reset"
	actionSize   action = "size"
	actionQuit   action = "quit"
)

// sizing holds the raw inputs of the position size calculator.
type sizing struct {
	Balance  string
	RiskPct  string
	Entry    string
	StopLoss string
}

type prompter interface {
	menu(ctx context.Context, hasPositions bool) (action, error)
	position(ctx context.Context, ticker, quote, amount *string, warning string) error
	pick(ctx context.Context, title string, tickers []string) (string, error)
	edit(ctx context.Context, field, value *string) error
	sizing(ctx context.Context, s *sizing) error
	confirm(ctx context.Context, prompt string) (bool, error)
}

// huhPrompts asks the questions in the terminal.
type huhPrompts struct{}

func (huhPrompts) menu(ctx context.Context, hasPositions bool) (action, error) {
	var choice action
	options := []huh.Option[action]{huh.NewOption("Add position", actionAdd)}
	if hasPositions {
		options = append(options,
			huh.NewOption("Edit position", actionEdit),
			huh.NewOption("Remove position", actionRemove),
			huh.NewOption("Remove all", actionReset),
		)
	}
	options = append(options,
		huh.NewOption("Position size calculator", actionSize),
		huh.NewOption("Quit", actionQuit),
	)

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[action]().
				Title("What next?").
				Options(options...).
				Value(&choice),
		),
	).RunWithContext(ctx)

	return choice, err
}

func (huhPrompts) position(ctx context.Context, ticker, quote, amount *string, warning string) error {
	tickerInput := huh.NewInput().
		Title("Ticker").
		Value(ticker).
		Validate(func(s string) error {
			if domain.NormalizeTicker(s) == "" {
				return fmt.Errorf("ticker cannot be empty")
			}
			return nil
		})
	if warning != "" {
		tickerInput = tickerInput.Description(warning)
	}

	return huh.NewForm(
		huh.NewGroup(
			tickerInput,
			huh.NewInput().
				Title("Quote ($)").
				Value(quote).
				Validate(validateNumber),
			huh.NewInput().
				Title("Amount").
				Value(amount).
				Validate(validateNumber),
		),
	).RunWithContext(ctx)
}

func (huhPrompts) pick(ctx context.Context, title string, tickers []string) (string, error) {
	var ticker string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(huh.NewOptions(tickers...)...).
				Value(&ticker),
		),
	).RunWithContext(ctx)

	return ticker, err
}

func (huhPrompts) edit(ctx context.Context, field, value *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Field").
				Options(
					huh.NewOption("Quote ($)", "quote"),
					huh.NewOption("Amount", "amount"),
				).
				Value(field),
			huh.NewInput().
				Title("New value").
				Value(value).
				Validate(validateNumber),
		),
	).RunWithContext(ctx)
}

func (huhPrompts) sizing(ctx context.Context, s *sizing) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Account balance ($)").Value(&s.Balance).Validate(validateNumber),
			huh.NewInput().Title("Max loss (%)").Value(&s.RiskPct).Validate(validateNumber),
			huh.NewInput().Title("Entry price ($)").Value(&s.Entry).Validate(validateNumber),
			huh.NewInput().Title("Stop loss ($)").Value(&s.StopLoss).Validate(validateNumber),
		),
	).RunWithContext(ctx)
}

func (huhPrompts) confirm(ctx context.Context, prompt string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).RunWithContext(ctx)

	return ok, err
}

func validateNumber(s string) error {
	if _, ok := domain.ParseAmount(s); !ok {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}
