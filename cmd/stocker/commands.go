package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/stocker/config"
	"github.com/vadiminshakov/stocker/internal/domain"
	"github.com/vadiminshakov/stocker/internal/ledger"
	"github.com/vadiminshakov/stocker/internal/tui"
	"github.com/vadiminshakov/stocker/internal/view"
)

func terminalConfirmer(cfg config.Config) ledger.Confirmer {
	if cfg.AssumeYes {
		return ledger.AlwaysConfirm
	}
	return tui.Confirmer{}
}

// fail prints err and maps it to an exit status.
func fail(err error) subcommands.ExitStatus {
	switch {
	case errors.Is(err, ledger.ErrCancelled):
		fmt.Fprintln(stderr, "cancelled")
	case errors.Is(err, ledger.ErrDuplicateTicker):
		fmt.Fprintf(stderr, "%v, use edit to change it\n", err)
	default:
		fmt.Fprintln(stderr, err)
	}
	return subcommands.ExitFailure
}

func printTable(s *session) {
	fmt.Fprintln(stdout, view.Render(view.Build(s.ledger.Positions(), s.ledger.Total()), s.cfg.Currency))
}

type addCmd struct {
	globals *config.Flags
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a position" }
func (*addCmd) Usage() string {
	return `stocker add <ticker> <quote> <amount>

  Adds a new position. A ticker that is already held is rejected; use edit.
`
}
func (*addCmd) SetFlags(*flag.FlagSet) {}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	s, err := openSession(ctx, c.globals, nil)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if err := s.ledger.Add(ctx, f.Arg(0), f.Arg(1), f.Arg(2)); err != nil {
		return fail(err)
	}
	printTable(s)

	return subcommands.ExitSuccess
}

type editCmd struct {
	globals *config.Flags
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change the quote or amount of a position" }
func (*editCmd) Usage() string {
	return `stocker edit <ticker> <quote|amount> <value>
`
}
func (*editCmd) SetFlags(*flag.FlagSet) {}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	field, err := ledger.ParseField(f.Arg(1))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitUsageError
	}

	s, err := openSession(ctx, c.globals, nil)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if err := s.ledger.Edit(ctx, f.Arg(0), field, f.Arg(2)); err != nil {
		return fail(err)
	}
	printTable(s)

	return subcommands.ExitSuccess
}

type rmCmd struct {
	globals *config.Flags
	quote   string
	amount  string
}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "remove a position" }
func (*rmCmd) Usage() string {
	return `stocker rm [-quote <q> -amount <a>] <ticker>

  Removes the position after confirmation. With -quote and -amount the
  position is only removed if it still holds those values.
`
}

func (c *rmCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.quote, "quote", "", "expected quote of the position")
	f.StringVar(&c.amount, "amount", "", "expected amount of the position")
}

func (c *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	s, err := openSession(ctx, c.globals, nil)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	ticker := f.Arg(0)
	quote, amount := c.quote, c.amount
	if pos, ok := s.ledger.Get(ticker); ok {
		if quote == "" {
			quote = pos.Quote.String()
		}
		if amount == "" {
			amount = pos.Amount.String()
		}
	}

	if err := s.ledger.Remove(ctx, ticker, quote, amount); err != nil {
		return fail(err)
	}
	printTable(s)

	return subcommands.ExitSuccess
}

type lsCmd struct {
	globals *config.Flags
	asJSON  bool
	noChart bool
}

func (*lsCmd) Name() string     { return "ls" }
func (*lsCmd) Synopsis() string { return "list positions and the allocation chart" }
func (*lsCmd) Usage() string {
	return `stocker ls [-json] [-nochart]
`
}

func (c *lsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.asJSON, "json", false, "print the table as JSON")
	f.BoolVar(&c.noChart, "nochart", false, "do not draw the allocation chart")
}

func (c *lsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx, c.globals, ledger.NeverConfirm)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	table := view.Build(s.ledger.Positions(), s.ledger.Total())
	if c.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(table); err != nil {
			return fail(err)
		}
		return subcommands.ExitSuccess
	}

	fmt.Fprintln(stdout, view.Render(table, s.cfg.Currency))
	if !c.noChart && s.chart.Len() > 0 {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, view.RenderChart(s.chart.Frame(), s.cfg.Currency))
	}

	return subcommands.ExitSuccess
}

type resetCmd struct {
	globals *config.Flags
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "remove all positions" }
func (*resetCmd) Usage() string {
	return `stocker reset
`
}
func (*resetCmd) SetFlags(*flag.FlagSet) {}

func (c *resetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx, c.globals, nil)
	if err != nil {
		return fail(err)
	}
	defer s.Close()

	if err := s.ledger.Reset(ctx); err != nil {
		return fail(err)
	}
	fmt.Fprintln(stdout, "portfolio cleared")

	return subcommands.ExitSuccess
}

type sizeCmd struct {
	balance  string
	risk     string
	entry    string
	stopLoss string
}

func (*sizeCmd) Name() string     { return "size" }
func (*sizeCmd) Synopsis() string { return "compute a position size from a risk budget" }
func (*sizeCmd) Usage() string {
	return `stocker size -balance <b> -risk <pct> -entry <price> -stop <price>

  Prints the maximum amount at risk (rounded up) and the number of shares
  to buy (rounded down) so that hitting the stop loses at most that amount.
`
}

func (c *sizeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.balance, "balance", "", "account balance")
	f.StringVar(&c.risk, "risk", "1", "maximum loss as a percentage of the balance")
	f.StringVar(&c.entry, "entry", "", "entry price")
	f.StringVar(&c.stopLoss, "stop", "", "stop loss price")
}

func (c *sizeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	balance, ok1 := domain.ParseAmount(c.balance)
	risk, ok2 := domain.ParseAmount(c.risk)
	entry, ok3 := domain.ParseAmount(c.entry)
	stop, ok4 := domain.ParseAmount(c.stopLoss)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		fmt.Fprintln(stderr, "balance, risk, entry and stop must be positive numbers")
		f.Usage()
		return subcommands.ExitUsageError
	}

	plan := domain.SizePosition(balance, risk, entry, stop)
	fmt.Fprintf(stdout, "max risk: %s\nposition size: %s\n", plan.MaxRiskAmount.String(), plan.PositionSize.String())

	return subcommands.ExitSuccess
}
