// Package ledger owns the portfolio positions and keeps the persisted snapshot
// and the allocation chart in step with them.
//
// A Ledger is not safe for concurrent use; callers serialize access.
package ledger

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/stocker/internal/domain"
	"github.com/vadiminshakov/stocker/internal/storage/snapshot"
	"go.uber.org/zap"
)

// Ledger is the authoritative, insertion-ordered set of positions.
type Ledger struct {
	positions []domain.Position
	total     decimal.Decimal
	hydrated  bool

	store   snapshot.Store
	chart   ChartSink
	confirm Confirmer
	l       *zap.Logger
}

// New creates an empty ledger. A nil confirmer asks nobody and always declines.
func New(store snapshot.Store, chart ChartSink, confirm Confirmer, l *zap.Logger) *Ledger {
	if confirm == nil {
		confirm = NeverConfirm
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Ledger{
		total:   decimal.Zero,
		store:   store,
		chart:   chart,
		confirm: confirm,
		l:       l,
	}
}

// Hydrate fills the ledger from the persisted snapshot. It runs once; records
// that fail validation or repeat a ticker are skipped. The snapshot is not
// rewritten.
func (lg *Ledger) Hydrate(ctx context.Context) (int, error) {
	if lg.hydrated {
		return 0, errors.New("ledger already hydrated")
	}
	lg.hydrated = true

	snap, ok := lg.store.Load(ctx)
	if !ok {
		lg.l.Info("no stored portfolio, starting empty")
		return 0, nil
	}

	loaded := 0
	for _, rec := range snap {
		pos, err := domain.ParsePosition(rec.Ticker, rec.Quote, rec.Amount)
		if err != nil {
			lg.l.Warn("skipping invalid stored position", zap.String("ticker", rec.Ticker), zap.Error(err))
			continue
		}
		if lg.find(pos.Ticker) >= 0 {
			lg.l.Warn("skipping duplicate stored position", zap.String("ticker", pos.Ticker))
			continue
		}

		lg.positions = append(lg.positions, pos)
		lg.chart.Append(pos.Ticker, pos.Contribution())
		lg.total = lg.total.Add(pos.Contribution())
		loaded++
	}

	if loaded > 0 {
		lg.chart.Redraw()
	}
	lg.l.Info("portfolio restored", zap.Int("positions", loaded), zap.String("total", lg.total.String()))

	return loaded, nil
}

// Add appends a new position. A ticker that is already held is rejected
// with ErrDuplicateTicker; use Edit to change it.
func (lg *Ledger) Add(ctx context.Context, ticker, quote, amount string) error {
	ticker = domain.NormalizeTicker(ticker)
	if ticker != "" && lg.find(ticker) >= 0 {
		return errors.Wrap(ErrDuplicateTicker, ticker)
	}

	pos, err := domain.ParsePosition(ticker, quote, amount)
	if err != nil {
		return errors.Wrap(ErrInvalidInput, err.Error())
	}

	next := append(lg.clonePositions(), pos)
	if err := lg.save(ctx, next); err != nil {
		return err
	}
	lg.positions = next

	contribution := pos.Contribution()
	lg.chart.Append(pos.Ticker, contribution)
	lg.total = lg.total.Add(contribution)
	lg.chart.Redraw()

	lg.l.Info("position added",
		zap.String("ticker", pos.Ticker),
		zap.String("quote", pos.Quote.String()),
		zap.String("amount", pos.Amount.String()),
		zap.String("total", lg.total.String()))

	return nil
}

// Edit replaces one factor of a position and applies the marginal change in
// its contribution to the total and the chart.
func (lg *Ledger) Edit(ctx context.Context, ticker string, field Field, newValue string) error {
	value, ok := domain.ParseAmount(newValue)
	if !ok {
		return errors.Wrapf(ErrInvalidInput, "%s %q", field, newValue)
	}
	if field != FieldQuote && field != FieldAmount {
		return errors.Wrapf(ErrInvalidInput, "unknown field %s", field)
	}

	ticker = domain.NormalizeTicker(ticker)
	i := lg.find(ticker)
	if i < 0 {
		return errors.Wrap(ErrStale, ticker)
	}

	next := lg.clonePositions()
	pos := &next[i]

	var deltaContribution decimal.Decimal
	switch field {
	case FieldQuote:
		deltaContribution = value.Sub(pos.Quote).Mul(pos.Amount)
		pos.Quote = value
	case FieldAmount:
		deltaContribution = value.Sub(pos.Amount).Mul(pos.Quote)
		pos.Amount = value
	}

	if err := lg.save(ctx, next); err != nil {
		return err
	}
	lg.positions = next
	lg.total = lg.total.Add(deltaContribution)

	idx := lg.chart.FindIndexByLabel(ticker)
	if idx < 0 {
		lg.l.Warn("edited position has no chart entry", zap.String("ticker", ticker))
	} else {
		lg.chart.Increment(idx, deltaContribution)
		lg.chart.Redraw()
	}

	lg.l.Info("position edited",
		zap.String("ticker", ticker),
		zap.Stringer("field", field),
		zap.String("value", value.String()),
		zap.String("delta", deltaContribution.String()),
		zap.String("total", lg.total.String()))

	return nil
}

// Remove deletes the position after the user confirms. A ticker that is not
// held is ErrStale without a prompt. The position must still hold
// expectedQuote and expectedAmount, otherwise ErrStale is returned.
// The chart entry for the ticker is always removed outright.
func (lg *Ledger) Remove(ctx context.Context, ticker, expectedQuote, expectedAmount string) error {
	ticker = domain.NormalizeTicker(ticker)

	i := lg.find(ticker)
	if i < 0 {
		return errors.Wrap(ErrStale, ticker)
	}

	prompt := fmt.Sprintf("Remove %s from list (quote: $%s, amount: %s)?", ticker, expectedQuote, expectedAmount)
	if err := lg.ask(ctx, prompt); err != nil {
		return err
	}

	quote, qok := domain.ParseAmount(expectedQuote)
	amount, aok := domain.ParseAmount(expectedAmount)
	if !qok || !aok {
		return errors.Wrapf(ErrInvalidInput, "quote %q amount %q", expectedQuote, expectedAmount)
	}
	if !lg.positions[i].Matches(quote, amount) {
		return errors.Wrap(ErrStale, ticker)
	}

	next := make([]domain.Position, 0, len(lg.positions)-1)
	next = append(next, lg.positions[:i]...)
	next = append(next, lg.positions[i+1:]...)

	if err := lg.save(ctx, next); err != nil {
		return err
	}
	lg.positions = next
	lg.total = domain.Sum(lg.positions)

	if idx := lg.chart.FindIndexByLabel(ticker); idx >= 0 {
		lg.chart.RemoveAt(idx)
		lg.chart.Redraw()
	}

	lg.l.Info("position removed", zap.String("ticker", ticker), zap.String("total", lg.total.String()))

	return nil
}

// Reset clears the stored snapshot, the ledger and the chart after the user confirms.
func (lg *Ledger) Reset(ctx context.Context) error {
	if err := lg.ask(ctx, "Remove all previously added data?"); err != nil {
		return err
	}

	if err := lg.store.Clear(ctx); err != nil {
		return errors.Wrap(err, "clear stored portfolio")
	}

	for _, pos := range lg.positions {
		if idx := lg.chart.FindIndexByLabel(pos.Ticker); idx >= 0 {
			lg.chart.RemoveAt(idx)
		}
	}
	lg.positions = nil
	lg.total = decimal.Zero
	lg.chart.Redraw()

	lg.l.Info("portfolio reset")

	return nil
}

// Positions returns a copy of the positions in insertion order.
func (lg *Ledger) Positions() []domain.Position {
	return lg.clonePositions()
}

// Get returns the position for ticker.
func (lg *Ledger) Get(ticker string) (domain.Position, bool) {
	i := lg.find(domain.NormalizeTicker(ticker))
	if i < 0 {
		return domain.Position{}, false
	}
	return lg.positions[i], true
}

// Has reports whether ticker is held.
func (lg *Ledger) Has(ticker string) bool {
	return lg.find(domain.NormalizeTicker(ticker)) >= 0
}

// Total returns the running portfolio value.
func (lg *Ledger) Total() decimal.Decimal {
	return lg.total
}

// Len returns the number of positions.
func (lg *Ledger) Len() int {
	return len(lg.positions)
}

// Snapshot returns the persisted form of the current positions.
func (lg *Ledger) Snapshot() snapshot.Snapshot {
	return toSnapshot(lg.positions)
}

func (lg *Ledger) ask(ctx context.Context, prompt string) error {
	ok, err := lg.confirm.Confirm(ctx, prompt)
	if err != nil {
		return errors.Wrap(err, "confirmation failed")
	}
	if !ok {
		lg.l.Debug("confirmation declined", zap.String("prompt", prompt))
		return ErrCancelled
	}
	return nil
}

func (lg *Ledger) save(ctx context.Context, positions []domain.Position) error {
	if err := lg.store.Save(ctx, toSnapshot(positions)); err != nil {
		lg.l.Error("failed to persist portfolio", zap.Error(err))
		return errors.Wrap(err, "persist portfolio")
	}
	return nil
}

func (lg *Ledger) find(ticker string) int {
	for i, p := range lg.positions {
		if p.Ticker == ticker {
			return i
		}
	}
	return -1
}

func (lg *Ledger) clonePositions() []domain.Position {
	return append([]domain.Position{}, lg.positions...)
}

func toSnapshot(positions []domain.Position) snapshot.Snapshot {
	snap := make(snapshot.Snapshot, 0, len(positions))
	for _, p := range positions {
		snap = append(snap, snapshot.Record{
			Ticker: p.Ticker,
			Quote:  p.Quote.String(),
			Amount: p.Amount.String(),
		})
	}
	return snap
}
