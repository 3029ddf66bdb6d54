package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/stocker/internal/chart"
	"github.com/vadiminshakov/stocker/internal/storage/snapshot"
	"go.uber.org/zap"
)

// scriptedConfirmer answers with the queued replies and records the prompts.
type scriptedConfirmer struct {
	replies []bool
	prompts []string
}

func (c *scriptedConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	c.prompts = append(c.prompts, prompt)
	if len(c.replies) == 0 {
		return false, nil
	}
	r := c.replies[0]
	c.replies = c.replies[1:]
	return r, nil
}

// failingStore rejects every Save.
type failingStore struct {
	*snapshot.MemoryStore
}

func (failingStore) Save(context.Context, snapshot.Snapshot) error {
	return errors.New("disk full")
}

type fixture struct {
	ledger  *Ledger
	store   *snapshot.MemoryStore
	chart   *chart.State
	confirm *scriptedConfirmer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:   snapshot.NewMemoryStore(),
		chart:   chart.NewState(),
		confirm: &scriptedConfirmer{},
	}
	f.ledger = New(f.store, f.chart, f.confirm, zap.NewNop())
	_, err := f.ledger.Hydrate(context.Background())
	require.NoError(t, err)
	return f
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func persisted(t *testing.T, s snapshot.Store) snapshot.Snapshot {
	t.Helper()
	snap, ok := s.Load(context.Background())
	require.True(t, ok, "expected a stored snapshot")
	return snap
}

func TestLedger_AddScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ledger.Add(ctx, "AAPL", "150", "10"))

	assert.True(t, f.ledger.Total().Equal(dec("1500")), "total %s", f.ledger.Total())
	assert.Equal(t, []string{"AAPL"}, f.chart.Labels())
	assert.True(t, f.chart.Series()[0].Equal(dec("1500")))
	assert.Equal(t, 1, f.chart.Redraws())
	assert.Equal(t, snapshot.Snapshot{{Ticker: "AAPL", Quote: "150", Amount: "10"}}, persisted(t, f.store))
}

func TestLedger_AddDuplicateIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ledger.Add(ctx, "AAPL", "150", "10"))
	before := persisted(t, f.store)
	saves := f.store.Saves()

	err := f.ledger.Add(ctx, " aapl", "175", "3")
	assert.ErrorIs(t, err, ErrDuplicateTicker)
	assert.True(t, IsNoop(err))

	assert.Equal(t, 1, f.ledger.Len())
	pos, ok := f.ledger.Get("AAPL")
	require.True(t, ok)
	assert.True(t, pos.Quote.Equal(dec("150")))
	assert.True(t, pos.Amount.Equal(dec("10")))

	assert.Equal(t, before, persisted(t, f.store))
	assert.Equal(t, saves, f.store.Saves())
	assert.Equal(t, []string{"AAPL"}, f.chart.Labels())
	assert.Equal(t, 1, f.chart.Redraws())
}

func TestLedger_AddInvalid(t *testing.T) {
	tests := []struct {
		name                  string
		ticker, quote, amount string
	}{
		{name: "empty ticker", ticker: " ", quote: "1", amount: "1"},
		{name: "empty quote", ticker: "AAPL", quote: "", amount: "1"},
		{name: "zero amount", ticker: "AAPL", quote: "1", amount: "0"},
		{name: "negative quote", ticker: "AAPL", quote: "-3", amount: "1"},
		{name: "non-numeric amount", ticker: "AAPL", quote: "1", amount: "ten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			err := f.ledger.Add(context.Background(), tt.ticker, tt.quote, tt.amount)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, f.ledger.Len())
			assert.Zero(t, f.chart.Len())
			assert.Zero(t, f.store.Saves())
		})
	}
}

func TestLedger_EditScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ledger.Add(ctx, "AAPL", "150", "10"))
	require.NoError(t, f.ledger.Add(ctx, "MSFT", "300", "2"))

	// (160-150) * 10 = +100
	require.NoError(t, f.ledger.Edit(ctx, "aapl", FieldQuote, "160"))
	assert.True(t, f.ledger.Total().Equal(dec("2200")), "total %s", f.ledger.Total())
	assert.True(t, f.chart.Series()[0].Equal(dec("1600")))
	assert.True(t, f.chart.Series()[1].Equal(dec("600")))

	// (1-2) * 300 = -300
	require.NoError(t, f.ledger.Edit(ctx, "MSFT", FieldAmount, "1"))
	assert.True(t, f.ledger.Total().Equal(dec("1900")))
	assert.True(t, f.chart.Series()[1].Equal(dec("300")))

	assert.Equal(t, snapshot.Snapshot{
		{Ticker: "AAPL", Quote: "160", Amount: "10"},
		{Ticker: "MSFT", Quote: "300", Amount: "1"},
	}, persisted(t, f.store))
	assert.Equal(t, 4, f.chart.Redraws(), "one redraw per operation")
}

func TestLedger_EditRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ledger.Add(ctx, "AAPL", "150", "10"))
	saves := f.store.Saves()

	assert.ErrorIs(t, f.ledger.Edit(ctx, "AAPL", FieldQuote, "0"), ErrInvalidInput)
	assert.ErrorIs(t, f.ledger.Edit(ctx, "AAPL", FieldAmount, "abc"), ErrInvalidInput)
	assert.ErrorIs(t, f.ledger.Edit(ctx, "AAPL", Field(9), "1"), ErrInvalidInput)
	assert.ErrorIs(t, f.ledger.Edit(ctx, "TSLA", FieldQuote, "1"), ErrStale)

	assert.Equal(t, saves, f.store.Saves())
	assert.True(t, f.ledger.Total().Equal(dec("1500")))
}

func TestLedger_EditWithoutChartEntryStillUpdatesLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ledger.Add(ctx, "AAPL", "150", "10"))

	// break the alignment behind the ledger's back
	f.chart.RemoveAt(0)
	redraws := f.chart.Redraws()

	require.NoError(t, f.ledger.Edit(ctx, "AAPL", FieldAmount, "20"))
	assert.True(t, f.ledger.Total().Equal(dec("3000")))
	assert.Equal(t, "20", persisted(t, f.store)[0].Amount)
	assert.Zero(t, f.chart.Len())
	assert.Equal(t, redraws, f.chart.Redraws())
}

func TestLedger_RemoveScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ledger.Add(ctx, "AAPL", "150", "10"))

	f.confirm.replies = []bool{true}
	require.NoError(t, f.ledger.Remove(ctx, "AAPL", "150", "10"))

	assert.Zero(t, f.ledger.Len())
	assert.True(t, f.ledger.Total().IsZero())
	assert.Empty(t, f.chart.Labels())
	assert.Equal(t, snapshot.Snapshot{}, persisted(t, f.store))
	assert.Equal(t, []string{"Remove AAPL from list (quote: $150, amount: 10)?"}, f.confirm.prompts)
}

func TestLedger_RemoveDeclinedChangesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ledger.Add(ctx, "AAPL", "150", "10"))
	require.NoError(t, f.ledger.Add(ctx, "MSFT", "300", "2"))

	before := persisted(t, f.store)
	saves := f.store.Saves()
	redraws := f.chart.Redraws()

	f.confirm.replies = []bool{false}
	err := f.ledger.Remove(ctx, "AAPL", "150", "10")
	assert.ErrorIs(t, err, ErrCancelled)

	assert.Equal(t, 2, f.ledger.Len())
	assert.True(t, f.ledger.Total().Equal(dec("2100")))
	assert.Equal(t, before, persisted(t, f.store))
	assert.Equal(t, saves, f.store.Saves())
	assert.Equal(t, []string{"AAPL", "MSFT"}, f.chart.Labels())
	assert.Equal(t, redraws, f.chart.Redraws())
}

func TestLedger_RemoveStale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ledger.Add(ctx, "AAPL", "150", "10"))
	require.NoError(t, f.ledger.Edit(ctx, "AAPL", FieldQuote, "160"))

	f.confirm.replies = []bool{true, true}
	// the row the user clicked still showed the old quote
	assert.ErrorIs(t, f.ledger.Remove(ctx, "AAPL", "150", "10"), ErrStale)
	assert.ErrorIs(t, f.ledger.Remove(ctx, "TSLA", "1", "1"), ErrStale)

	assert.Equal(t, 1, f.ledger.Len())
	assert.Equal(t, []string{"AAPL"}, f.chart.Labels())
}

func TestLedger_RemoveUnknownTickerIsStaleWithoutPrompt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ledger.Add(ctx, "AAPL", "150", "10"))
	saves := f.store.Saves()

	f.confirm.replies = []bool{true}
	err := f.ledger.Remove(ctx, "NOPE", "", "")
	assert.ErrorIs(t, err, ErrStale)
	assert.NotErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, f.confirm.prompts, "nothing to confirm for a ticker that is not held")
	assert.Equal(t, saves, f.store.Saves())
	assert.Equal(t, 1, f.ledger.Len())
}

func TestLedger_RemoveMiddleKeepsAlignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ledger.Add(ctx, "AAPL", "150", "10"))
	require.NoError(t, f.ledger.Add(ctx, "MSFT", "300", "2"))
	require.NoError(t, f.ledger.Add(ctx, "TSLA", "200", "1"))

	f.confirm.replies = []bool{true}
	require.NoError(t, f.ledger.Remove(ctx, "msft", "300.0", "2"))

	assert.Equal(t, []string{"AAPL", "TSLA"}, f.chart.Labels())
	assert.True(t, f.chart.Series()[1].Equal(dec("200")))
	assert.True(t, f.ledger.Total().Equal(dec("1700")))
}

func TestLedger_Reset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.ledger.Add(ctx, "AAPL", "150", "10"))
	require.NoError(t, f.ledger.Add(ctx, "MSFT", "300", "2"))

	f.confirm.replies = []bool{false}
	assert.ErrorIs(t, f.ledger.Reset(ctx), ErrCancelled)
	assert.Equal(t, 2, f.ledger.Len())

	f.confirm.replies = []bool{true}
	require.NoError(t, f.ledger.Reset(ctx))
	assert.Zero(t, f.ledger.Len())
	assert.True(t, f.ledger.Total().IsZero())
	assert.Zero(t, f.chart.Len())

	_, ok := f.store.Load(ctx)
	assert.False(t, ok, "reset removes the stored slot")

	require.NoError(t, f.ledger.Add(ctx, "AAPL", "1", "1"), "ticker is free again")
}

func TestLedger_SaveFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	store := failingStore{snapshot.NewMemoryStoreWith(snapshot.Snapshot{{Ticker: "AAPL", Quote: "150", Amount: "10"}})}
	ch := chart.NewState()
	lg := New(store, ch, AlwaysConfirm, zap.NewNop())
	_, err := lg.Hydrate(ctx)
	require.NoError(t, err)
	redraws := ch.Redraws()

	assert.Error(t, lg.Add(ctx, "MSFT", "300", "2"))
	assert.Error(t, lg.Edit(ctx, "AAPL", FieldQuote, "160"))
	assert.Error(t, lg.Remove(ctx, "AAPL", "150", "10"))

	assert.Equal(t, 1, lg.Len())
	pos, _ := lg.Get("AAPL")
	assert.True(t, pos.Quote.Equal(dec("150")))
	assert.True(t, lg.Total().Equal(dec("1500")))
	assert.Equal(t, []string{"AAPL"}, ch.Labels())
	assert.Equal(t, redraws, ch.Redraws())
}

func TestLedger_Hydrate(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewMemoryStoreWith(snapshot.Snapshot{
		{Ticker: "aapl", Quote: "150", Amount: "10"},
		{Ticker: "MSFT", Quote: "abc", Amount: "2"},
		{Ticker: "AAPL", Quote: "999", Amount: "1"},
		{Ticker: "TSLA", Quote: "200", Amount: "1.5"},
	})
	ch := chart.NewState()
	lg := New(store, ch, nil, zap.NewNop())

	n, err := lg.Hydrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"AAPL", "TSLA"}, ch.Labels())
	assert.True(t, lg.Total().Equal(dec("1800")))
	assert.Equal(t, 1, ch.Redraws())
	assert.Zero(t, store.Saves(), "hydration does not rewrite the snapshot")

	_, err = lg.Hydrate(ctx)
	assert.Error(t, err)
}

func TestLedger_HydrateEmptyStore(t *testing.T) {
	ch := chart.NewState()
	lg := New(snapshot.NewMemoryStore(), ch, nil, zap.NewNop())

	n, err := lg.Hydrate(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.True(t, lg.Total().IsZero())
	assert.Zero(t, ch.Redraws())
}

func TestLedger_PositionsAreCopies(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ledger.Add(context.Background(), "AAPL", "150", "10"))

	ps := f.ledger.Positions()
	ps[0].Quote = dec("1")

	pos, _ := f.ledger.Get("AAPL")
	assert.True(t, pos.Quote.Equal(dec("150")))
}

func TestParseField(t *testing.T) {
	f, err := ParseField("Quote")
	require.NoError(t, err)
	assert.Equal(t, FieldQuote, f)

	f, err = ParseField("price")
	require.NoError(t, err)
	assert.Equal(t, FieldQuote, f)

	f, err = ParseField(" amount ")
	require.NoError(t, err)
	assert.Equal(t, FieldAmount, f)
	assert.Equal(t, "amount", f.String())

	_, err = ParseField("ticker")
	assert.Error(t, err)
}
