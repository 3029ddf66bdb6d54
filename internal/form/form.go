// Package form holds the state of the add-position input surface.
package form

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/stocker/internal/domain"
	"github.com/vadiminshakov/stocker/internal/ledger"
	"go.uber.org/zap"
)

const (
	FieldTicker = "ticker"
	FieldQuote  = "quote"
	FieldAmount = "amount"
)

// ErrNotReady is returned by Submit while CanSubmit is false.
var ErrNotReady = errors.New("form is not ready to submit")

// Adder is the part of the ledger the form submits to.
type Adder interface {
	Add(ctx context.Context, ticker, quote, amount string) error
}

// Form tracks the three raw field values and the duplicate warning.
type Form struct {
	ticker string
	quote  string
	amount string

	duplicate bool

	target Adder
	l      *zap.Logger
}

func New(target Adder, l *zap.Logger) *Form {
	if l == nil {
		l = zap.NewNop()
	}
	return &Form{target: target, l: l}
}

// Set records a change to one field. Editing the ticker clears the duplicate
// warning. Unknown field names are ignored.
func (f *Form) Set(name, raw string) {
	switch name {
	case FieldTicker:
		if raw != f.ticker {
			f.duplicate = false
		}
		f.ticker = raw
	case FieldQuote:
		f.quote = raw
	case FieldAmount:
		f.amount = raw
	default:
		f.l.Debug("ignoring unknown form field", zap.String("field", name))
	}
}

// Value returns the raw text of a field.
func (f *Form) Value(name string) string {
	switch name {
	case FieldTicker:
		return f.ticker
	case FieldQuote:
		return f.quote
	case FieldAmount:
		return f.amount
	}
	return ""
}

// CanSubmit reports whether the ticker is set and both numbers are valid.
func (f *Form) CanSubmit() bool {
	if domain.NormalizeTicker(f.ticker) == "" {
		return false
	}
	if _, ok := domain.ParseAmount(f.quote); !ok {
		return false
	}
	_, ok := domain.ParseAmount(f.amount)
	return ok
}

// DuplicateWarning is true after a submit hit an already held ticker.
func (f *Form) DuplicateWarning() bool {
	return f.duplicate
}

// Submit adds the position. On success the fields are cleared; on a
// duplicate ticker they are kept and the warning is raised.
func (f *Form) Submit(ctx context.Context) error {
	if !f.CanSubmit() {
		return ErrNotReady
	}

	err := f.target.Add(ctx, f.ticker, f.quote, f.amount)
	switch {
	case err == nil:
		f.Clear()
		return nil
	case errors.Is(err, ledger.ErrDuplicateTicker):
		f.duplicate = true
		f.l.Debug("duplicate ticker submitted", zap.String("ticker", f.ticker))
	}

	return err
}

// Clear empties all fields and the warning.
func (f *Form) Clear() {
	f.ticker, f.quote, f.amount = "", "", ""
	f.duplicate = false
}
