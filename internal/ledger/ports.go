package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ChartSink is the visual aggregate kept in sync with the ledger. Mutating
// calls only change the in-memory data; Redraw pushes it to the screen and is
// called once per ledger operation.
type ChartSink interface {
	Append(label string, value decimal.Decimal)
	Increment(index int, delta decimal.Decimal)
	RemoveAt(index int)
	FindIndexByLabel(label string) int
	Redraw()
}

// Confirmer asks the user a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm answers yes without asking. Used when the caller already
// confirmed, e.g. a browser dialog or a --yes flag.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) {
	return true, nil
})

// NeverConfirm answers no.
var NeverConfirm Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) {
	return false, nil
})

// Field selects which factor of a position an edit changes.
type Field int

const (
	FieldQuote Field = iota
	FieldAmount
)

func (f Field) String() string {
	switch f {
	case FieldQuote:
		return "quote"
	case FieldAmount:
		return "amount"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// ParseField accepts "quote" (or "price") and "amount".
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quote", "price":
		return FieldQuote, nil
	case "amount":
		return FieldAmount, nil
	default:
		return 0, fmt.Errorf("unknown field %q, want quote or amount", s)
	}
}
