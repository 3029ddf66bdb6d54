package ledger

import "github.com/pkg/errors"

var (
	// ErrDuplicateTicker is returned by Add when the ticker is already held.
	ErrDuplicateTicker = errors.New("ticker already in portfolio")
	// ErrInvalidInput covers empty tickers and quotes or amounts that do not parse.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStale means the position the caller saw is no longer in the ledger.
	ErrStale = errors.New("position not found")
	// ErrCancelled means the user declined the confirmation.
	ErrCancelled = errors.New("cancelled by user")
)

// IsNoop reports whether err means the ledger was left untouched on purpose.
func IsNoop(err error) bool {
	return errors.Is(err, ErrDuplicateTicker) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrStale) ||
		errors.Is(err, ErrCancelled)
}
