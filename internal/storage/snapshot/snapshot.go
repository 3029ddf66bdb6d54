// Package snapshot persists the serialized portfolio ledger.
package snapshot

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

// Store holds a single named slot with the latest ledger snapshot.
type Store interface {
	// Load returns the stored snapshot. Missing or unreadable data yields ok == false.
	Load(ctx context.Context) (snap Snapshot, ok bool)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, snap Snapshot) error
	// Clear removes the snapshot entirely.
	Clear(ctx context.Context) error
}

// Record is one position as it appears in the persisted slot. Numeric fields
// stay strings to match the text the user typed.
type Record struct {
	Ticker string `json:"ticker"`
	Quote  string `json:"quote"`
	Amount string `json:"amount"`
}

// UnmarshalJSON accepts the older "price" key when "quote" is absent.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		Ticker string `json:"ticker"`
		Quote  string `json:"quote"`
		Price  string `json:"price"`
		Amount string `json:"amount"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Ticker = raw.Ticker
	r.Quote = raw.Quote
	if r.Quote == "" {
		r.Quote = raw.Price
	}
	r.Amount = raw.Amount

	return nil
}

// Snapshot is the full ordered collection of records.
type Snapshot []Record

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// Encode serializes the snapshot. A nil snapshot encodes as an empty array.
func Encode(s Snapshot) ([]byte, error) {
	if s == nil {
		s = Snapshot{}
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "encode portfolio snapshot")
	}
	return payload, nil
}

// Decode parses a serialized snapshot.
func Decode(payload []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, errors.Wrap(err, "decode portfolio snapshot")
	}
	if s == nil {
		s = Snapshot{}
	}
	return s, nil
}
