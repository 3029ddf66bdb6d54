package snapshot

import (
	"context"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"
	"go.uber.org/zap"
)

const (
	// DefaultJournalDir is where the wal backend keeps its segments.
	DefaultJournalDir = "./data/journal"

	journalSegmentLimit = 1000
	journalMaxSegments  = 10

	portfolioKey      = "portfolio"
	portfolioClearKey = "portfolio_clear"
)

// JournalStore persists every saved snapshot in a WAL. The newest entry is the
// current state, older entries are the history of the ledger.
type JournalStore struct {
	wal *gowal.Wal
	l   *zap.Logger
	mu  sync.Mutex
}

var _ Store = (*JournalStore)(nil)

// NewJournalStore opens (or creates) a WAL-backed snapshot store under dir.
func NewJournalStore(dir string, l *zap.Logger) (*JournalStore, error) {
	if dir == "" {
		dir = DefaultJournalDir
	}
	if l == nil {
		l = zap.NewNop()
	}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, errors.Wrapf(err, "failed to ensure journal directory %s", dir)
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "portfolio_",
		SegmentThreshold: journalSegmentLimit,
		MaxSegments:      journalMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init portfolio journal")
	}

	return &JournalStore{wal: wal, l: l}, nil
}

// Load replays the journal and returns the last saved snapshot.
func (s *JournalStore) Load(_ context.Context) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		last  []byte
		found bool
	)
	for msg := range s.wal.Iterator() {
		switch msg.Key {
		case portfolioKey:
			last = msg.Value
			found = true
		case portfolioClearKey:
			last = nil
			found = false
		}
	}
	if !found {
		return nil, false
	}

	snap, err := Decode(last)
	if err != nil {
		s.l.Warn("ignoring malformed journal entry", zap.Error(err))
		return nil, false
	}

	return snap, true
}

// Save appends the snapshot as the newest journal entry.
func (s *JournalStore) Save(_ context.Context, snap Snapshot) error {
	payload, err := Encode(snap)
	if err != nil {
		return err
	}

	return s.append(portfolioKey, payload)
}

// Clear appends a tombstone so Load reports no data.
func (s *JournalStore) Clear(_ context.Context) error {
	return s.append(portfolioClearKey, []byte("{}"))
}

// CurrentIndex returns the latest journal index.
func (s *JournalStore) CurrentIndex() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *JournalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}

func (s *JournalStore) append(key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	if err := s.wal.Write(nextIndex, key, payload); err != nil {
		return errors.Wrapf(err, "append %s to journal", key)
	}
	return nil
}
